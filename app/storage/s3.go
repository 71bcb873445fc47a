package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/config"
)

// ImageStore archives uploaded food images and returns the object key.
type ImageStore interface {
	PutFoodImage(ctx context.Context, ownerID uuid.UUID, contentType string, data []byte) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ ImageStore = (*S3ImageStore)(nil)

type S3ImageStore struct {
	client putObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewS3ImageStore builds an S3 client from the default AWS credential chain.
func NewS3ImageStore(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*S3ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3ImageStore(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3ImageStore(client putObjectAPI, bucket, prefix string, logger *slog.Logger) *S3ImageStore {
	return &S3ImageStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

func (s *S3ImageStore) PutFoodImage(ctx context.Context, ownerID uuid.UUID, contentType string, data []byte) (string, error) {
	ctx, span := otel.Tracer("ImageStore").Start(ctx, "PutFoodImage", trace.WithAttributes(
		attribute.String("s3.bucket", s.bucket),
		attribute.Int("image.size", len(data)),
		attribute.String("image.content_type", contentType),
	))
	defer span.End()

	key := path.Join(s.prefix, ownerID.String(),
		fmt.Sprintf("%s_%s%s", s.now().UTC().Format("20060102_150405"), uuid.NewString(), extensionFor(contentType)))
	l := s.logger.With(slog.String("method", "PutFoodImage"), slog.String("key", key))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPrivate,
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to upload food image", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "S3 upload failed")
		return "", fmt.Errorf("failed to upload food image: %w", err)
	}

	l.DebugContext(ctx, "Food image archived")
	span.SetStatus(codes.Ok, "Image archived")
	return key, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
