package restaurantSearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const (
	defaultBaseURL = "https://dapi.kakao.com/v2/local/search/keyword.json"
	defaultSize    = 5
	maxBodyBytes   = 1 << 20
)

var _ Searcher = (*KakaoClient)(nil)

// Searcher looks up real places for a location and menu keyword.
// It never returns an error: failures are reported as a SearchError outcome.
type Searcher interface {
	Search(ctx context.Context, location, keyword string) types.SearchOutcome
}

type KakaoClient struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
	size    int
	cache   *cache.Cache
}

type kakaoResponse struct {
	Documents []struct {
		PlaceName       string `json:"place_name"`
		RoadAddressName string `json:"road_address_name"`
		AddressName     string `json:"address_name"`
		PlaceURL        string `json:"place_url"`
		CategoryName    string `json:"category_name"`
	} `json:"documents"`
}

func NewKakaoClient(cfg config.SearchConfig, logger *slog.Logger) *KakaoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	size := cfg.Size
	if size <= 0 || size > 15 {
		size = defaultSize
	}
	var c *cache.Cache
	if cfg.CacheTTL > 0 {
		c = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &KakaoClient{
		logger: logger,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		size:    size,
		cache:   c,
	}
}

func (k *KakaoClient) Search(ctx context.Context, location, keyword string) types.SearchOutcome {
	query := strings.TrimSpace(strings.TrimSpace(location) + " " + strings.TrimSpace(keyword))
	ctx, span := otel.Tracer("RestaurantSearch").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.query", query),
	))
	defer span.End()

	l := k.logger.With(slog.String("method", "Search"), slog.String("query", query))
	start := time.Now()

	cacheKey := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if k.cache != nil {
		if cached, found := k.cache.Get(cacheKey); found {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			span.SetStatus(codes.Ok, "Served from cache")
			return cached.(types.SearchOutcome)
		}
	}

	outcome := k.fetch(ctx, query)
	metrics.Get().SearchDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("status", string(outcome.Status))))

	switch outcome.Status {
	case types.SearchError:
		l.WarnContext(ctx, "Restaurant search failed", slog.String("error", outcome.Err))
		span.SetStatus(codes.Error, outcome.Err)
		return outcome
	case types.SearchNotFound:
		l.InfoContext(ctx, "No places found")
	default:
		l.InfoContext(ctx, "Places found", slog.Int("count", len(outcome.Places)))
	}

	if k.cache != nil {
		k.cache.Set(cacheKey, outcome, cache.DefaultExpiration)
	}
	span.SetAttributes(attribute.Int("search.results", len(outcome.Places)))
	span.SetStatus(codes.Ok, string(outcome.Status))
	return outcome
}

func (k *KakaoClient) fetch(ctx context.Context, query string) types.SearchOutcome {
	if k.apiKey == "" {
		return errorOutcome("KAKAO_API_KEY Missing")
	}
	if query == "" {
		return errorOutcome("empty search query")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("size", strconv.Itoa(k.size))
	params.Set("sort", "accuracy")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return errorOutcome(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Authorization", "KakaoAK "+k.apiKey)

	resp, err := k.client.Do(req)
	if err != nil {
		return errorOutcome(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return errorOutcome(fmt.Sprintf("API Error %d", resp.StatusCode))
	}

	var body kakaoResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return errorOutcome(fmt.Sprintf("failed to decode response: %v", err))
	}

	if len(body.Documents) == 0 {
		return types.SearchOutcome{Status: types.SearchNotFound}
	}

	places := make([]types.Place, 0, len(body.Documents))
	for _, doc := range body.Documents {
		address := doc.RoadAddressName
		if address == "" {
			address = doc.AddressName
		}
		places = append(places, types.Place{
			Name:     doc.PlaceName,
			Address:  address,
			URL:      doc.PlaceURL,
			Category: doc.CategoryName,
		})
		if len(places) == k.size {
			break
		}
	}
	return types.SearchOutcome{Status: types.SearchFound, Places: places}
}

func errorOutcome(msg string) types.SearchOutcome {
	return types.SearchOutcome{Status: types.SearchError, Err: msg}
}
