package foodLog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-diet-assistant/app/events"
	"github.com/FACorreiaa/go-diet-assistant/app/storage"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

type MockFoodLogRepo struct {
	mock.Mock
}

func (m *MockFoodLogRepo) CreateFoodLog(ctx context.Context, ownerID uuid.UUID, params types.CreateFoodLogParams) (*types.FoodLogEntry, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FoodLogEntry), args.Error(1)
}

func (m *MockFoodLogRepo) ListFoodLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.FoodLogEntry, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FoodLogEntry), args.Error(1)
}

type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, in types.AnalysisInput) types.NutritionAnalysis {
	return m.Called(ctx, in).Get(0).(types.NutritionAnalysis)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) PutFoodImage(ctx context.Context, ownerID uuid.UUID, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, ownerID, contentType, data)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishFoodLogged(ctx context.Context, event events.FoodLoggedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type serviceMocks struct {
	repo      *MockFoodLogRepo
	profiles  *MockProfileReader
	analyzer  *MockAnalyzer
	images    *MockImageStore
	publisher *MockPublisher
}

func setupFoodLogServiceTest(withImages bool) (*FoodLogServiceImpl, *serviceMocks) {
	m := &serviceMocks{
		repo:      new(MockFoodLogRepo),
		profiles:  new(MockProfileReader),
		analyzer:  new(MockAnalyzer),
		images:    new(MockImageStore),
		publisher: new(MockPublisher),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	seoul, _ := time.LoadLocation("Asia/Seoul")

	var images storage.ImageStore
	if withImages {
		images = m.images
	}
	return NewFoodLogService(m.repo, m.profiles, m.analyzer, images, m.publisher, 10, seoul, logger), m
}

func TestFoodLogServiceImpl_AnalyzeMeal(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	diabetes := types.DiabetesType2
	profile := &types.UserProfile{ID: userID, DiabetesType: &diabetes}

	t.Run("text meal is analysed with profile and logged", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)
		analysis := types.NutritionAnalysis{FoodName: "김치찌개", BloodSugarImpact: "중간", CarbsRatio: 50}
		entry := &types.FoodLogEntry{ID: uuid.New(), OwnerID: userID, FoodDescription: "김치찌개"}

		m.profiles.On("GetProfile", mock.Anything, userID).Return(profile, nil).Once()
		m.analyzer.On("Analyze", mock.Anything, types.AnalysisInput{Text: "김치찌개 한 그릇", Profile: profile}).
			Return(analysis).Once()
		m.repo.On("CreateFoodLog", mock.Anything, userID, types.CreateFoodLogParams{
			InputType: types.InputTypeText,
			Analysis:  analysis,
			Text:      "김치찌개 한 그릇",
		}).Return(entry, nil).Once()
		m.publisher.On("PublishFoodLogged", mock.Anything, mock.MatchedBy(func(e events.FoodLoggedEvent) bool {
			return e.LogID == entry.ID
		})).Return(nil).Once()

		got, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Text: "김치찌개 한 그릇"})
		require.NoError(t, err)
		assert.Equal(t, analysis, got)
		m.profiles.AssertExpectations(t)
		m.analyzer.AssertExpectations(t)
		m.repo.AssertExpectations(t)
		m.publisher.AssertExpectations(t)
	})

	t.Run("sentinel analysis is still logged", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)
		m.profiles.On("GetProfile", mock.Anything, userID).Return(profile, nil).Once()
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(types.FailedAnalysis()).Once()
		m.repo.On("CreateFoodLog", mock.Anything, userID, mock.MatchedBy(func(p types.CreateFoodLogParams) bool {
			return p.Analysis.Failed() && p.FoodDescription() == types.AnalysisFailedFoodName
		})).Return(&types.FoodLogEntry{ID: uuid.New()}, nil).Once()
		m.publisher.On("PublishFoodLogged", mock.Anything, mock.Anything).Return(nil).Once()

		got, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Text: "???"})
		require.NoError(t, err)
		assert.True(t, got.Failed())
		m.repo.AssertExpectations(t)
	})

	t.Run("image is archived and its key stored", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(true)
		image := &types.ImageUpload{MIMEType: "image/png", Data: []byte("png-bytes")}
		analysis := types.NutritionAnalysis{FoodName: "샐러드", Summary: "좋아요"}

		m.profiles.On("GetProfile", mock.Anything, userID).Return(profile, nil).Once()
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analysis).Once()
		m.images.On("PutFoodImage", mock.Anything, userID, "image/png", image.Data).Return("food-images/k.png", nil).Once()
		m.repo.On("CreateFoodLog", mock.Anything, userID, mock.MatchedBy(func(p types.CreateFoodLogParams) bool {
			return p.InputType == types.InputTypeImage && p.ImageKey != nil && *p.ImageKey == "food-images/k.png"
		})).Return(&types.FoodLogEntry{ID: uuid.New()}, nil).Once()
		m.publisher.On("PublishFoodLogged", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Image: image})
		require.NoError(t, err)
		m.images.AssertExpectations(t)
		m.repo.AssertExpectations(t)
	})

	t.Run("archive failure does not block the log", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(true)
		image := &types.ImageUpload{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}

		m.profiles.On("GetProfile", mock.Anything, userID).Return(profile, nil).Once()
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(types.NutritionAnalysis{FoodName: "떡볶이"}).Once()
		m.images.On("PutFoodImage", mock.Anything, userID, "image/jpeg", image.Data).Return("", errors.New("access denied")).Once()
		m.repo.On("CreateFoodLog", mock.Anything, userID, mock.MatchedBy(func(p types.CreateFoodLogParams) bool {
			return p.InputType == types.InputTypeImage && p.ImageKey == nil
		})).Return(&types.FoodLogEntry{ID: uuid.New()}, nil).Once()
		m.publisher.On("PublishFoodLogged", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Image: image})
		require.NoError(t, err)
		m.repo.AssertExpectations(t)
	})

	t.Run("publish failure is not surfaced", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)
		m.profiles.On("GetProfile", mock.Anything, userID).Return(profile, nil).Once()
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(types.NutritionAnalysis{FoodName: "라면"}).Once()
		m.repo.On("CreateFoodLog", mock.Anything, userID, mock.Anything).Return(&types.FoodLogEntry{ID: uuid.New()}, nil).Once()
		m.publisher.On("PublishFoodLogged", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		_, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Text: "라면"})
		assert.NoError(t, err)
	})

	t.Run("empty input is rejected before any call", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)

		_, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Text: "  "})
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		m.profiles.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
		m.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	})

	t.Run("persist failure is returned and nothing is published", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)
		m.profiles.On("GetProfile", mock.Anything, userID).Return(profile, nil).Once()
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(types.NutritionAnalysis{FoodName: "라면"}).Once()
		m.repo.On("CreateFoodLog", mock.Anything, userID, mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Text: "라면"})
		assert.Error(t, err)
		m.publisher.AssertNotCalled(t, "PublishFoodLogged", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)
		m.profiles.On("GetProfile", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()

		_, err := service.AnalyzeMeal(ctx, userID, AnalyzeMealRequest{Text: "라면"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		m.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	})
}

func TestFoodLogServiceImpl_History(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("uses the configured limit and zone", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)
		stored := time.Date(2025, 3, 1, 13, 30, 0, 0, time.UTC)
		m.repo.On("ListFoodLogs", mock.Anything, userID, 10).
			Return([]types.FoodLogEntry{{ID: uuid.New(), CreatedAt: stored}}, nil).Once()

		entries, err := service.History(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Asia/Seoul", entries[0].CreatedAt.Location().String())
		assert.Equal(t, 22, entries[0].CreatedAt.Hour())
		assert.True(t, stored.Equal(entries[0].CreatedAt))
		m.repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		service, m := setupFoodLogServiceTest(false)
		m.repo.On("ListFoodLogs", mock.Anything, userID, 10).Return(nil, errors.New("db down")).Once()

		_, err := service.History(ctx, userID)
		assert.Error(t, err)
	})
}

func TestCreateFoodLogParams_FoodDescription(t *testing.T) {
	assert.Equal(t, "비빔밥", types.CreateFoodLogParams{Analysis: types.NutritionAnalysis{FoodName: "비빔밥"}, Text: "점심"}.FoodDescription())
	assert.Equal(t, "점심 도시락", types.CreateFoodLogParams{Text: " 점심 도시락 "}.FoodDescription())
	assert.Equal(t, types.UnknownFoodDescription, types.CreateFoodLogParams{}.FoodDescription())
}
