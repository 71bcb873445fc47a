package foodLog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

func setupFoodLogRepoTest(t *testing.T) (*PostgresFoodLogRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresFoodLogRepo(mockPool, logger), mockPool
}

func TestPostgresFoodLogRepo_CreateFoodLog(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("inserts the analysis with the text fallback", func(t *testing.T) {
		repo, mockPool := setupFoodLogRepoTest(t)
		logID := uuid.New()
		createdAt := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
		analysis := types.NutritionAnalysis{BloodSugarImpact: "높음", CarbsRatio: 70, ProteinRatio: 10, FatRatio: 20}

		mockPool.ExpectQuery("INSERT INTO food_logs").
			WithArgs(ownerID, "text", "떡볶이 1인분", "높음", 70, 10, 20, "", "", "", "", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(logID.String(), createdAt))

		entry, err := repo.CreateFoodLog(ctx, ownerID, types.CreateFoodLogParams{
			InputType: types.InputTypeText,
			Analysis:  analysis,
			Text:      "떡볶이 1인분",
		})
		require.NoError(t, err)
		assert.Equal(t, logID, entry.ID)
		assert.Equal(t, ownerID, entry.OwnerID)
		assert.Equal(t, "떡볶이 1인분", entry.FoodDescription)
		assert.Equal(t, createdAt, entry.CreatedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mockPool := setupFoodLogRepoTest(t)
		mockPool.ExpectQuery("INSERT INTO food_logs").WillReturnError(errors.New("connection reset"))

		_, err := repo.CreateFoodLog(ctx, ownerID, types.CreateFoodLogParams{InputType: types.InputTypeText})
		assert.Error(t, err)
	})
}

func TestPostgresFoodLogRepo_ListFoodLogs(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	columns := []string{"id", "created_at", "input_type", "food_description", "blood_sugar_impact",
		"carbs_ratio", "protein_ratio", "fat_ratio", "summary",
		"action_guide", "detailed_action_guide", "alternatives", "image_key"}

	t.Run("owner scoped and newest first", func(t *testing.T) {
		repo, mockPool := setupFoodLogRepoTest(t)
		newer, older := uuid.New(), uuid.New()
		key := "food-images/a.jpg"
		mockPool.ExpectQuery("SELECT id, created_at, input_type").
			WithArgs(ownerID, 10).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(newer.String(), time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), "image", "샐러드", "낮음",
					30, 30, 40, "좋아요", "", "", "", &key).
				AddRow(older.String(), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "text", "비빔밥", "중간",
					60, 20, 20, "", "", "", "", (*string)(nil)))

		entries, err := repo.ListFoodLogs(ctx, ownerID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, newer, entries[0].ID)
		assert.Equal(t, types.InputTypeImage, entries[0].InputType)
		require.NotNil(t, entries[0].ImageKey)
		assert.Equal(t, key, *entries[0].ImageKey)
		assert.Nil(t, entries[1].ImageKey)
		assert.Equal(t, ownerID, entries[1].OwnerID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		repo, mockPool := setupFoodLogRepoTest(t)
		mockPool.ExpectQuery("SELECT id, created_at, input_type").
			WithArgs(ownerID, 10).
			WillReturnRows(pgxmock.NewRows(columns))

		entries, err := repo.ListFoodLogs(ctx, ownerID, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := setupFoodLogRepoTest(t)
		mockPool.ExpectQuery("SELECT id, created_at, input_type").WillReturnError(errors.New("boom"))

		_, err := repo.ListFoodLogs(ctx, ownerID, 10)
		assert.Error(t, err)
	})
}
