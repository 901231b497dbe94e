package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adscope/adscope-backend/pkg/db/models"
)

func setupInsightsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	dailyMetrics := `
CREATE TABLE IF NOT EXISTS ad_metrics_daily (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  account_id TEXT NOT NULL,
  ad_id TEXT NOT NULL,
  ad_name TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL,
  impressions INTEGER NOT NULL DEFAULT 0,
  clicks INTEGER NOT NULL DEFAULT 0,
  inline_link_clicks INTEGER NOT NULL DEFAULT 0,
  spend REAL NOT NULL DEFAULT 0,
  lpv INTEGER NOT NULL DEFAULT 0,
  plays INTEGER NOT NULL DEFAULT 0,
  hook REAL,
  hold_rate REAL,
  ctr REAL,
  website_ctr REAL,
  connect_rate REAL,
  cpm REAL,
  conversions TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (account_id, ad_id, date)
);`
	leadscores := `
CREATE TABLE IF NOT EXISTS ad_leadscores (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  account_id TEXT NOT NULL,
  ad_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  score REAL NOT NULL,
  created_at DATETIME,
  UNIQUE (account_id, ad_id, position)
);`
	require.NoError(t, db.Exec(dailyMetrics).Error)
	require.NoError(t, db.Exec(leadscores).Error)
	return db
}

func dailyMetric(accountID, adID, date string, impressions int64, spend float64) models.AdMetricDaily {
	return models.AdMetricDaily{
		AccountID:   accountID,
		AdID:        adID,
		AdName:      "ad " + adID,
		Date:        date,
		Impressions: impressions,
		Spend:       spend,
		Conversions: []byte(`{"lead": 2}`),
	}
}

func TestUpsertDailyMetricsInsertsAndUpdates(t *testing.T) {
	db := setupInsightsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDailyMetrics(ctx, []models.AdMetricDaily{
		dailyMetric("acct-1", "ad-1", "2024-01-15", 1000, 10),
	}))

	// Replaying the same day must update in place, not duplicate.
	replay := dailyMetric("acct-1", "ad-1", "2024-01-15", 2500, 25)
	replay.AdName = "renamed"
	require.NoError(t, repo.UpsertDailyMetrics(ctx, []models.AdMetricDaily{replay}))

	rows, err := repo.ListDailyMetrics(ctx, "acct-1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2500), rows[0].Impressions)
	assert.Equal(t, 25.0, rows[0].Spend)
	assert.Equal(t, "renamed", rows[0].AdName)
}

func TestListDailyMetricsFiltersAccountAndRange(t *testing.T) {
	db := setupInsightsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDailyMetrics(ctx, []models.AdMetricDaily{
		dailyMetric("acct-1", "ad-1", "2024-01-15", 100, 1),
		dailyMetric("acct-1", "ad-1", "2024-02-15", 200, 2),
		dailyMetric("acct-2", "ad-9", "2024-01-15", 300, 3),
	}))

	rows, err := repo.ListDailyMetrics(ctx, "acct-1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ad-1", rows[0].AdID)
	assert.Equal(t, "2024-01-15", rows[0].Date)
}

func TestReplaceLeadscores(t *testing.T) {
	db := setupInsightsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceLeadscores(ctx, "acct-1", "ad-1", []float64{5, 10, 15}))
	require.NoError(t, repo.ReplaceLeadscores(ctx, "acct-1", "ad-1", []float64{20, 30}))

	rows, err := repo.ListLeadscores(ctx, "acct-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, 20.0, rows[0].Score)
	assert.Equal(t, 30.0, rows[1].Score)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := setupInsightsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpsertDailyMetrics(ctx, []models.AdMetricDaily{
			dailyMetric("acct-1", "ad-1", "2024-01-15", 100, 1),
		}); err != nil {
			return err
		}
		if err := tx.ReplaceLeadscores(ctx, "acct-1", "ad-1", []float64{5, 10}); err != nil {
			return err
		}
		return errors.New("snapshot rejected")
	})
	require.EqualError(t, err, "snapshot rejected")

	rows, err := repo.ListDailyMetrics(ctx, "acct-1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Empty(t, rows)

	scores, err := repo.ListLeadscores(ctx, "acct-1")
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestTransactionCommits(t *testing.T) {
	db := setupInsightsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpsertDailyMetrics(ctx, []models.AdMetricDaily{
			dailyMetric("acct-1", "ad-1", "2024-01-15", 100, 1),
		}); err != nil {
			return err
		}
		return tx.ReplaceLeadscores(ctx, "acct-1", "ad-1", []float64{5, 10})
	})
	require.NoError(t, err)

	rows, err := repo.ListDailyMetrics(ctx, "acct-1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	scores, err := repo.ListLeadscores(ctx, "acct-1")
	require.NoError(t, err)
	require.Len(t, scores, 2)
}

func TestReplaceLeadscoresEmptyClears(t *testing.T) {
	db := setupInsightsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceLeadscores(ctx, "acct-1", "ad-1", []float64{5}))
	require.NoError(t, repo.ReplaceLeadscores(ctx, "acct-1", "ad-1", nil))

	rows, err := repo.ListLeadscores(ctx, "acct-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
