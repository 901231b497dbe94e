package insights

import (
	"context"

	"gorm.io/gorm"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/db/models"
)

// Repository defines persistence operations for the ad metrics tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Transaction(ctx context.Context, fn func(Repository) error) error
	UpsertDailyMetrics(ctx context.Context, rows []models.AdMetricDaily) error
	ReplaceLeadscores(ctx context.Context, accountID, adID string, scores []float64) error
	ListDailyMetrics(ctx context.Context, accountID, from, to string) ([]models.AdMetricDaily, error)
	ListLeadscores(ctx context.Context, accountID string) ([]models.AdLeadscore, error)
}

// Service exposes the derived-metrics operations behind the insights API.
type Service interface {
	Rankings(ctx context.Context, req types.RankingsRequest) (*types.RankingsResponse, error)
	Gems(ctx context.Context, req types.GemsRequest) (*types.GemsResponse, error)
	Opportunities(ctx context.Context, req types.OpportunitiesRequest) (*types.OpportunitiesResponse, error)
	GoldBuckets(ctx context.Context, req types.GoldBucketsRequest) (*types.GoldBucketsResponse, error)
	DailySeries(ctx context.Context, req types.DailySeriesRequest) (*types.DailySeries, error)
	MQLSummary(ctx context.Context, req types.MQLRequest) (*types.MQLResponse, error)
}
