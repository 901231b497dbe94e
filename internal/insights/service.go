package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adscope/adscope-backend/internal/insights/engine"
	"github.com/adscope/adscope-backend/internal/insights/query"
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/config"
	"github.com/adscope/adscope-backend/pkg/enums"
	pkgerrors "github.com/adscope/adscope-backend/pkg/errors"
	"github.com/adscope/adscope-backend/pkg/logger"
	"github.com/adscope/adscope-backend/pkg/redis"
)

type service struct {
	repo     Repository
	averages query.AveragesService
	cache    redis.CacheStore
	logg     *logger.Logger
	cfg      config.InsightsConfig
}

// NewService builds the insights service. The averages service and cache are
// optional: without a warehouse connection the population means are derived
// locally from the validated ad set, and without a cache every call
// recomputes them.
func NewService(repo Repository, averages query.AveragesService, cache redis.CacheStore, logg *logger.Logger, cfg config.InsightsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		averages: averages,
		cache:    cache,
		logg:     logg,
		cfg:      cfg,
	}, nil
}

// loadWindow reads the account's day rows for the range, rolls them up to one
// row per ad, and hangs the leadscore sequences on the result.
func (s *service) loadWindow(ctx context.Context, accountID, from, to string) ([]types.AdRow, error) {
	dayModels, err := s.repo.ListDailyMetrics(ctx, accountID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing daily metrics")
	}
	ads := engine.AggregateByAd(dayRowsFromModels(dayModels))

	scores, err := s.repo.ListLeadscores(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing leadscores")
	}
	return attachLeadscores(ads, scores), nil
}

// leadscoreMin resolves the MQL threshold: an explicit request value wins,
// including an explicit 0, otherwise the deployment default applies.
func (s *service) leadscoreMin(requested *float64) float64 {
	if requested != nil {
		return *requested
	}
	return s.cfg.MQLLeadscoreMin
}

func (s *service) Rankings(ctx context.Context, req types.RankingsRequest) (*types.RankingsResponse, error) {
	if err := validateWindow(req.AccountID, req.From, req.To); err != nil {
		return nil, err
	}
	if req.ActionType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action type required")
	}
	for _, criterion := range req.Criteria {
		if !criterion.Metric.IsValid() || !criterion.Operator.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid validation criterion")
		}
	}

	ads, err := s.loadWindow(ctx, req.AccountID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	opts := engine.ComputeOptions{
		ActionType:      req.ActionType,
		MQLLeadscoreMin: s.leadscoreMin(req.MQLLeadscoreMin),
	}
	validated := engine.FilterValidated(ads, req.Criteria, opts)
	ranks := engine.ComputeRanks(validated, engine.RankOptions{
		Compute:         opts,
		FilterValidOnly: req.FilterValidOnly,
	})

	return &types.RankingsResponse{Ranks: ranks, Population: len(validated)}, nil
}

func (s *service) Gems(ctx context.Context, req types.GemsRequest) (*types.GemsResponse, error) {
	if err := validateWindow(req.AccountID, req.From, req.To); err != nil {
		return nil, err
	}
	if _, err := enums.ParseTopMetricKey(string(req.Metric)); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported highlight metric")
	}
	if req.ActionType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action type required")
	}

	ads, err := s.loadWindow(ctx, req.AccountID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	entries := engine.TopByMetric(ads, req.Metric, req.Limit, engine.ComputeOptions{
		ActionType:      req.ActionType,
		MQLLeadscoreMin: s.leadscoreMin(req.MQLLeadscoreMin),
	})

	return &types.GemsResponse{Metric: req.Metric, Entries: entries}, nil
}

func (s *service) Opportunities(ctx context.Context, req types.OpportunitiesRequest) (*types.OpportunitiesResponse, error) {
	if err := validateWindow(req.AccountID, req.From, req.To); err != nil {
		return nil, err
	}
	if req.ActionType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action type required")
	}

	ads, err := s.loadWindow(ctx, req.AccountID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	opts := engine.ComputeOptions{ActionType: req.ActionType}
	averages := s.averagesFor(ctx, req.AccountID, req.From, req.To, req.ActionType, ads, opts)

	spendTotal := req.SpendTotal
	if spendTotal <= 0 {
		for _, ad := range ads {
			spendTotal += ad.Spend
		}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	rows := engine.ScoreOpportunities(ads, engine.OpportunityOptions{
		Compute:    opts,
		Averages:   averages,
		SpendTotal: spendTotal,
		Limit:      limit,
	})
	return &types.OpportunitiesResponse{Rows: rows, SpendTotal: spendTotal}, nil
}

func (s *service) GoldBuckets(ctx context.Context, req types.GoldBucketsRequest) (*types.GoldBucketsResponse, error) {
	if err := validateWindow(req.AccountID, req.From, req.To); err != nil {
		return nil, err
	}
	if req.ActionType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action type required")
	}

	ads, err := s.loadWindow(ctx, req.AccountID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	opts := engine.ComputeOptions{ActionType: req.ActionType}
	averages := s.averagesFor(ctx, req.AccountID, req.From, req.To, req.ActionType, ads, opts)

	return &types.GoldBucketsResponse{
		Assignments: engine.ClassifyGoldAll(ads, averages, opts),
		Averages:    averages,
	}, nil
}

func (s *service) DailySeries(ctx context.Context, req types.DailySeriesRequest) (*types.DailySeries, error) {
	if req.AccountID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	if !req.GroupBy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid group key")
	}
	if req.ActionType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action type required")
	}
	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = s.cfg.DefaultWindowDays
	}
	start, err := engine.WindowStart(req.EndDate, windowDays)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid series window")
	}

	dayModels, err := s.repo.ListDailyMetrics(ctx, req.AccountID, start, req.EndDate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing daily metrics")
	}
	series, err := engine.BuildDailySeries(dayRowsFromModels(dayModels), engine.SeriesOptions{
		Compute:    engine.ComputeOptions{ActionType: req.ActionType},
		GroupKey:   req.GroupBy,
		EndDate:    req.EndDate,
		WindowDays: windowDays,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "building daily series")
	}
	return &series, nil
}

func (s *service) MQLSummary(ctx context.Context, req types.MQLRequest) (*types.MQLResponse, error) {
	if err := validateWindow(req.AccountID, req.From, req.To); err != nil {
		return nil, err
	}

	ads, err := s.loadWindow(ctx, req.AccountID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	min := s.leadscoreMin(req.MQLLeadscoreMin)

	if req.AdID != "" {
		for _, ad := range ads {
			if ad.AdID == req.AdID {
				summary := engine.SummarizeMQL(ad, min)
				return &types.MQLResponse{Summary: summary}, nil
			}
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad not found in range")
	}

	// Account-wide: pool every ad's leads against the total spend.
	var pooled types.AdRow
	for _, ad := range ads {
		pooled.Spend += ad.Spend
		pooled.LeadscoreValues = append(pooled.LeadscoreValues, ad.LeadscoreValues...)
	}
	summary := engine.SummarizeMQL(pooled, min)
	return &types.MQLResponse{Summary: summary}, nil
}

// averagesFor resolves the population means for a window: cached warehouse
// means when available, otherwise means derived from the loaded ads. Failures
// here degrade to the local derivation rather than failing the request.
func (s *service) averagesFor(ctx context.Context, accountID, from, to, actionType string, ads []types.AdRow, opts engine.ComputeOptions) types.Averages {
	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.cache.CacheKey("averages", fmt.Sprintf("%s:%s:%s:%s", accountID, from, to, actionType))
		if cached, err := s.cache.GetCached(ctx, cacheKey); err == nil {
			var averages types.Averages
			if err := json.Unmarshal([]byte(cached), &averages); err == nil {
				return averages
			}
		}
	}

	if s.averages != nil {
		warehouse, err := s.averages.AccountAverages(ctx, types.AveragesRequest{
			AccountID:         accountID,
			Start:             from,
			End:               to,
			DefaultActionType: actionType,
		})
		if err == nil {
			s.storeAverages(ctx, cacheKey, *warehouse)
			return *warehouse
		}
		s.logg.Warn(ctx, fmt.Sprintf("warehouse averages unavailable, deriving locally: %v", err))
	}

	derived := engine.DeriveAverages(ads, opts)
	s.storeAverages(ctx, cacheKey, derived)
	return derived
}

func (s *service) storeAverages(ctx context.Context, cacheKey string, averages types.Averages) {
	if s.cache == nil || cacheKey == "" {
		return
	}
	raw, err := json.Marshal(averages)
	if err != nil {
		return
	}
	if err := s.cache.SetCached(ctx, cacheKey, string(raw), s.cfg.AveragesCacheTTL); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("caching averages failed: %v", err))
	}
}

func validateWindow(accountID, from, to string) error {
	if accountID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	if from == "" || to == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "from and to are required")
	}
	if to < from {
		return pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from")
	}
	return nil
}
