package types

import "github.com/adscope/adscope-backend/pkg/enums"

// RankingsRequest carries the inputs of a full rank recomputation. Ranks are
// always rebuilt from scratch for the requested tuple; nothing is cached
// across differing inputs.
type RankingsRequest struct {
	AccountID       string      `validate:"required"`
	From            string      `validate:"required,datetime=2006-01-02"`
	To              string      `validate:"required,datetime=2006-01-02"`
	ActionType      string      `validate:"required"`
	FilterValidOnly bool
	// MQLLeadscoreMin overrides the deployment threshold when set; nil keeps
	// the configured default, so an explicit 0 still selects threshold 0.
	MQLLeadscoreMin *float64
	Criteria        []Criterion
}

// RankingsResponse wraps the per-metric rank maps.
type RankingsResponse struct {
	Ranks      MetricRanks `json:"ranks"`
	Population int         `json:"population"`
}

// GemsRequest selects the top-N ads for one metric.
type GemsRequest struct {
	AccountID       string          `validate:"required"`
	From            string          `validate:"required,datetime=2006-01-02"`
	To              string          `validate:"required,datetime=2006-01-02"`
	Metric          enums.MetricKey `validate:"required"`
	ActionType      string          `validate:"required"`
	Limit           int             `validate:"gte=0"`
	MQLLeadscoreMin *float64
}

// GemsResponse wraps the ordered top-N entries.
type GemsResponse struct {
	Metric  enums.MetricKey  `json:"metric"`
	Entries []TopMetricEntry `json:"entries"`
}

// OpportunitiesRequest scores the CPR improvement available per ad.
type OpportunitiesRequest struct {
	AccountID  string `validate:"required"`
	From       string `validate:"required,datetime=2006-01-02"`
	To         string `validate:"required,datetime=2006-01-02"`
	ActionType string `validate:"required"`
	// SpendTotal fixes the impact baseline; when 0 it is summed from the rows.
	SpendTotal float64 `validate:"gte=0"`
	Limit      int     `validate:"gte=0"`
}

// OpportunitiesResponse wraps the scored rows ordered by relative impact.
type OpportunitiesResponse struct {
	Rows       []OpportunityRow `json:"rows"`
	SpendTotal float64          `json:"spend_total"`
}

// GoldBucketsRequest classifies every ad in the range.
type GoldBucketsRequest struct {
	AccountID  string `validate:"required"`
	From       string `validate:"required,datetime=2006-01-02"`
	To         string `validate:"required,datetime=2006-01-02"`
	ActionType string `validate:"required"`
}

// GoldBucketsResponse wraps the bucket assignments plus the averages context
// they were computed against.
type GoldBucketsResponse struct {
	Assignments []GoldBucketAssignment `json:"assignments"`
	Averages    Averages               `json:"averages"`
}

// DailySeriesRequest builds the trailing-window time series.
type DailySeriesRequest struct {
	AccountID  string               `validate:"required"`
	GroupBy    enums.SeriesGroupKey `validate:"required"`
	ActionType string               `validate:"required"`
	EndDate    string               `validate:"required,datetime=2006-01-02"`
	WindowDays int                  `validate:"omitempty,gte=1,lte=90"`
}

// MQLRequest aggregates lead quality for one ad or a whole account range.
type MQLRequest struct {
	AccountID       string `validate:"required"`
	From            string `validate:"required,datetime=2006-01-02"`
	To              string `validate:"required,datetime=2006-01-02"`
	AdID            string
	MQLLeadscoreMin *float64
}

// MQLResponse wraps the aggregate.
type MQLResponse struct {
	Summary MQLSummary `json:"summary"`
}

// AveragesRequest asks the warehouse for population means over a window.
// Dates are "YYYY-MM-DD" strings matching the partition column.
type AveragesRequest struct {
	AccountID string `validate:"required"`
	Start     string `validate:"required,datetime=2006-01-02"`
	End       string `validate:"required,datetime=2006-01-02"`
	// DefaultActionType selects which per-action split backfills the global
	// cpr/page_conv means. Optional.
	DefaultActionType string
}
