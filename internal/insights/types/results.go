package types

import "github.com/adscope/adscope-backend/pkg/enums"

// Criterion is one validation condition evaluated against an ad's derived
// metrics. Conditions combine with AND semantics.
type Criterion struct {
	Metric   enums.MetricKey        `json:"metric"`
	Operator enums.CriteriaOperator `json:"operator"`
	Value    float64                `json:"value"`
}

// RankSet maps ad_id to its 1-based rank for one metric. An ad absent from
// the map holds no rank in that metric.
type RankSet map[string]int

// MetricRanks holds one independent rank set per tracked metric.
type MetricRanks map[enums.MetricKey]RankSet

// TopMetricEntry is one row of a top-N highlight card.
type TopMetricEntry struct {
	AdID      string  `json:"ad_id"`
	AdName    string  `json:"ad_name"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// OpportunityRow models the one-step counterfactual for a single ad: what its
// CPR would be if each below-average funnel step were raised to the
// population mean.
type OpportunityRow struct {
	AdID   string  `json:"ad_id"`
	AdName string  `json:"ad_name"`
	Spend  float64 `json:"spend"`

	CPRActual    float64 `json:"cpr_actual"`
	CPRPotential float64 `json:"cpr_potential"`

	ImprovementPct float64 `json:"improvement_pct"`
	ImpactRelative float64 `json:"impact_relative"`

	SavingsAbs       float64 `json:"savings_abs"`
	ExtraConversions float64 `json:"extra_conversions"`

	// Single-factor potentials: CPR after improving exactly one funnel step.
	PotentialWebsiteCTROnly  float64 `json:"potential_website_ctr_only"`
	PotentialConnectRateOnly float64 `json:"potential_connect_rate_only"`
	PotentialPageConvOnly    float64 `json:"potential_page_conv_only"`

	BelowWebsiteCTR  bool `json:"below_website_ctr"`
	BelowConnectRate bool `json:"below_connect_rate"`
	BelowPageConv    bool `json:"below_page_conv"`
}

// GoldBucketAssignment attaches a bucket label to an ad for one averages context.
type GoldBucketAssignment struct {
	AdID   string           `json:"ad_id"`
	AdName string           `json:"ad_name"`
	Bucket enums.GoldBucket `json:"bucket"`
}

// GroupSeries carries the per-day derived metric sequences for one group.
// Entries are nil on days with no contributing data, distinguishing "no data"
// from a true zero rate.
type GroupSeries struct {
	Key         string     `json:"key"`
	Hook        []*float64 `json:"hook"`
	CPR         []*float64 `json:"cpr"`
	CTR         []*float64 `json:"ctr"`
	ConnectRate []*float64 `json:"connect_rate"`
	PageConv    []*float64 `json:"page_conv"`
	CPM         []*float64 `json:"cpm"`
}

// DailySeries is the fixed date axis plus one series per group key.
type DailySeries struct {
	Axis   []string               `json:"axis"`
	Groups map[string]GroupSeries `json:"groups"`
}

// MQLSummary aggregates a leadscore population against a threshold.
type MQLSummary struct {
	LeadscoreAvg float64 `json:"leadscore_avg"`
	LeadCount    int     `json:"lead_count"`
	MQLCount     int     `json:"mql_count"`
	CPMQL        float64 `json:"cpmql"`
}
