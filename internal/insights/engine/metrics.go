package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// ComputeOptions carries the per-request knobs the formulas need.
type ComputeOptions struct {
	// ActionType selects which conversion counter counts as a "result",
	// e.g. "offsite_conversion.fb_pixel_lead".
	ActionType string

	// MQLLeadscoreMin is the minimum leadscore for a lead to count as
	// marketing-qualified. Zero qualifies every lead.
	MQLLeadscoreMin float64
}

// Definition describes one derivable metric: how to compute it from an
// aggregated ad row and how to render it for the dashboard.
type Definition struct {
	Key enums.MetricKey

	// Compute returns the metric value for the ad. Rates are decimals in
	// [0,1]. ok is false when the metric is undefined for this ad (no
	// upstream value, no results), in which case the ad is excluded from
	// rankings on that metric. Zero denominators on rate metrics yield
	// (0, true); downstream filters drop non-positive values.
	Compute func(ad types.AdRow, opts ComputeOptions) (value float64, ok bool)

	// Format renders the value for display.
	Format func(value float64) string
}

var registry = map[enums.MetricKey]Definition{
	enums.MetricHook: {
		Key:     enums.MetricHook,
		Compute: computeHook,
		Format:  formatPercent,
	},
	enums.MetricHoldRate: {
		Key:     enums.MetricHoldRate,
		Compute: computeHoldRate,
		Format:  formatPercent,
	},
	enums.MetricCTR: {
		Key:     enums.MetricCTR,
		Compute: computeCTR,
		Format:  formatPercent,
	},
	enums.MetricWebsiteCTR: {
		Key:     enums.MetricWebsiteCTR,
		Compute: computeWebsiteCTR,
		Format:  formatPercent,
	},
	enums.MetricConnectRate: {
		Key:     enums.MetricConnectRate,
		Compute: computeConnectRate,
		Format:  formatPercent,
	},
	enums.MetricPageConv: {
		Key:     enums.MetricPageConv,
		Compute: computePageConv,
		Format:  formatPercent,
	},
	enums.MetricResults: {
		Key:     enums.MetricResults,
		Compute: computeResults,
		Format:  formatCount,
	},
	enums.MetricCPR: {
		Key:     enums.MetricCPR,
		Compute: computeCPR,
		Format:  formatCurrency,
	},
	enums.MetricCPMQL: {
		Key:     enums.MetricCPMQL,
		Compute: computeCPMQL,
		Format:  formatCurrency,
	},
}

// Lookup returns the definition for the given metric key.
func Lookup(key enums.MetricKey) (Definition, bool) {
	def, ok := registry[key]
	return def, ok
}

// Compute evaluates one metric for an ad via the registry.
func Compute(key enums.MetricKey, ad types.AdRow, opts ComputeOptions) (float64, bool) {
	def, ok := registry[key]
	if !ok {
		return 0, false
	}
	return def.Compute(ad, opts)
}

// FormatMetric renders a metric value, or the placeholder when the value is
// absent or non-positive.
func FormatMetric(key enums.MetricKey, value float64, ok bool) string {
	if !ok || !rankable(value) {
		return placeholder
	}
	def, found := registry[key]
	if !found {
		return placeholder
	}
	return def.Format(value)
}

const placeholder = "—"

// upstream returns a backend-supplied rate when it is present, finite and
// non-NaN. The backend computes these from raw video events we only see in
// aggregate, so it wins over local recomputation.
func upstream(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func computeHook(ad types.AdRow, _ ComputeOptions) (float64, bool) {
	return upstream(ad.Hook)
}

func computeHoldRate(ad types.AdRow, _ ComputeOptions) (float64, bool) {
	return upstream(ad.HoldRate)
}

func computeCTR(ad types.AdRow, _ ComputeOptions) (float64, bool) {
	if v, ok := upstream(ad.CTR); ok {
		return v, true
	}
	return rate(ad.Clicks, ad.Impressions), true
}

func computeWebsiteCTR(ad types.AdRow, _ ComputeOptions) (float64, bool) {
	if v, ok := upstream(ad.WebsiteCTR); ok {
		return v, true
	}
	return rate(ad.InlineLinkClicks, ad.Impressions), true
}

func computeConnectRate(ad types.AdRow, _ ComputeOptions) (float64, bool) {
	if v, ok := upstream(ad.ConnectRate); ok {
		return v, true
	}
	return rate(ad.LPV, ad.InlineLinkClicks), true
}

func computePageConv(ad types.AdRow, opts ComputeOptions) (float64, bool) {
	if ad.LPV <= 0 {
		return 0, true
	}
	return ad.ResultsFor(opts.ActionType) / float64(ad.LPV), true
}

func computeResults(ad types.AdRow, opts ComputeOptions) (float64, bool) {
	return ad.ResultsFor(opts.ActionType), true
}

func computeCPR(ad types.AdRow, opts ComputeOptions) (float64, bool) {
	results := ad.ResultsFor(opts.ActionType)
	if results <= 0 {
		return 0, false
	}
	return ad.Spend / results, true
}

func computeCPMQL(ad types.AdRow, opts ComputeOptions) (float64, bool) {
	summary := SummarizeMQL(ad, opts.MQLLeadscoreMin)
	if summary.MQLCount <= 0 || ad.Spend <= 0 {
		return 0, false
	}
	return ad.Spend / float64(summary.MQLCount), true
}

// CPM is not ranked but the opportunity scorer and time series need it.
func computeCPM(ad types.AdRow) (float64, bool) {
	if v, ok := upstream(ad.CPM); ok {
		return v, true
	}
	if ad.Impressions <= 0 {
		return 0, true
	}
	return ad.Spend * 1000 / float64(ad.Impressions), true
}

func rate(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// rankable reports whether a value may participate in ranking and display.
func rankable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value*100)
}

func formatCurrency(value float64) string {
	return "R$ " + decimal.NewFromFloat(value).StringFixed(2)
}

func formatCount(value float64) string {
	return decimal.NewFromFloat(value).String()
}
