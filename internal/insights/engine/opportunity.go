package engine

import (
	"math"
	"sort"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// OpportunityOptions parameterizes a scoring pass.
type OpportunityOptions struct {
	Compute ComputeOptions

	Averages types.Averages

	// SpendTotal is the fixed baseline for relative impact. When zero it is
	// summed from the input ads.
	SpendTotal float64

	Limit int
}

// funnel holds the three multiplicative steps between an impression and a
// conversion, plus the CPM that prices the impressions.
type funnel struct {
	cpm         float64
	websiteCTR  float64
	connectRate float64
	pageConv    float64
}

// cpr prices one conversion through the funnel: CPM buys a thousand
// impressions, and each step thins them out.
func (f funnel) cpr() float64 {
	den := 1000 * f.websiteCTR * f.connectRate * f.pageConv
	if den <= 0 {
		return math.Inf(1)
	}
	return f.cpm / den
}

// ScoreOpportunities builds the one-step counterfactual for every ad with at
// least one below-average funnel step: what would CPR be if the weak steps
// were merely average. This is a closed-form what-if, not a search for a
// true optimum. Results come back sorted by relative impact, best first,
// truncated to the limit.
func ScoreOpportunities(ads []types.AdRow, opts OpportunityOptions) []types.OpportunityRow {
	avgWebsiteCTR := opts.Averages.WebsiteCTR
	avgConnectRate := opts.Averages.ConnectRate
	avgPageConv := opts.Averages.PageConvFor(opts.Compute.ActionType)

	totalSpend := opts.SpendTotal
	if totalSpend <= 0 {
		for _, ad := range ads {
			totalSpend += ad.Spend
		}
	}

	rows := make([]types.OpportunityRow, 0, len(ads))
	for _, ad := range ads {
		actual := actualFunnel(ad, opts.Compute)

		row := types.OpportunityRow{
			AdID:   ad.AdID,
			AdName: ad.AdName,
			Spend:  ad.Spend,
		}
		row.BelowWebsiteCTR = below(actual.websiteCTR, avgWebsiteCTR)
		row.BelowConnectRate = below(actual.connectRate, avgConnectRate)
		row.BelowPageConv = below(actual.pageConv, avgPageConv)
		if !row.BelowWebsiteCTR && !row.BelowConnectRate && !row.BelowPageConv {
			continue
		}

		potential := actual
		potential.websiteCTR = clampUp(actual.websiteCTR, avgWebsiteCTR)
		potential.connectRate = clampUp(actual.connectRate, avgConnectRate)
		potential.pageConv = clampUp(actual.pageConv, avgPageConv)

		row.CPRActual = actual.cpr()
		row.CPRPotential = potential.cpr()
		if !finite(row.CPRActual) || !finite(row.CPRPotential) {
			continue
		}

		row.ImprovementPct = 1 - row.CPRPotential/row.CPRActual
		if totalSpend > 0 {
			row.ImpactRelative = row.ImprovementPct * (ad.Spend / totalSpend)
		}
		if row.CPRActual > 0 {
			row.SavingsAbs = (row.CPRActual - row.CPRPotential) * (ad.Spend / row.CPRActual)
		}
		if row.CPRPotential > 0 && row.CPRActual > 0 {
			row.ExtraConversions = ad.Spend/row.CPRPotential - ad.Spend/row.CPRActual
		}

		row.PotentialWebsiteCTROnly = singleFactor(actual, enums.MetricWebsiteCTR, avgWebsiteCTR)
		row.PotentialConnectRateOnly = singleFactor(actual, enums.MetricConnectRate, avgConnectRate)
		row.PotentialPageConvOnly = singleFactor(actual, enums.MetricPageConv, avgPageConv)

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ImpactRelative != rows[j].ImpactRelative {
			return rows[i].ImpactRelative > rows[j].ImpactRelative
		}
		return rows[i].AdID < rows[j].AdID
	})
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return rows
}

func actualFunnel(ad types.AdRow, opts ComputeOptions) funnel {
	cpm, _ := computeCPM(ad)
	websiteCTR, _ := computeWebsiteCTR(ad, opts)
	connectRate, _ := computeConnectRate(ad, opts)
	pageConv, _ := computePageConv(ad, opts)
	return funnel{
		cpm:         cpm,
		websiteCTR:  websiteCTR,
		connectRate: connectRate,
		pageConv:    pageConv,
	}
}

// singleFactor recomputes CPR after raising exactly one funnel step to its
// population mean, for the UI breakdown of where the opportunity sits.
func singleFactor(actual funnel, key enums.MetricKey, avg *float64) float64 {
	f := actual
	switch key {
	case enums.MetricWebsiteCTR:
		f.websiteCTR = clampUp(actual.websiteCTR, avg)
	case enums.MetricConnectRate:
		f.connectRate = clampUp(actual.connectRate, avg)
	case enums.MetricPageConv:
		f.pageConv = clampUp(actual.pageConv, avg)
	}
	return f.cpr()
}

// clampUp raises a funnel step to at least the population mean. It never
// lowers an above-average step.
func clampUp(actual float64, avg *float64) float64 {
	if !types.Positive(avg) {
		return actual
	}
	return math.Max(actual, *avg)
}

func below(actual float64, avg *float64) bool {
	return types.Positive(avg) && actual < *avg
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
