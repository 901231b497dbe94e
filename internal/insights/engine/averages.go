package engine

import (
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// DeriveAverages computes population means over a validated ad set, as a
// local fallback when the warehouse has no precomputed averages for the
// account. Only positive values contribute: an ad with no signal on a metric
// should not drag the reference mean toward zero.
func DeriveAverages(ads []types.AdRow, opts ComputeOptions) types.Averages {
	var avg types.Averages
	avg.Hook = meanOf(ads, enums.MetricHook, opts)
	avg.HoldRate = meanOf(ads, enums.MetricHoldRate, opts)
	avg.CTR = meanOf(ads, enums.MetricCTR, opts)
	avg.WebsiteCTR = meanOf(ads, enums.MetricWebsiteCTR, opts)
	avg.ConnectRate = meanOf(ads, enums.MetricConnectRate, opts)
	avg.PageConv = meanOf(ads, enums.MetricPageConv, opts)
	avg.CPR = meanOf(ads, enums.MetricCPR, opts)
	avg.CPM = meanCPM(ads)
	return avg
}

func meanOf(ads []types.AdRow, key enums.MetricKey, opts ComputeOptions) *float64 {
	var sum float64
	var n int
	for _, ad := range ads {
		value, ok := Compute(key, ad, opts)
		if !ok || !rankable(value) {
			continue
		}
		sum += value
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func meanCPM(ads []types.AdRow) *float64 {
	var sum float64
	var n int
	for _, ad := range ads {
		value, ok := computeCPM(ad)
		if !ok || !rankable(value) {
			continue
		}
		sum += value
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}
