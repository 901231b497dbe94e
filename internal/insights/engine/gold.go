package engine

import (
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// ClassifyGold assigns an ad to one of the five G.O.L.D. buckets against the
// population averages. The buckets are mutually exclusive and exhaustive:
// anything the rules cannot judge, including a missing average or an ad with
// no defined CPR, lands in neutros.
func ClassifyGold(ad types.AdRow, averages types.Averages, opts ComputeOptions) enums.GoldBucket {
	avgCPR := averages.CPRFor(opts.ActionType)
	if !types.Positive(avgCPR) {
		return enums.BucketNeutros
	}
	cpr, ok := computeCPR(ad, opts)
	if !ok || !rankable(cpr) {
		return enums.BucketNeutros
	}

	aboveAvg := 0
	for _, check := range []struct {
		key enums.MetricKey
		avg *float64
	}{
		{enums.MetricHook, averages.Hook},
		{enums.MetricWebsiteCTR, averages.WebsiteCTR},
		{enums.MetricPageConv, averages.PageConvFor(opts.ActionType)},
	} {
		if !types.Positive(check.avg) {
			return enums.BucketNeutros
		}
		value, ok := Compute(check.key, ad, opts)
		if ok && value > *check.avg {
			aboveAvg++
		}
	}

	switch {
	case cpr < *avgCPR && aboveAvg == 3:
		return enums.BucketGolds
	case cpr < *avgCPR && aboveAvg >= 1:
		return enums.BucketOportunidades
	case cpr > *avgCPR && aboveAvg >= 1:
		return enums.BucketLicoes
	case cpr > *avgCPR:
		return enums.BucketDescartes
	default:
		// CPR exactly at the mean carries no signal either way.
		return enums.BucketNeutros
	}
}

// ClassifyGoldAll classifies every ad, preserving input order.
func ClassifyGoldAll(ads []types.AdRow, averages types.Averages, opts ComputeOptions) []types.GoldBucketAssignment {
	out := make([]types.GoldBucketAssignment, 0, len(ads))
	for _, ad := range ads {
		out = append(out, types.GoldBucketAssignment{
			AdID:   ad.AdID,
			AdName: ad.AdName,
			Bucket: ClassifyGold(ad, averages, opts),
		})
	}
	return out
}
