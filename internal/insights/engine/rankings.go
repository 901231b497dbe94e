package engine

import (
	"sort"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// RankOptions controls a global ranking pass.
type RankOptions struct {
	Compute ComputeOptions

	// Criteria is the validation predicate applied before ranking. Empty
	// means every ad participates.
	Criteria []types.Criterion

	// FilterValidOnly drops non-positive and non-finite metric values from
	// each per-metric ranking. The API keeps it on unless a request
	// disables it explicitly.
	FilterValidOnly bool
}

// ComputeRanks assigns a 1-based dense rank per tracked metric to every ad
// passing validation. An ad with no usable value for a metric is simply
// absent from that metric's map. The result is always rebuilt from scratch.
func ComputeRanks(ads []types.AdRow, opts RankOptions) types.MetricRanks {
	validated := FilterValidated(ads, opts.Criteria, opts.Compute)

	ranks := make(types.MetricRanks, len(enums.RankedMetricKeys))
	for _, key := range enums.RankedMetricKeys {
		ranks[key] = rankMetric(validated, key, opts)
	}
	return ranks
}

type rankedAd struct {
	adID  string
	value float64
	pos   int
}

func rankMetric(ads []types.AdRow, key enums.MetricKey, opts RankOptions) types.RankSet {
	entries := make([]rankedAd, 0, len(ads))
	for i, ad := range ads {
		value, ok := Compute(key, ad, opts.Compute)
		if !ok {
			continue
		}
		if opts.FilterValidOnly && !rankable(value) {
			continue
		}
		entries = append(entries, rankedAd{adID: ad.AdID, value: value, pos: i})
	}

	sortEntries(entries, key)

	set := make(types.RankSet, len(entries))
	for i, entry := range entries {
		set[entry.adID] = i + 1
	}
	return set
}

// sortEntries orders best-first for the metric's polarity. Ties keep input
// order, then fall back to ad_id ascending so identical inputs always rank
// identically.
func sortEntries(entries []rankedAd, key enums.MetricKey) {
	asc := key.LowerIsBetter()
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.value != b.value {
			if asc {
				return a.value < b.value
			}
			return a.value > b.value
		}
		if a.pos != b.pos {
			return a.pos < b.pos
		}
		return a.adID < b.adID
	})
}
