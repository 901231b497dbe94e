package engine

import (
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// TopByMetric selects the top-N ads for one highlight metric, best first,
// with formatted display values. Ads with non-positive or non-finite values
// never appear, so the result may hold fewer than limit entries. A limit of
// zero or less yields an empty slice.
func TopByMetric(ads []types.AdRow, key enums.MetricKey, limit int, opts ComputeOptions) []types.TopMetricEntry {
	if limit <= 0 {
		return []types.TopMetricEntry{}
	}

	entries := make([]rankedAd, 0, len(ads))
	names := make(map[string]string, len(ads))
	for i, ad := range ads {
		value, ok := Compute(key, ad, opts)
		if !ok || !rankable(value) {
			continue
		}
		entries = append(entries, rankedAd{adID: ad.AdID, value: value, pos: i})
		names[ad.AdID] = ad.AdName
	}

	sortEntries(entries, key)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]types.TopMetricEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, types.TopMetricEntry{
			AdID:      entry.adID,
			AdName:    names[entry.adID],
			Value:     entry.value,
			Formatted: FormatMetric(key, entry.value, true),
		})
	}
	return out
}
