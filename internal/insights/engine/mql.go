package engine

import (
	"github.com/adscope/adscope-backend/internal/insights/types"
)

// SummarizeMQL aggregates the leadscore stream of one ad: how many leads it
// produced, how many cleared the qualification threshold, and what it cost
// to produce each qualified one.
func SummarizeMQL(ad types.AdRow, leadscoreMin float64) types.MQLSummary {
	scores := types.NormalizeScores(ad.LeadscoreValues)

	summary := types.MQLSummary{LeadCount: len(scores)}
	if len(scores) == 0 {
		return summary
	}

	var sum float64
	for _, score := range scores {
		sum += score
		if score >= leadscoreMin {
			summary.MQLCount++
		}
	}
	if avg := sum / float64(len(scores)); avg > 0 {
		summary.LeadscoreAvg = avg
	}

	if summary.MQLCount > 0 && ad.Spend > 0 {
		summary.CPMQL = ad.Spend / float64(summary.MQLCount)
	}
	return summary
}
