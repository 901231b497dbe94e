package engine

import (
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// MatchesCriteria evaluates a validation predicate against one ad with AND
// semantics across conditions. An empty criteria list passes every ad.
// Metrics the ad cannot produce evaluate as 0.
func MatchesCriteria(ad types.AdRow, criteria []types.Criterion, opts ComputeOptions) bool {
	for _, c := range criteria {
		key := enums.MetricKey(c.Metric)
		value, ok := Compute(key, ad, opts)
		if !ok {
			value = 0
		}
		if !compare(value, c.Operator, c.Value) {
			return false
		}
	}
	return true
}

// FilterValidated returns the ads passing the criteria, preserving order.
func FilterValidated(ads []types.AdRow, criteria []types.Criterion, opts ComputeOptions) []types.AdRow {
	if len(criteria) == 0 {
		return ads
	}
	out := make([]types.AdRow, 0, len(ads))
	for _, ad := range ads {
		if MatchesCriteria(ad, criteria, opts) {
			out = append(out, ad)
		}
	}
	return out
}

func compare(value float64, op enums.CriteriaOperator, target float64) bool {
	switch op {
	case enums.OperatorGT:
		return value > target
	case enums.OperatorGTE:
		return value >= target
	case enums.OperatorLT:
		return value < target
	case enums.OperatorLTE:
		return value <= target
	case enums.OperatorEQ:
		return value == target
	default:
		return false
	}
}
