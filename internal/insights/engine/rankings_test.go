package engine

import (
	"testing"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

func leadAd(id string, spend float64, results float64, ctr float64) types.AdRow {
	return types.AdRow{
		AdID:        id,
		AdName:      "ad " + id,
		Spend:       spend,
		Impressions: 10000,
		CTR:         f64(ctr),
		Conversions: map[string]float64{"lead": results},
	}
}

func TestComputeRanksDenseAndMonotonic(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 10, 0.01), // cpr 10
		leadAd("b", 100, 4, 0.03),  // cpr 25
		leadAd("c", 100, 20, 0.02), // cpr 5
	}
	opts := RankOptions{
		Compute:         ComputeOptions{ActionType: "lead"},
		FilterValidOnly: true,
	}

	ranks := ComputeRanks(ads, opts)
	if len(ranks) != len(enums.RankedMetricKeys) {
		t.Fatalf("expected %d metric rank sets, got %d", len(enums.RankedMetricKeys), len(ranks))
	}

	cpr := ranks[enums.MetricCPR]
	if cpr["c"] != 1 || cpr["a"] != 2 || cpr["b"] != 3 {
		t.Fatalf("expected cpr order c,a,b, got %v", cpr)
	}

	ctr := ranks[enums.MetricCTR]
	if ctr["b"] != 1 || ctr["c"] != 2 || ctr["a"] != 3 {
		t.Fatalf("expected ctr order b,c,a, got %v", ctr)
	}

	// Dense permutation 1..k per metric.
	for key, set := range ranks {
		seen := make(map[int]bool, len(set))
		for _, rank := range set {
			if rank < 1 || rank > len(set) || seen[rank] {
				t.Fatalf("%s: ranks are not a dense 1..%d permutation: %v", key, len(set), set)
			}
			seen[rank] = true
		}
	}
}

func TestComputeRanksExcludesInvalidValues(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 10, 0.01),
		leadAd("b", 100, 0, 0.02), // no results, no cpr
	}
	opts := RankOptions{
		Compute:         ComputeOptions{ActionType: "lead"},
		FilterValidOnly: true,
	}

	ranks := ComputeRanks(ads, opts)
	cpr := ranks[enums.MetricCPR]
	if _, ranked := cpr["b"]; ranked {
		t.Fatal("ad without results must not receive a cpr rank")
	}
	if cpr["a"] != 1 {
		t.Fatalf("expected a ranked first, got %v", cpr)
	}
}

func TestComputeRanksTieBreaksByAdID(t *testing.T) {
	ads := []types.AdRow{
		leadAd("b", 100, 10, 0.02),
		leadAd("a", 100, 10, 0.02),
	}
	opts := RankOptions{
		Compute:         ComputeOptions{ActionType: "lead"},
		FilterValidOnly: true,
	}

	ctr := ComputeRanks(ads, opts)[enums.MetricCTR]
	if ctr["b"] != 1 || ctr["a"] != 2 {
		t.Fatalf("expected ties to keep input order, got %v", ctr)
	}
}

func TestComputeRanksAppliesCriteria(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 10, 0.01),
		leadAd("b", 100, 4, 0.03),
	}
	opts := RankOptions{
		Compute: ComputeOptions{ActionType: "lead"},
		Criteria: []types.Criterion{
			{Metric: enums.MetricCTR, Operator: enums.OperatorGTE, Value: 0.02},
		},
		FilterValidOnly: true,
	}

	ranks := ComputeRanks(ads, opts)
	if _, ok := ranks[enums.MetricCTR]["a"]; ok {
		t.Fatal("ad failing validation criteria must be absent from every metric")
	}
	if ranks[enums.MetricCTR]["b"] != 1 {
		t.Fatalf("expected b to rank first, got %v", ranks[enums.MetricCTR])
	}
}
