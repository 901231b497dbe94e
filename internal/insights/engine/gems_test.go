package engine

import (
	"testing"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

func TestTopByMetricOrdersAndFormats(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 10, 0.01),
		leadAd("b", 100, 10, 0.03),
		leadAd("c", 100, 10, 0.02),
	}

	got := TopByMetric(ads, enums.MetricCTR, 2, ComputeOptions{ActionType: "lead"})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].AdID != "b" || got[1].AdID != "c" {
		t.Fatalf("expected order b,c, got %s,%s", got[0].AdID, got[1].AdID)
	}
	if got[0].Formatted != "3.00%" {
		t.Fatalf("expected formatted 3.00%%, got %q", got[0].Formatted)
	}
}

func TestTopByMetricAscendingForCost(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 4, 0.01),  // cpr 25
		leadAd("b", 100, 20, 0.01), // cpr 5
	}

	got := TopByMetric(ads, enums.MetricCPR, 5, ComputeOptions{ActionType: "lead"})
	if len(got) != 2 || got[0].AdID != "b" {
		t.Fatalf("expected cheapest conversion first, got %+v", got)
	}
	if got[0].Formatted != "R$ 5.00" {
		t.Fatalf("expected R$ 5.00, got %q", got[0].Formatted)
	}
}

func TestTopByMetricNeverPads(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 10, 0.02),
		leadAd("b", 100, 0, 0), // no cpr, zero ctr
	}

	got := TopByMetric(ads, enums.MetricCTR, 10, ComputeOptions{ActionType: "lead"})
	if len(got) != 1 {
		t.Fatalf("expected a single valid entry, got %d", len(got))
	}
}

func TestTopByMetricZeroLimit(t *testing.T) {
	ads := []types.AdRow{leadAd("a", 100, 10, 0.02)}

	if got := TopByMetric(ads, enums.MetricCTR, 0, ComputeOptions{ActionType: "lead"}); len(got) != 0 {
		t.Fatalf("expected empty result for limit 0, got %d entries", len(got))
	}
}
