package engine

import (
	"math"
	"testing"

	"github.com/adscope/adscope-backend/internal/insights/types"
)

func TestDeriveAverages(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 10, 0.01), // cpr 10
		leadAd("b", 100, 4, 0.03),  // cpr 25
	}

	got := DeriveAverages(ads, ComputeOptions{ActionType: "lead"})
	if got.CTR == nil || math.Abs(*got.CTR-0.02) > 1e-9 {
		t.Fatalf("expected mean ctr 0.02, got %v", got.CTR)
	}
	if got.CPR == nil || math.Abs(*got.CPR-17.5) > 1e-9 {
		t.Fatalf("expected mean cpr 17.5, got %v", got.CPR)
	}
	if got.Hook != nil {
		t.Fatalf("expected no hook mean without backend values, got %v", *got.Hook)
	}
}

func TestDeriveAveragesSkipsAdsWithoutSignal(t *testing.T) {
	ads := []types.AdRow{
		leadAd("a", 100, 10, 0.02),
		leadAd("b", 100, 0, 0.04), // no results: must not drag cpr down
	}

	got := DeriveAverages(ads, ComputeOptions{ActionType: "lead"})
	if got.CPR == nil || *got.CPR != 10 {
		t.Fatalf("expected cpr mean 10 over the single valid ad, got %v", got.CPR)
	}
}

func TestDeriveAveragesEmptyPopulation(t *testing.T) {
	got := DeriveAverages(nil, ComputeOptions{ActionType: "lead"})
	if got.CTR != nil || got.CPR != nil || got.CPM != nil {
		t.Fatalf("expected all means absent for an empty population, got %+v", got)
	}
}
