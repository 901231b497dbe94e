package engine

import (
	"math"
	"testing"

	"github.com/adscope/adscope-backend/internal/insights/types"
)

// funnelAd builds counters so that cpm=1 and the funnel rates come out to the
// given values exactly.
func funnelAd(id string, spend float64, websiteCTR, connectRate, pageConv float64) types.AdRow {
	impressions := int64(spend * 1000)
	inline := int64(float64(impressions) * websiteCTR)
	lpv := int64(float64(inline) * connectRate)
	results := float64(lpv) * pageConv
	return types.AdRow{
		AdID:             id,
		AdName:           "ad " + id,
		Spend:            spend,
		Impressions:      impressions,
		InlineLinkClicks: inline,
		LPV:              lpv,
		Conversions:      map[string]float64{"lead": results},
	}
}

func opportunityAverages(websiteCTR, connectRate, pageConv float64) types.Averages {
	return types.Averages{
		WebsiteCTR:  f64(websiteCTR),
		ConnectRate: f64(connectRate),
		PageConv:    f64(pageConv),
	}
}

func TestScoreOpportunitiesCounterfactual(t *testing.T) {
	ads := []types.AdRow{funnelAd("a", 100, 0.01, 0.5, 0.01)}
	opts := OpportunityOptions{
		Compute:  ComputeOptions{ActionType: "lead"},
		Averages: opportunityAverages(0.02, 0.5, 0.02),
		Limit:    10,
	}

	rows := ScoreOpportunities(ads, opts)
	if len(rows) != 1 {
		t.Fatalf("expected one opportunity, got %d", len(rows))
	}
	row := rows[0]

	if math.Abs(row.CPRActual-20) > 1e-9 {
		t.Fatalf("expected actual cpr 20, got %v", row.CPRActual)
	}
	if math.Abs(row.CPRPotential-5) > 1e-9 {
		t.Fatalf("expected potential cpr 5, got %v", row.CPRPotential)
	}
	if math.Abs(row.ImprovementPct-0.75) > 1e-9 {
		t.Fatalf("expected 75%% improvement, got %v", row.ImprovementPct)
	}
	if math.Abs(row.ImpactRelative-0.75) > 1e-9 {
		t.Fatalf("expected relative impact 0.75 with the ad as total spend, got %v", row.ImpactRelative)
	}
	if math.Abs(row.SavingsAbs-75) > 1e-9 {
		t.Fatalf("expected savings 75, got %v", row.SavingsAbs)
	}
	if math.Abs(row.ExtraConversions-15) > 1e-9 {
		t.Fatalf("expected 15 extra conversions, got %v", row.ExtraConversions)
	}
	if !row.BelowWebsiteCTR || row.BelowConnectRate || !row.BelowPageConv {
		t.Fatalf("unexpected below-average flags: %+v", row)
	}
	if math.Abs(row.PotentialWebsiteCTROnly-10) > 1e-9 {
		t.Fatalf("expected website-ctr-only potential 10, got %v", row.PotentialWebsiteCTROnly)
	}
	if math.Abs(row.PotentialConnectRateOnly-20) > 1e-9 {
		t.Fatalf("expected connect-rate-only potential unchanged at 20, got %v", row.PotentialConnectRateOnly)
	}
}

func TestScoreOpportunitiesClampNeverLowers(t *testing.T) {
	// Above-average website ctr, below-average page conv: the strong step
	// must keep its actual value in the counterfactual.
	ads := []types.AdRow{funnelAd("a", 100, 0.05, 0.5, 0.01)}
	opts := OpportunityOptions{
		Compute:  ComputeOptions{ActionType: "lead"},
		Averages: opportunityAverages(0.02, 0.5, 0.02),
		Limit:    10,
	}

	rows := ScoreOpportunities(ads, opts)
	if len(rows) != 1 {
		t.Fatalf("expected one opportunity, got %d", len(rows))
	}
	// actual = 1/(1000*.05*.5*.01) = 4; potential doubles page conv only.
	if math.Abs(rows[0].CPRActual-4) > 1e-9 || math.Abs(rows[0].CPRPotential-2) > 1e-9 {
		t.Fatalf("expected cpr 4 -> 2, got %v -> %v", rows[0].CPRActual, rows[0].CPRPotential)
	}
}

func TestScoreOpportunitiesSkipsHealthyAds(t *testing.T) {
	ads := []types.AdRow{funnelAd("a", 100, 0.05, 0.8, 0.05)}
	opts := OpportunityOptions{
		Compute:  ComputeOptions{ActionType: "lead"},
		Averages: opportunityAverages(0.02, 0.5, 0.02),
		Limit:    10,
	}

	if rows := ScoreOpportunities(ads, opts); len(rows) != 0 {
		t.Fatalf("expected no opportunities for an all-above-average ad, got %d", len(rows))
	}
}

func TestScoreOpportunitiesDropsBrokenFunnels(t *testing.T) {
	// Zero landing page views: page conv is 0, actual cpr is infinite.
	ad := funnelAd("a", 100, 0.01, 0, 0)
	opts := OpportunityOptions{
		Compute:  ComputeOptions{ActionType: "lead"},
		Averages: opportunityAverages(0.02, 0.5, 0.02),
		Limit:    10,
	}

	if rows := ScoreOpportunities([]types.AdRow{ad}, opts); len(rows) != 0 {
		t.Fatalf("expected broken funnel to be dropped, got %d rows", len(rows))
	}
}

func TestScoreOpportunitiesSortsByRelativeImpact(t *testing.T) {
	// Same inefficiency, very different spend share.
	big := funnelAd("big", 900, 0.01, 0.5, 0.01)
	small := funnelAd("small", 100, 0.01, 0.5, 0.01)
	opts := OpportunityOptions{
		Compute:  ComputeOptions{ActionType: "lead"},
		Averages: opportunityAverages(0.02, 0.5, 0.02),
		Limit:    1,
	}

	rows := ScoreOpportunities([]types.AdRow{small, big}, opts)
	if len(rows) != 1 || rows[0].AdID != "big" {
		t.Fatalf("expected the high-spend ad to lead, got %+v", rows)
	}
}
