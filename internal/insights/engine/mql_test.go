package engine

import (
	"testing"

	"github.com/adscope/adscope-backend/internal/insights/types"
)

func TestSummarizeMQL(t *testing.T) {
	ad := types.AdRow{
		Spend:           100,
		LeadscoreValues: []any{5, 10, 15},
	}

	got := SummarizeMQL(ad, 10)
	if got.LeadCount != 3 {
		t.Fatalf("expected 3 leads, got %d", got.LeadCount)
	}
	if got.MQLCount != 2 {
		t.Fatalf("expected 2 qualified leads at threshold 10, got %d", got.MQLCount)
	}
	if got.LeadscoreAvg != 10 {
		t.Fatalf("expected average 10, got %v", got.LeadscoreAvg)
	}
	if got.CPMQL != 50 {
		t.Fatalf("expected cpmql 50, got %v", got.CPMQL)
	}
}

func TestSummarizeMQLDropsInvalidEntries(t *testing.T) {
	ad := types.AdRow{
		Spend:           60,
		LeadscoreValues: []any{"20", nil, "n/a", 10},
	}

	got := SummarizeMQL(ad, 15)
	if got.LeadCount != 2 {
		t.Fatalf("expected 2 usable scores, got %d", got.LeadCount)
	}
	if got.MQLCount != 1 {
		t.Fatalf("expected 1 qualified lead, got %d", got.MQLCount)
	}
	if got.CPMQL != 60 {
		t.Fatalf("expected cpmql 60, got %v", got.CPMQL)
	}
}

func TestSummarizeMQLNoQualifiedLeads(t *testing.T) {
	ad := types.AdRow{
		Spend:           100,
		LeadscoreValues: []any{1, 2},
	}

	got := SummarizeMQL(ad, 50)
	if got.MQLCount != 0 {
		t.Fatalf("expected no qualified leads, got %d", got.MQLCount)
	}
	if got.CPMQL != 0 {
		t.Fatalf("expected cpmql 0 without qualified leads, got %v", got.CPMQL)
	}
}

func TestSummarizeMQLEmpty(t *testing.T) {
	got := SummarizeMQL(types.AdRow{Spend: 10}, 0)
	if got.LeadCount != 0 || got.MQLCount != 0 || got.LeadscoreAvg != 0 || got.CPMQL != 0 {
		t.Fatalf("expected zero summary for empty scores, got %+v", got)
	}
}
