package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

func dayRow(id, name, date string, impressions, clicks int64, spend float64, results float64) types.AdRow {
	return types.AdRow{
		AdID:        id,
		AdName:      name,
		Date:        date,
		Impressions: impressions,
		Clicks:      clicks,
		Spend:       spend,
		Conversions: map[string]float64{"lead": results},
	}
}

func TestBuildDailySeriesAxis(t *testing.T) {
	got, err := BuildDailySeries(nil, SeriesOptions{
		GroupKey:   enums.SeriesGroupByAdID,
		EndDate:    "2024-01-19",
		WindowDays: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18", "2024-01-19"}
	if !reflect.DeepEqual(got.Axis, want) {
		t.Fatalf("expected axis %v, got %v", want, got.Axis)
	}
}

func TestBuildDailySeriesAxisCrossesLeapFebruary(t *testing.T) {
	got, err := BuildDailySeries(nil, SeriesOptions{
		GroupKey:   enums.SeriesGroupByAdID,
		EndDate:    "2024-03-01",
		WindowDays: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2024-02-28", "2024-02-29", "2024-03-01"}
	if !reflect.DeepEqual(got.Axis, want) {
		t.Fatalf("expected leap-year axis %v, got %v", want, got.Axis)
	}
}

func TestBuildDailySeriesAxisCrossesYear(t *testing.T) {
	got, err := BuildDailySeries(nil, SeriesOptions{
		GroupKey:   enums.SeriesGroupByAdID,
		EndDate:    "2025-01-01",
		WindowDays: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2024-12-31", "2025-01-01"}
	if !reflect.DeepEqual(got.Axis, want) {
		t.Fatalf("expected year-boundary axis %v, got %v", want, got.Axis)
	}
}

func TestBuildDailySeriesRejectsBadInput(t *testing.T) {
	if _, err := BuildDailySeries(nil, SeriesOptions{EndDate: "2024-01-19", WindowDays: 0}); err == nil {
		t.Fatal("expected error for empty window")
	}
	if _, err := BuildDailySeries(nil, SeriesOptions{EndDate: "19/01/2024", WindowDays: 5}); err == nil {
		t.Fatal("expected error for malformed end date")
	}
	if _, err := BuildDailySeries(nil, SeriesOptions{EndDate: "2023-02-29", WindowDays: 5}); err == nil {
		t.Fatal("expected error for nonexistent date")
	}
}

func TestBuildDailySeriesGapsAreNil(t *testing.T) {
	rows := []types.AdRow{
		dayRow("a1", "ad one", "2024-01-15", 1000, 20, 10, 2),
		dayRow("a1", "ad one", "2024-01-17", 2000, 20, 30, 3),
		// Outside the window, must be ignored.
		dayRow("a1", "ad one", "2024-01-10", 9999, 99, 99, 9),
	}

	got, err := BuildDailySeries(rows, SeriesOptions{
		Compute:    ComputeOptions{ActionType: "lead"},
		GroupKey:   enums.SeriesGroupByAdID,
		EndDate:    "2024-01-17",
		WindowDays: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	series, ok := got.Groups["a1"]
	if !ok {
		t.Fatalf("expected group a1, got %v", got.Groups)
	}

	if series.CTR[0] == nil || *series.CTR[0] != 0.02 {
		t.Fatalf("expected ctr 0.02 on day 0, got %v", series.CTR[0])
	}
	if series.CTR[1] != nil {
		t.Fatalf("expected nil on a day without data, got %v", *series.CTR[1])
	}
	if series.CTR[2] == nil || *series.CTR[2] != 0.01 {
		t.Fatalf("expected ctr 0.01 on day 2, got %v", series.CTR[2])
	}

	if series.CPR[0] == nil || *series.CPR[0] != 5 {
		t.Fatalf("expected cpr 5 on day 0, got %v", series.CPR[0])
	}
	if series.CPM[2] == nil || *series.CPM[2] != 15 {
		t.Fatalf("expected cpm 15 on day 2, got %v", series.CPM[2])
	}
}

func TestBuildDailySeriesGroupsByAdName(t *testing.T) {
	rows := []types.AdRow{
		dayRow("a1", "creative A", "2024-01-17", 1000, 10, 10, 1),
		dayRow("a2", "creative A", "2024-01-17", 1000, 30, 10, 1),
		dayRow("b1", "creative B", "2024-01-17", 1000, 10, 10, 1),
	}

	got, err := BuildDailySeries(rows, SeriesOptions{
		Compute:    ComputeOptions{ActionType: "lead"},
		GroupKey:   enums.SeriesGroupByAdName,
		EndDate:    "2024-01-17",
		WindowDays: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Groups) != 2 {
		t.Fatalf("expected 2 name groups, got %d", len(got.Groups))
	}
	merged := got.Groups["creative A"]
	if merged.CTR[0] == nil || *merged.CTR[0] != 0.02 {
		t.Fatalf("expected merged ctr 0.02 for creative A, got %v", merged.CTR[0])
	}
}

func TestBuildDailySeriesHookWeightedByPlays(t *testing.T) {
	day := "2024-01-17"
	rows := []types.AdRow{
		{AdID: "a", AdName: "a", Date: day, Plays: 100, Hook: f64(0.2)},
		{AdID: "a", AdName: "a", Date: day, Plays: 300, Hook: f64(0.4)},
	}

	got, err := BuildDailySeries(rows, SeriesOptions{
		GroupKey:   enums.SeriesGroupByAdID,
		EndDate:    day,
		WindowDays: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hook := got.Groups["a"].Hook[0]
	if hook == nil || math.Abs(*hook-0.35) > 1e-9 {
		t.Fatalf("expected plays-weighted hook 0.35, got %v", hook)
	}
}
