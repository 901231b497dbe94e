package engine

import (
	"sort"

	"github.com/adscope/adscope-backend/internal/insights/types"
)

// AggregateByAd collapses ad-day rows into one row per ad across the window.
// Counters and spend sum; conversions merge; leadscores concatenate. Backend
// rates are averaged weighted by their denominator day counts, and only kept
// when every day row carried the rate, so the formulas fall back to the
// aggregated counters otherwise.
func AggregateByAd(rows []types.AdRow) []types.AdRow {
	byID := make(map[string]*adAccumulator)
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		acc, ok := byID[row.AdID]
		if !ok {
			acc = newAdAccumulator(row)
			byID[row.AdID] = acc
			order = append(order, row.AdID)
		}
		acc.add(row)
	}

	sort.Strings(order)
	out := make([]types.AdRow, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id].finish())
	}
	return out
}

type adAccumulator struct {
	base types.AdRow

	hook        weightedRate
	holdRate    weightedRate
	ctr         weightedRate
	websiteCTR  weightedRate
	connectRate weightedRate
	cpm         weightedRate
}

func newAdAccumulator(row types.AdRow) *adAccumulator {
	return &adAccumulator{
		base: types.AdRow{
			AdID:      row.AdID,
			AdName:    row.AdName,
			AccountID: row.AccountID,
		},
	}
}

func (a *adAccumulator) add(row types.AdRow) {
	a.base.Impressions += row.Impressions
	a.base.Clicks += row.Clicks
	a.base.InlineLinkClicks += row.InlineLinkClicks
	a.base.LPV += row.LPV
	a.base.Plays += row.Plays
	a.base.Spend += row.Spend

	if len(row.Conversions) > 0 {
		if a.base.Conversions == nil {
			a.base.Conversions = make(map[string]float64, len(row.Conversions))
		}
		for action, count := range row.Conversions {
			a.base.Conversions[action] += count
		}
	}
	a.base.LeadscoreValues = append(a.base.LeadscoreValues, row.LeadscoreValues...)

	// Keep the last seen name: renamed ads should show the current one.
	if row.AdName != "" {
		a.base.AdName = row.AdName
	}

	// Hook and hold rate have no counter fallback, so partial day coverage
	// still averages. The recomputable rates only keep the backend average
	// when every day carried it.
	a.hook.add(row.Hook, float64(row.Plays))
	a.holdRate.add(row.HoldRate, float64(row.Plays))
	a.ctr.addStrict(row.CTR, float64(row.Impressions))
	a.websiteCTR.addStrict(row.WebsiteCTR, float64(row.Impressions))
	a.connectRate.addStrict(row.ConnectRate, float64(row.InlineLinkClicks))
	a.cpm.addStrict(row.CPM, float64(row.Impressions))
}

func (a *adAccumulator) finish() types.AdRow {
	row := a.base
	row.Hook = a.hook.value()
	row.HoldRate = a.holdRate.value()
	row.CTR = a.ctr.value()
	row.WebsiteCTR = a.websiteCTR.value()
	row.ConnectRate = a.connectRate.value()
	row.CPM = a.cpm.value()
	return row
}

// weightedRate averages a per-day backend rate weighted by its denominator.
type weightedRate struct {
	sum     float64
	weight  float64
	missing bool
}

func (w *weightedRate) add(rate *float64, weight float64) {
	if rate == nil {
		return
	}
	if weight <= 0 {
		weight = 1
	}
	w.sum += *rate * weight
	w.weight += weight
}

// addStrict marks the whole average invalid when any day lacks the rate, so
// the formulas recompute from the summed counters instead of averaging a
// partial window.
func (w *weightedRate) addStrict(rate *float64, weight float64) {
	if rate == nil {
		w.missing = true
		return
	}
	w.add(rate, weight)
}

func (w *weightedRate) value() *float64 {
	if w.missing || w.weight <= 0 {
		return nil
	}
	v := w.sum / w.weight
	return &v
}
