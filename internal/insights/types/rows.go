package types

// AdRow is one ad (or ad-day) record as supplied by the metrics backend.
// Rows are never mutated by the engine; every computation reads and derives.
type AdRow struct {
	AdID      string `json:"ad_id"`
	AdName    string `json:"ad_name"`
	AccountID string `json:"account_id"`
	// Date is set on ad-day rows only, formatted YYYY-MM-DD.
	Date string `json:"date,omitempty"`

	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	InlineLinkClicks int64   `json:"inline_link_clicks"`
	Spend            float64 `json:"spend"`
	LPV              int64   `json:"lpv"`
	Plays            int64   `json:"plays"`

	// Backend-precomputed rates. When present and finite they take priority
	// over local recomputation.
	Hook        *float64 `json:"hook,omitempty"`
	HoldRate    *float64 `json:"hold_rate,omitempty"`
	CTR         *float64 `json:"ctr,omitempty"`
	WebsiteCTR  *float64 `json:"website_ctr,omitempty"`
	ConnectRate *float64 `json:"connect_rate,omitempty"`
	CPM         *float64 `json:"cpm,omitempty"`

	// Conversions maps conversion-type name to count.
	Conversions map[string]float64 `json:"conversions,omitempty"`

	// LeadscoreValues is the ordered raw score sequence, one entry per matched
	// lead. Entries may be non-numeric; NormalizeScores discards those.
	LeadscoreValues []any `json:"leadscore_values,omitempty"`
}

// ResultsFor returns the conversion count for the action type, 0 when absent.
func (r AdRow) ResultsFor(actionType string) float64 {
	if r.Conversions == nil {
		return 0
	}
	return r.Conversions[actionType]
}
