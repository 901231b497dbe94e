package insights

import (
	"encoding/json"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/db/models"
)

// dayRowsFromModels converts stored day rows into engine input. Conversion
// payloads that fail to decode are treated as empty, never as an error: a
// malformed historical row should not take down a whole report.
func dayRowsFromModels(rows []models.AdMetricDaily) []types.AdRow {
	out := make([]types.AdRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.AdRow{
			AdID:             row.AdID,
			AdName:           row.AdName,
			AccountID:        row.AccountID,
			Date:             normalizeDate(row.Date),
			Impressions:      row.Impressions,
			Clicks:           row.Clicks,
			InlineLinkClicks: row.InlineLinkClicks,
			Spend:            row.Spend,
			LPV:              row.LPV,
			Plays:            row.Plays,
			Hook:             row.Hook,
			HoldRate:         row.HoldRate,
			CTR:              row.CTR,
			WebsiteCTR:       row.WebsiteCTR,
			ConnectRate:      row.ConnectRate,
			CPM:              row.CPM,
			Conversions:      decodeConversions(row.Conversions),
		})
	}
	return out
}

func decodeConversions(raw json.RawMessage) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	var conversions map[string]float64
	if err := json.Unmarshal(raw, &conversions); err != nil {
		return nil
	}
	return conversions
}

// normalizeDate trims a DATE column scanned with a time suffix down to the
// plain YYYY-MM-DD form the engine buckets on.
func normalizeDate(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}

// attachLeadscores hangs each ad's ordered score sequence onto its aggregated
// row so the MQL formulas can see them.
func attachLeadscores(ads []types.AdRow, scores []models.AdLeadscore) []types.AdRow {
	if len(scores) == 0 {
		return ads
	}
	byAd := make(map[string][]any)
	for _, score := range scores {
		byAd[score.AdID] = append(byAd[score.AdID], score.Score)
	}
	for i := range ads {
		ads[i].LeadscoreValues = byAd[ads[i].AdID]
	}
	return ads
}

func encodeConversions(conversions map[string]float64) json.RawMessage {
	if len(conversions) == 0 {
		return json.RawMessage(`{}`)
	}
	raw, err := json.Marshal(conversions)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

// DayModelFromRow converts one snapshot row into its stored form. The
// account comes from the envelope, not the row, so a payload cannot write
// across accounts.
func DayModelFromRow(accountID string, row types.AdRow) models.AdMetricDaily {
	return models.AdMetricDaily{
		AccountID:        accountID,
		AdID:             row.AdID,
		AdName:           row.AdName,
		Date:             row.Date,
		Impressions:      row.Impressions,
		Clicks:           row.Clicks,
		InlineLinkClicks: row.InlineLinkClicks,
		Spend:            row.Spend,
		LPV:              row.LPV,
		Plays:            row.Plays,
		Hook:             row.Hook,
		HoldRate:         row.HoldRate,
		CTR:              row.CTR,
		WebsiteCTR:       row.WebsiteCTR,
		ConnectRate:      row.ConnectRate,
		CPM:              row.CPM,
		Conversions:      encodeConversions(row.Conversions),
	}
}
