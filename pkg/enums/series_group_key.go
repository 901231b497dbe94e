package enums

import "fmt"

// SeriesGroupKey selects the grouping column for daily time series.
type SeriesGroupKey string

const (
	SeriesGroupByAdID   SeriesGroupKey = "ad_id"
	SeriesGroupByAdName SeriesGroupKey = "ad_name"
)

// IsValid reports whether the value is a supported grouping key.
func (s SeriesGroupKey) IsValid() bool {
	return s == SeriesGroupByAdID || s == SeriesGroupByAdName
}

// ParseSeriesGroupKey converts the raw string to a SeriesGroupKey.
func ParseSeriesGroupKey(value string) (SeriesGroupKey, error) {
	switch SeriesGroupKey(value) {
	case SeriesGroupByAdID:
		return SeriesGroupByAdID, nil
	case SeriesGroupByAdName:
		return SeriesGroupByAdName, nil
	default:
		return "", fmt.Errorf("invalid series group key %q", value)
	}
}
