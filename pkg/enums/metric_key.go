package enums

import "fmt"

// MetricKey identifies a derived advertising metric tracked by the insights engine.
type MetricKey string

const (
	MetricHook        MetricKey = "hook"
	MetricHoldRate    MetricKey = "hold_rate"
	MetricCTR         MetricKey = "ctr"
	MetricWebsiteCTR  MetricKey = "website_ctr"
	MetricConnectRate MetricKey = "connect_rate"
	MetricPageConv    MetricKey = "page_conv"
	MetricResults     MetricKey = "results"
	MetricCPR         MetricKey = "cpr"
	MetricCPMQL       MetricKey = "cpmql"
)

// RankedMetricKeys lists every metric that receives a global rank, in the
// order ranks are reported.
var RankedMetricKeys = []MetricKey{
	MetricHook,
	MetricHoldRate,
	MetricCTR,
	MetricWebsiteCTR,
	MetricConnectRate,
	MetricPageConv,
	MetricResults,
	MetricCPR,
	MetricCPMQL,
}

// TopMetricKeys lists the metrics selectable for the top-N highlight cards.
var TopMetricKeys = []MetricKey{
	MetricHook,
	MetricWebsiteCTR,
	MetricCTR,
	MetricPageConv,
	MetricHoldRate,
	MetricCPR,
	MetricCPMQL,
}

// IsValid reports whether the key names a ranked metric.
func (m MetricKey) IsValid() bool {
	for _, candidate := range RankedMetricKeys {
		if candidate == m {
			return true
		}
	}
	return false
}

// LowerIsBetter reports the fixed polarity of the metric. Cost metrics rank
// ascending; every other metric ranks descending.
func (m MetricKey) LowerIsBetter() bool {
	return m == MetricCPR || m == MetricCPMQL
}

// IsMonetary reports whether values format as currency rather than percentages.
func (m MetricKey) IsMonetary() bool {
	return m == MetricCPR || m == MetricCPMQL
}

// ParseMetricKey converts the raw string to a MetricKey.
func ParseMetricKey(value string) (MetricKey, error) {
	for _, candidate := range RankedMetricKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metric key %q", value)
}

// ParseTopMetricKey converts the raw string to a MetricKey selectable for top-N cards.
func ParseTopMetricKey(value string) (MetricKey, error) {
	for _, candidate := range TopMetricKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("metric %q not selectable for top cards", value)
}
