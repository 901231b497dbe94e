package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number coerces an arbitrary decoded JSON scalar into a float64. Missing,
// non-numeric and non-finite values map to 0. This is the single coercion
// point for loosely typed backend payloads; nothing else in the engine
// re-coerces raw input.
func Number(v any) float64 {
	f, ok := numeric(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizeScores coerces raw leadscore entries to floats, dropping
// non-numeric and non-finite entries while preserving order.
func NormalizeScores(raw []any) []float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, entry := range raw {
		f, ok := numeric(entry)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
