package insights

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
	pkgerrors "github.com/adscope/adscope-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// resolveWindow reads from/to date-only query parameters. When both are
// absent a preset (7d/30d/90d, default 30d) anchors a trailing window
// ending today.
func resolveWindow(r *http.Request, now time.Time) (string, string, error) {
	query := r.URL.Query()
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))

	if from != "" || to != "" {
		if from == "" || to == "" {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		}
		start, err := time.Parse(dateLayout, from)
		if err != nil {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "invalid from date, expected YYYY-MM-DD")
		}
		end, err := time.Parse(dateLayout, to)
		if err != nil {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "invalid to date, expected YYYY-MM-DD")
		}
		if end.Before(start) {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from")
		}
		return from, to, nil
	}

	preset := strings.TrimSpace(query.Get("preset"))
	days, ok := presetDays(preset)
	if !ok {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "invalid preset")
	}

	end := now.Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(days - 1))
	return start.Format(dateLayout), end.Format(dateLayout), nil
}

func presetDays(value string) (int, bool) {
	if value == "" {
		value = "30d"
	}
	switch strings.ToLower(value) {
	case "7d":
		return 7, true
	case "30d":
		return 30, true
	case "90d":
		return 90, true
	default:
		return 0, false
	}
}

// parseOptionalFloat distinguishes an absent parameter from an explicit 0:
// absent returns nil so deployment defaults apply downstream.
func parseOptionalFloat(r *http.Request, key string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func resolveActionType(r *http.Request) string {
	value := strings.TrimSpace(r.URL.Query().Get("action_type"))
	if value == "" {
		return enums.DefaultActionType
	}
	return value
}

// parseCriteria accepts repeated criteria parameters of the form
// "metric:operator:value", e.g. criteria=ctr:gte:0.01&criteria=cpr:lt:10.
func parseCriteria(r *http.Request) ([]types.Criterion, error) {
	raw := r.URL.Query()["criteria"]
	if len(raw) == 0 {
		return nil, nil
	}

	criteria := make([]types.Criterion, 0, len(raw))
	for _, entry := range raw {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "criteria entries must be metric:operator:value").
				WithDetails(map[string]any{"entry": entry})
		}

		metric, err := enums.ParseMetricKey(parts[0])
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown criteria metric").
				WithDetails(map[string]any{"entry": entry})
		}

		operator := enums.CriteriaOperator(parts[1])
		if !operator.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown criteria operator").
				WithDetails(map[string]any{"entry": entry})
		}

		value, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "criteria value must be numeric").
				WithDetails(map[string]any{"entry": entry})
		}

		criteria = append(criteria, types.Criterion{Metric: metric, Operator: operator, Value: value})
	}
	return criteria, nil
}
