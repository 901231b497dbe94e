package insights

import (
	"net/http"
	"strings"

	"github.com/adscope/adscope-backend/api/responses"
	"github.com/adscope/adscope-backend/api/validators"
	"github.com/adscope/adscope-backend/internal/insights"
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
	pkgerrors "github.com/adscope/adscope-backend/pkg/errors"
	"github.com/adscope/adscope-backend/pkg/logger"
)

// Rankings recomputes the per-metric rank maps for every validated ad in the
// window. Validation criteria arrive as repeated metric:operator:value
// parameters.
func Rankings(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := validators.RequireQuery(r, "account_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, to, err := resolveWindow(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filterValidOnly, err := validators.ParseQueryBool(r, "filter_valid_only", true)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		mqlMin, err := parseOptionalFloat(r, "mql_min")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		criteria, err := parseCriteria(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Rankings(ctx, types.RankingsRequest{
			AccountID:       accountID,
			From:            from,
			To:              to,
			ActionType:      resolveActionType(r),
			FilterValidOnly: filterValidOnly,
			MQLLeadscoreMin: mqlMin,
			Criteria:        criteria,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Gems returns the top-N ads for one highlight metric.
func Gems(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := validators.RequireQuery(r, "account_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, to, err := resolveWindow(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rawMetric, err := validators.RequireQuery(r, "metric")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		metric, err := enums.ParseTopMetricKey(rawMetric)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unsupported highlight metric"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 3, 1, 50)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		mqlMin, err := parseOptionalFloat(r, "mql_min")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Gems(ctx, types.GemsRequest{
			AccountID:       accountID,
			From:            from,
			To:              to,
			Metric:          metric,
			ActionType:      resolveActionType(r),
			Limit:           limit,
			MQLLeadscoreMin: mqlMin,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Opportunities scores the CPR headroom per ad, ordered by relative impact.
func Opportunities(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := validators.RequireQuery(r, "account_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, to, err := resolveWindow(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		spendTotal, err := validators.ParseQueryFloat(r, "spend_total", 0)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if spendTotal < 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "spend_total must not be negative"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Opportunities(ctx, types.OpportunitiesRequest{
			AccountID:  accountID,
			From:       from,
			To:         to,
			ActionType: resolveActionType(r),
			SpendTotal: spendTotal,
			Limit:      limit,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GoldBuckets classifies every ad in the window against population averages.
func GoldBuckets(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := validators.RequireQuery(r, "account_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, to, err := resolveWindow(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.GoldBuckets(ctx, types.GoldBucketsRequest{
			AccountID:  accountID,
			From:       from,
			To:         to,
			ActionType: resolveActionType(r),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DailySeries builds the trailing-window per-ad time series.
func DailySeries(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := validators.RequireQuery(r, "account_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		endDate, err := validators.RequireQuery(r, "end_date")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		groupBy := enums.SeriesGroupByAdID
		if raw := strings.TrimSpace(r.URL.Query().Get("group_by")); raw != "" {
			groupBy, err = enums.ParseSeriesGroupKey(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid group_by"))
				return
			}
		}
		windowDays, err := validators.ParseQueryInt(r, "window_days", 0, 1, 90)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.DailySeries(ctx, types.DailySeriesRequest{
			AccountID:  accountID,
			GroupBy:    groupBy,
			ActionType: resolveActionType(r),
			EndDate:    endDate,
			WindowDays: windowDays,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MQL aggregates lead quality for one ad, or the whole account when ad_id is
// absent.
func MQL(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := validators.RequireQuery(r, "account_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, to, err := resolveWindow(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		mqlMin, err := parseOptionalFloat(r, "mql_min")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.MQLSummary(ctx, types.MQLRequest{
			AccountID:       accountID,
			From:            from,
			To:              to,
			AdID:            strings.TrimSpace(r.URL.Query().Get("ad_id")),
			MQLLeadscoreMin: mqlMin,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
