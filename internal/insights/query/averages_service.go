package query

import (
	"context"
	"fmt"

	cloudbigquery "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/bigquery"
	pkgerrors "github.com/adscope/adscope-backend/pkg/errors"
)

const (
	// Rates average over ads, not days: each ad's window totals are rolled up
	// first so a long-running ad does not dominate the mean.
	globalAveragesSQL = `
WITH per_ad AS (
  SELECT
    ad_id,
    SUM(impressions) AS impressions,
    SUM(clicks) AS clicks,
    SUM(inline_link_clicks) AS inline_link_clicks,
    SUM(lpv) AS lpv,
    SUM(plays) AS plays,
    SUM(spend) AS spend,
    SAFE_DIVIDE(SUM(hook * plays), NULLIF(SUM(IF(hook IS NULL, 0, plays)), 0)) AS hook,
    SAFE_DIVIDE(SUM(hold_rate * plays), NULLIF(SUM(IF(hold_rate IS NULL, 0, plays)), 0)) AS hold_rate
  FROM %s
  WHERE account_id = @accountID
    AND date BETWEEN @start AND @end
  GROUP BY ad_id
)
SELECT
  AVG(hook) AS hook,
  AVG(hold_rate) AS hold_rate,
  AVG(SAFE_DIVIDE(clicks, NULLIF(impressions, 0))) AS ctr,
  AVG(SAFE_DIVIDE(inline_link_clicks, NULLIF(impressions, 0))) AS website_ctr,
  AVG(SAFE_DIVIDE(lpv, NULLIF(inline_link_clicks, 0))) AS connect_rate,
  AVG(SAFE_DIVIDE(spend * 1000, NULLIF(impressions, 0))) AS cpm
FROM per_ad
`

	actionAveragesSQL = `
WITH per_ad AS (
  SELECT
    ad_id,
    conv.action_type AS action_type,
    SUM(conv.count) AS results,
    SUM(lpv) AS lpv,
    SUM(spend) AS spend
  FROM %s, UNNEST(conversions) AS conv
  WHERE account_id = @accountID
    AND date BETWEEN @start AND @end
  GROUP BY ad_id, action_type
)
SELECT
  action_type,
  AVG(IF(results > 0, SAFE_DIVIDE(spend, results), NULL)) AS cpr,
  AVG(SAFE_DIVIDE(results, NULLIF(lpv, 0))) AS page_conv
FROM per_ad
GROUP BY action_type
`
)

// AveragesService supplies population-level metric means from the warehouse.
type AveragesService interface {
	// AccountAverages returns per-metric means over the account's ads within
	// the window, including the per-action-type cpr/page_conv split.
	AccountAverages(ctx context.Context, req types.AveragesRequest) (*types.Averages, error)
}

type averagesService struct {
	client   *bigquery.Client
	tableRef string
}

// NewAveragesService builds a service backed by BigQuery.
func NewAveragesService(client *bigquery.Client) (AveragesService, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	return &averagesService{client: client, tableRef: client.TableRef()}, nil
}

func (s *averagesService) AccountAverages(ctx context.Context, req types.AveragesRequest) (*types.Averages, error) {
	if err := validateAveragesRequest(req); err != nil {
		return nil, err
	}
	params := []cloudbigquery.QueryParameter{
		{Name: "accountID", Value: req.AccountID},
		{Name: "start", Value: req.Start},
		{Name: "end", Value: req.End},
	}

	averages, err := s.queryGlobal(ctx, params)
	if err != nil {
		return nil, err
	}
	perAction, err := s.queryPerAction(ctx, params)
	if err != nil {
		return nil, err
	}
	averages.PerActionType = perAction

	// The global cpr/page_conv fall back to the dominant action type when the
	// caller never narrows one down.
	if split, ok := perAction[req.DefaultActionType]; ok {
		averages.CPR = split.CPR
		averages.PageConv = split.PageConv
	}
	return averages, nil
}

func validateAveragesRequest(req types.AveragesRequest) error {
	if req.AccountID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	if req.Start == "" || req.End == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end are required")
	}
	if req.End < req.Start {
		return pkgerrors.New(pkgerrors.CodeValidation, "end must not precede start")
	}
	return nil
}

func (s *averagesService) queryGlobal(ctx context.Context, params []cloudbigquery.QueryParameter) (*types.Averages, error) {
	iter, err := s.client.Query(ctx, fmt.Sprintf(globalAveragesSQL, s.tableRef), params)
	if err != nil {
		return nil, fmt.Errorf("query averages: %w", err)
	}

	var row struct {
		Hook        cloudbigquery.NullFloat64 `bigquery:"hook"`
		HoldRate    cloudbigquery.NullFloat64 `bigquery:"hold_rate"`
		CTR         cloudbigquery.NullFloat64 `bigquery:"ctr"`
		WebsiteCTR  cloudbigquery.NullFloat64 `bigquery:"website_ctr"`
		ConnectRate cloudbigquery.NullFloat64 `bigquery:"connect_rate"`
		CPM         cloudbigquery.NullFloat64 `bigquery:"cpm"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return &types.Averages{}, nil
		}
		return nil, fmt.Errorf("reading averages row: %w", err)
	}

	return &types.Averages{
		Hook:        nullToPtr(row.Hook),
		HoldRate:    nullToPtr(row.HoldRate),
		CTR:         nullToPtr(row.CTR),
		WebsiteCTR:  nullToPtr(row.WebsiteCTR),
		ConnectRate: nullToPtr(row.ConnectRate),
		CPM:         nullToPtr(row.CPM),
	}, nil
}

func (s *averagesService) queryPerAction(ctx context.Context, params []cloudbigquery.QueryParameter) (map[string]types.ActionAverages, error) {
	iter, err := s.client.Query(ctx, fmt.Sprintf(actionAveragesSQL, s.tableRef), params)
	if err != nil {
		return nil, fmt.Errorf("query per-action averages: %w", err)
	}

	out := make(map[string]types.ActionAverages)
	for {
		var row struct {
			ActionType string                    `bigquery:"action_type"`
			CPR        cloudbigquery.NullFloat64 `bigquery:"cpr"`
			PageConv   cloudbigquery.NullFloat64 `bigquery:"page_conv"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading per-action averages row: %w", err)
		}
		if row.ActionType == "" {
			continue
		}
		out[row.ActionType] = types.ActionAverages{
			CPR:      nullToPtr(row.CPR),
			PageConv: nullToPtr(row.PageConv),
		}
	}
	return out, nil
}

func nullToPtr(v cloudbigquery.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
