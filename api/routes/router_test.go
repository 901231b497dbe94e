package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/logger"
	"github.com/adscope/adscope-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubInsightsService struct{}

func (stubInsightsService) Rankings(context.Context, types.RankingsRequest) (*types.RankingsResponse, error) {
	return &types.RankingsResponse{Ranks: types.MetricRanks{}}, nil
}

func (stubInsightsService) Gems(context.Context, types.GemsRequest) (*types.GemsResponse, error) {
	return &types.GemsResponse{}, nil
}

func (stubInsightsService) Opportunities(context.Context, types.OpportunitiesRequest) (*types.OpportunitiesResponse, error) {
	return &types.OpportunitiesResponse{}, nil
}

func (stubInsightsService) GoldBuckets(context.Context, types.GoldBucketsRequest) (*types.GoldBucketsResponse, error) {
	return &types.GoldBucketsResponse{}, nil
}

func (stubInsightsService) DailySeries(context.Context, types.DailySeriesRequest) (*types.DailySeries, error) {
	return &types.DailySeries{}, nil
}

func (stubInsightsService) MQLSummary(context.Context, types.MQLRequest) (*types.MQLResponse, error) {
	return &types.MQLResponse{}, nil
}

type stubSnapshotHandler struct{}

func (stubSnapshotHandler) Handle(context.Context, types.SnapshotEnvelope) error {
	return nil
}

func testRouter() http.Handler {
	registry := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Logger:          logger.New(logger.Options{ServiceName: "test"}),
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
		MetricsRegistry: registry,
		InsightsService: stubInsightsService{},
		SnapshotHandler: stubSnapshotHandler{},
		DB:              stubPinger{},
		Redis:           stubPinger{},
	})
}

func TestHealthRoutes(t *testing.T) {
	router := testRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("live probe returned %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("ready probe returned %d", resp.Code)
	}
	// bigquery pinger is nil in this wiring and must report as skipped,
	// not fail the probe
	if !strings.Contains(resp.Body.String(), `"bigquery":"skipped"`) {
		t.Fatalf("expected bigquery skipped, got %s", resp.Body.String())
	}
}

func TestInsightsRoutesAreMounted(t *testing.T) {
	router := testRouter()

	paths := []string{
		"/api/v1/insights/rankings?account_id=act-1&from=2024-01-01&to=2024-01-31",
		"/api/v1/insights/gems?account_id=act-1&from=2024-01-01&to=2024-01-31&metric=hook",
		"/api/v1/insights/opportunities?account_id=act-1&from=2024-01-01&to=2024-01-31",
		"/api/v1/insights/gold-buckets?account_id=act-1&from=2024-01-01&to=2024-01-31",
		"/api/v1/insights/daily-series?account_id=act-1&end_date=2024-01-19",
		"/api/v1/insights/mql?account_id=act-1&from=2024-01-01&to=2024-01-31",
	}
	for _, path := range paths {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s returned %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestSnapshotIngestRouteMounted(t *testing.T) {
	router := testRouter()

	body := strings.NewReader(`{
		"event_id": "7b4443a7-6014-4a8f-8d15-4ef9ba00dc74",
		"account_id": "act-1",
		"occurred_at": "2024-01-19T10:00:00Z",
		"rows": [{"ad_id": "ad-1", "date": "2024-01-19", "impressions": 100}]
	}`)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/insights/snapshots", body))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("snapshot ingest returned %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := testRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics endpoint returned %d", resp.Code)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := testRouter()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
