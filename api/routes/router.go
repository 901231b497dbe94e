package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adscope/adscope-backend/api/controllers"
	insightscontrollers "github.com/adscope/adscope-backend/api/controllers/insights"
	"github.com/adscope/adscope-backend/api/middleware"
	"github.com/adscope/adscope-backend/internal/insights"
	insightsworker "github.com/adscope/adscope-backend/internal/insights/worker"
	"github.com/adscope/adscope-backend/pkg/logger"
	"github.com/adscope/adscope-backend/pkg/metrics"
)

// Dependencies carries everything the router wires into handlers. Health
// pingers may be nil when the deployment does not carry that backend.
type Dependencies struct {
	Logger          *logger.Logger
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsRegistry *prometheus.Registry
	InsightsService insights.Service
	SnapshotHandler insightsworker.Handler

	DB       controllers.Pinger
	Redis    controllers.Pinger
	BigQuery controllers.Pinger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive)
		r.Get("/ready", controllers.HealthReady(deps.Logger, map[string]controllers.Pinger{
			"db":       deps.DB,
			"redis":    deps.Redis,
			"bigquery": deps.BigQuery,
		}))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/insights", func(r chi.Router) {
		r.Get("/rankings", insightscontrollers.Rankings(deps.InsightsService, deps.Logger))
		r.Get("/gems", insightscontrollers.Gems(deps.InsightsService, deps.Logger))
		r.Get("/opportunities", insightscontrollers.Opportunities(deps.InsightsService, deps.Logger))
		r.Get("/gold-buckets", insightscontrollers.GoldBuckets(deps.InsightsService, deps.Logger))
		r.Get("/daily-series", insightscontrollers.DailySeries(deps.InsightsService, deps.Logger))
		r.Get("/mql", insightscontrollers.MQL(deps.InsightsService, deps.Logger))
		if deps.SnapshotHandler != nil {
			r.Post("/snapshots", insightscontrollers.IngestSnapshot(deps.SnapshotHandler, deps.Logger))
		}
	})

	return r
}
