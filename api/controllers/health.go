package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/adscope/adscope-backend/api/responses"
	"github.com/adscope/adscope-backend/pkg/logger"
)

// Pinger is satisfied by the db, redis and bigquery clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

// HealthReady reports per-dependency status. A nil dependency is
// reported as skipped rather than failing the probe, since worker and
// api deployments wire different subsets.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		healthy := true
		status := make(map[string]string, len(deps))
		for name, dep := range deps {
			if dep == nil {
				status[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				logg.Warn(logg.WithFields(ctx, map[string]any{"dependency": name, "error": err.Error()}), "health.dependency_down")
				status[name] = "down"
				healthy = false
				continue
			}
			status[name] = "ok"
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, code, status)
	}
}
