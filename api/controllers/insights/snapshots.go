package insights

import (
	"net/http"

	"github.com/adscope/adscope-backend/api/responses"
	"github.com/adscope/adscope-backend/api/validators"
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/internal/insights/worker"
	pkgerrors "github.com/adscope/adscope-backend/pkg/errors"
	"github.com/adscope/adscope-backend/pkg/logger"
)

// IngestSnapshot accepts a snapshot envelope over HTTP, for backfills and
// deployments without Pub/Sub. The same handler the worker uses persists the
// rows; idempotency is the caller's responsibility on this path.
func IngestSnapshot(handler worker.Handler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var envelope types.SnapshotEnvelope
		if err := validators.DecodeJSONBody(r, &envelope); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithAccountID(ctx, envelope.AccountID)
		}
		if err := handler.Handle(ctx, envelope); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting snapshot"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
			"event_id": envelope.EventID,
			"rows":     len(envelope.Rows),
		})
	}
}
