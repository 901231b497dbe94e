package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/adscope/adscope-backend/internal/insights"
	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/db/models"
)

type snapshotStore interface {
	Transaction(ctx context.Context, fn func(insights.Repository) error) error
}

// SnapshotHandler persists snapshot envelopes into the metrics tables.
type SnapshotHandler struct {
	store snapshotStore
}

// NewSnapshotHandler builds a handler writing through the insights repository.
func NewSnapshotHandler(store snapshotStore) (*SnapshotHandler, error) {
	if store == nil {
		return nil, errors.New("snapshot store is required")
	}
	return &SnapshotHandler{store: store}, nil
}

// Handle upserts every day row and rewrites the leadscore sequences the
// envelope carries, all inside one transaction so a partly-written snapshot
// never survives a failure. Rows without a date are rejected before anything
// writes.
func (h *SnapshotHandler) Handle(ctx context.Context, envelope types.SnapshotEnvelope) error {
	dayRows := make([]models.AdMetricDaily, 0, len(envelope.Rows))
	for _, row := range envelope.Rows {
		if row.Date == "" {
			return fmt.Errorf("row for ad %s has no date", row.AdID)
		}
		if row.AdID == "" {
			return errors.New("row has no ad id")
		}
		dayRows = append(dayRows, insights.DayModelFromRow(envelope.AccountID, row))
	}

	return h.store.Transaction(ctx, func(repo insights.Repository) error {
		if err := repo.UpsertDailyMetrics(ctx, dayRows); err != nil {
			return fmt.Errorf("upserting daily metrics: %w", err)
		}
		for _, row := range envelope.Rows {
			if row.LeadscoreValues == nil {
				continue
			}
			scores := types.NormalizeScores(row.LeadscoreValues)
			if err := repo.ReplaceLeadscores(ctx, envelope.AccountID, row.AdID, scores); err != nil {
				return fmt.Errorf("replacing leadscores for ad %s: %w", row.AdID, err)
			}
		}
		return nil
	})
}
