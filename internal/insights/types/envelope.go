package types

import "time"

// SnapshotEnvelope is the Pub/Sub payload carrying one batch of ad-day rows
// exported by the metrics backend.
type SnapshotEnvelope struct {
	EventID    string    `json:"event_id" validate:"required,uuid4"`
	AccountID  string    `json:"account_id" validate:"required"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
	Rows       []AdRow   `json:"rows" validate:"required,min=1,dive"`
}
