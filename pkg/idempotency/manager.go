package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adscope/adscope-backend/pkg/redis"
)

// Manager tracks processed event IDs per consumer using Redis SETNX with a TTL.
// Keys follow the `ads:idempotency:evt:processed:<consumer>:<event_id>` pattern.
type Manager struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewManager builds an idempotency guard that marks events as processed for the given TTL.
func NewManager(store redis.IdempotencyStore, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// CheckAndMarkProcessed marks the event as processed and reports whether it was
// already seen by this consumer.
func (m *Manager) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	if consumer == "" {
		return false, errors.New("consumer name is required")
	}
	if eventID == uuid.Nil {
		return false, errors.New("event id is required")
	}

	key := m.key(consumer, eventID)
	written, err := m.store.SetNX(ctx, key, "1", m.ttl)
	if err != nil {
		return false, fmt.Errorf("marking event processed: %w", err)
	}
	return !written, nil
}

// Delete unmarks the event so a failed handler can retry it later.
func (m *Manager) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	if consumer == "" || eventID == uuid.Nil {
		return nil
	}
	return m.store.Del(ctx, m.key(consumer, eventID))
}

func (m *Manager) key(consumer string, eventID uuid.UUID) string {
	return m.store.IdempotencyKey("evt:processed:"+consumer, eventID.String())
}
