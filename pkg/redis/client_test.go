package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = "1"
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestCacheRoundTrip(t *testing.T) {
	client := NewWithStore(newFakeStore())
	ctx := context.Background()

	key := client.CacheKey("averages", "act_1:2024-01-01:2024-01-31")
	if key != "ads:cache:averages:act_1:2024-01-01:2024-01-31" {
		t.Fatalf("unexpected cache key %q", key)
	}

	if _, err := client.GetCached(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}

	if err := client.SetCached(ctx, key, `{"cpr":1.5}`, time.Minute); err != nil {
		t.Fatalf("set cached: %v", err)
	}
	val, err := client.GetCached(ctx, key)
	if err != nil {
		t.Fatalf("get cached: %v", err)
	}
	if val != `{"cpr":1.5}` {
		t.Fatalf("unexpected cached value %q", val)
	}
}

func TestSetNXOnlyWritesOnce(t *testing.T) {
	client := NewWithStore(newFakeStore())
	ctx := context.Background()

	key := client.IdempotencyKey("snapshots", "evt-1")
	first, err := client.SetNX(ctx, key, "1", time.Hour)
	if err != nil || !first {
		t.Fatalf("expected first SetNX to win, got %v %v", first, err)
	}
	second, err := client.SetNX(ctx, key, "1", time.Hour)
	if err != nil || second {
		t.Fatalf("expected second SetNX to lose, got %v %v", second, err)
	}
}
