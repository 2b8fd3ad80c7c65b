package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator remembers processed webhook event IDs so redeliveries can be
// acknowledged without re-running handlers. It is strictly best-effort: the
// handlers are idempotent on their own, so a lost or unavailable dedup store
// only costs redundant work, never correctness.
type Deduplicator interface {
	// Seen reports whether the event ID was already processed.
	Seen(ctx context.Context, eventID string) (bool, error)

	// Mark records the event ID as processed.
	Mark(ctx context.Context, eventID string) error
}

// RedisDeduplicator keeps processed event IDs in Redis with a TTL.
// Stripe retries deliveries for up to three days, so the default TTL covers
// the whole redelivery window.
type RedisDeduplicator struct {
	client redis.UniversalClient
	ttl    time.Duration
}

const defaultDedupTTL = 72 * time.Hour

// NewRedisDeduplicator creates a Redis-backed deduplicator.
// A non-positive ttl falls back to the default retention window.
func NewRedisDeduplicator(client redis.UniversalClient, ttl time.Duration) *RedisDeduplicator {
	if client == nil {
		panic("subscription: redis client is required")
	}
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &RedisDeduplicator{client: client, ttl: ttl}
}

func (d *RedisDeduplicator) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(eventID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *RedisDeduplicator) Mark(ctx context.Context, eventID string) error {
	return d.client.Set(ctx, dedupKey(eventID), 1, d.ttl).Err()
}

func dedupKey(eventID string) string {
	return "subscription:webhook:" + eventID
}

// MemoryDeduplicator is an in-process Deduplicator for tests and single
// instance deployments.
type MemoryDeduplicator struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

// NewMemoryDeduplicator creates an in-memory deduplicator.
func NewMemoryDeduplicator(ttl time.Duration) *MemoryDeduplicator {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &MemoryDeduplicator{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

func (d *MemoryDeduplicator) Seen(ctx context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiry, ok := d.seen[eventID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(d.seen, eventID)
		return false, nil
	}
	return true, nil
}

func (d *MemoryDeduplicator) Mark(ctx context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	// Opportunistic pruning keeps the map from growing without bound.
	for id, expiry := range d.seen {
		if now.After(expiry) {
			delete(d.seen, id)
		}
	}
	d.seen[eventID] = now.Add(d.ttl)
	return nil
}
