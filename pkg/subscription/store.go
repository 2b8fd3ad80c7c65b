package subscription

import "context"

// Store defines subscription persistence. Each user has exactly one record,
// so UserID serves as the primary key.
//
// Upsert must be atomic per key: webhook deliveries for the same user may
// race, and the store's conditional write is the only serialization point.
// No multi-step read-modify-write is ever required by callers.
type Store interface {
	// Get retrieves a record by user ID.
	// Returns ErrSubscriptionNotFound if no record exists.
	Get(ctx context.Context, userID string) (*Record, error)

	// Upsert inserts the record, or updates status, plan, and period end of
	// the existing row keyed by UserID. CreatedAt of an existing row is
	// preserved.
	Upsert(ctx context.Context, record *Record) error
}
