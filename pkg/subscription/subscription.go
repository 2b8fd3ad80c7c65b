package subscription

import "time"

// Record is the durable subscription state for one user. Exactly one record
// exists per user ID; it is created by the first checkout-completion event
// and mutated by every later lifecycle event. A canceled status is a terminal
// value, not a deletion.
type Record struct {
	UserID           string    `json:"user_id"`
	Status           Status    `json:"status"`
	Plan             string    `json:"plan"` // processor-side price ID, not the catalog ID
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsActive reports whether the subscription currently grants paid access.
// Trialing counts as active access.
func (r *Record) IsActive() bool {
	return r.Status == StatusActive || r.Status == StatusTrialing
}

// IsCanceled reports whether the subscription reached its terminal state.
func (r *Record) IsCanceled() bool {
	return r.Status == StatusCanceled
}

// ExpiresAt returns the next renewal/expiry boundary.
func (r *Record) ExpiresAt() time.Time {
	return r.CurrentPeriodEnd
}
