package subscription

import (
	"context"
	"time"
)

// PaymentProvider defines the minimal interface to the external payment
// processor. The processor owns subscription truth; this side only initiates
// hosted checkouts and consumes signed webhook events.
//
// Implementations must verify webhook signatures against the raw request
// body before any parsing, and surface failures as ErrSignatureInvalid.
type PaymentProvider interface {
	// CreateCheckoutSession creates a hosted checkout session embedding the
	// user identity as metadata so webhook events can be correlated back to
	// a principal without a round trip.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// GetSubscription fetches the full subscription detail by the
	// processor's subscription reference. Needed because checkout events
	// carry only a summarized view.
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetail, error)

	// ParseWebhook authenticates a raw event payload against its signature
	// header and parses it into a tagged event variant. It never partially
	// processes: a bad signature fails before any payload inspection.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)
}

// CheckoutRequest carries everything the processor needs to open a hosted
// checkout for one principal and one plan.
type CheckoutRequest struct {
	PriceID    string // processor's price identifier
	PlanID     string // catalog identifier, passed through as opaque metadata
	UserID     string
	Email      string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the opaque redirect target returned by the processor.
// The UI exchanges ID with the processor's client library for the hosted
// payment flow.
type CheckoutSession struct {
	ID  string
	URL string
}

// SubscriptionDetail is the processor's full view of one subscription.
type SubscriptionDetail struct {
	ID               string
	UserID           string
	Status           Status
	PriceID          string
	CurrentPeriodEnd time.Time
}

// EventType tags the recognized webhook event variants. Anything the
// processor sends outside this set maps to EventUnrecognized and is
// acknowledged as a no-op.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout_completed"
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
	EventUnrecognized        EventType = "unrecognized"
)

// Event is an authenticated, parsed webhook event. Exactly one of the
// payload fields is set, matching Type:
//
//	EventCheckoutCompleted                      -> Checkout
//	EventSubscriptionUpdated/-Deleted           -> Change
//	EventUnrecognized                           -> neither
type Event struct {
	ID            string    // processor's event ID, used for dedup
	ProviderEvent string    // original processor event name
	Type          EventType
	Checkout      *CheckoutCompleted
	Change        *SubscriptionChange
}

// CheckoutCompleted is the payload of a completed checkout session. It
// carries a summarized view only; handlers fetch the full subscription
// detail before writing state.
type CheckoutCompleted struct {
	SessionID      string
	SubscriptionID string
	UserID         string // resolved from session metadata
}

// SubscriptionChange is the payload of a subscription lifecycle event
// (updated or deleted).
type SubscriptionChange struct {
	SubscriptionID   string
	UserID           string // resolved from subscription metadata
	Status           Status
	PriceID          string
	CurrentPeriodEnd time.Time
}
