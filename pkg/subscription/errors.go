package subscription

import "errors"

var (
	ErrNotAuthenticated   = errors.New("checkout requires an authenticated principal")
	ErrPlanNotFound       = errors.New("billing plan not found")
	ErrNoCheckoutRequired = errors.New("free plan requires no checkout")

	ErrUpstreamUnavailable = errors.New("payment processor unavailable")
	ErrSignatureInvalid    = errors.New("webhook signature verification failed")
	ErrInvalidPayload      = errors.New("invalid webhook payload")
	ErrPersistenceFailed   = errors.New("failed to persist subscription record")

	ErrSubscriptionNotFound = errors.New("subscription record not found")

	ErrInvalidCatalog = errors.New("invalid plan catalog configuration")

	// Provider construction errors
	ErrMissingAPIKey        = errors.New("processor API key is required")
	ErrMissingWebhookSecret = errors.New("webhook signing secret is required")
)
