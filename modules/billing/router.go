// Package billing exposes the subscription core over HTTP: the processor's
// webhook endpoint and the thin JSON API the dashboard UI calls.
package billing

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/iqstart/eduedu/pkg/subscription"
)

// Service is the part of the subscription core this module needs.
type Service interface {
	Plans() []subscription.Plan
	Subscription(ctx context.Context, userID string) (*subscription.Record, error)
	InitiateCheckout(ctx context.Context, principal subscription.Principal, planID string) (*subscription.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// Router mounts the billing endpoints:
//
//	POST /stripe-webhook    processor event ingestion (signature-gated)
//	POST /checkout-session  checkout initiation for the authenticated principal
//	GET  /plans             plan catalog for pricing pages
//	GET  /subscription      current subscription record for the dashboard
//
// The identity middleware that puts the principal into the request context
// is mounted by the caller; webhook requests carry no principal.
func Router(svc Service, log *slog.Logger) chi.Router {
	h := &handlers{svc: svc, log: log}

	r := chi.NewRouter()
	r.Post("/stripe-webhook", h.webhook)
	r.Post("/checkout-session", h.checkout)
	r.Get("/plans", h.plans)
	r.Get("/subscription", h.currentSubscription)

	return r
}
