package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Service ties the plan catalog, payment provider, and subscription store
// together. It owns the two entry points of the synchronization core:
// initiating checkouts and applying webhook events.
//
// The service never writes subscription state on the checkout path. State is
// written exclusively by the webhook path, after the processor has confirmed
// payment; a client-trusted "I paid" signal is never enough.
type Service struct {
	catalog  *Catalog
	provider PaymentProvider
	store    Store

	dedup           Deduplicator
	log             *slog.Logger
	checkoutTimeout time.Duration
}

// NewService creates a Service with the given dependencies.
// Panics if catalog, provider, or store is nil to fail fast during
// initialization.
func NewService(catalog *Catalog, provider PaymentProvider, store Store, opts ...ServiceOption) *Service {
	if catalog == nil {
		panic("subscription: catalog is required")
	}
	if provider == nil {
		panic("subscription: payment provider is required")
	}
	if store == nil {
		panic("subscription: store is required")
	}

	s := &Service{
		catalog:         catalog,
		provider:        provider,
		store:           store,
		log:             slog.New(discardHandler{}),
		checkoutTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Plans returns the catalog plans in display order.
func (s *Service) Plans() []Plan {
	return s.catalog.List()
}

// Subscription returns the stored subscription record for a user.
// Returns ErrSubscriptionNotFound for users who never completed a checkout.
func (s *Service) Subscription(ctx context.Context, userID string) (*Record, error) {
	return s.store.Get(ctx, userID)
}

// InitiateCheckout requests a processor-hosted checkout session for the
// given principal and catalog plan. The returned session is the opaque
// redirect target the UI hands to the processor's client library.
//
// The outbound call runs under a bounded timeout and is not retried here;
// the user can simply re-click.
func (s *Service) InitiateCheckout(ctx context.Context, principal Principal, planID string) (*CheckoutSession, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	plan, err := s.catalog.Get(planID)
	if err != nil {
		return nil, err
	}
	if plan.IsFree() {
		return nil, ErrNoCheckoutRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.checkoutTimeout)
	defer cancel()

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		PriceID: plan.PriceID,
		PlanID:  plan.ID,
		UserID:  principal.ID,
		Email:   principal.Email,
	})
	if err != nil {
		if errors.Is(err, ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, errors.Join(ErrUpstreamUnavailable, err)
	}

	s.log.InfoContext(ctx, "checkout session created",
		slog.String("user_id", principal.ID),
		slog.String("plan_id", plan.ID),
		slog.String("session_id", session.ID))

	return session, nil
}

// HandleWebhook authenticates and applies one webhook delivery. Signature
// and payload failures are surfaced as-is so the HTTP edge can map them to a
// client-error class; post-authentication failures carry ErrPersistenceFailed
// or ErrUpstreamUnavailable so the edge answers with a server-error class and
// the processor redelivers.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	if s.dedup != nil && event.ID != "" {
		seen, err := s.dedup.Seen(ctx, event.ID)
		if err != nil {
			// Dedup is best-effort; handlers are idempotent anyway.
			s.log.WarnContext(ctx, "event dedup lookup failed",
				slog.String("event_id", event.ID), slog.Any("error", err))
		} else if seen {
			s.log.DebugContext(ctx, "duplicate event acknowledged",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.ProviderEvent))
			return nil
		}
	}

	if err := s.applyEvent(ctx, event); err != nil {
		return err
	}

	if s.dedup != nil && event.ID != "" {
		if err := s.dedup.Mark(ctx, event.ID); err != nil {
			s.log.WarnContext(ctx, "event dedup mark failed",
				slog.String("event_id", event.ID), slog.Any("error", err))
		}
	}

	return nil
}

// applyEvent projects one authenticated event onto the store. Transitions
// are not validated against a predecessor graph: the processor is the source
// of truth for what is legal, this side only projects the declared state.
//
// Every recognized handler upserts. Events for the same user may arrive out
// of order, so a lifecycle event landing before its checkout-completion
// event must still persist; the record converges once all events are
// applied.
func (s *Service) applyEvent(ctx context.Context, event *Event) error {
	switch event.Type {
	case EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, event)

	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		return s.applySubscriptionChange(ctx, event)

	default:
		s.log.DebugContext(ctx, "unrecognized event acknowledged",
			slog.String("event_type", event.ProviderEvent))
		return nil
	}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, event *Event) error {
	checkout := event.Checkout
	if checkout == nil || checkout.UserID == "" {
		return fmt.Errorf("%w: checkout session missing user metadata", ErrInvalidPayload)
	}
	if checkout.SubscriptionID == "" {
		return fmt.Errorf("%w: checkout session missing subscription reference", ErrInvalidPayload)
	}

	// The checkout event carries a summarized view; the full detail comes
	// from the processor.
	detail, err := s.provider.GetSubscription(ctx, checkout.SubscriptionID)
	if err != nil {
		return err
	}

	record := &Record{
		UserID:           checkout.UserID,
		Status:           detail.Status,
		Plan:             detail.PriceID,
		CurrentPeriodEnd: detail.CurrentPeriodEnd,
	}
	if err := s.store.Upsert(ctx, record); err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}

	s.log.InfoContext(ctx, "subscription record created",
		slog.String("user_id", record.UserID),
		slog.String("status", string(record.Status)),
		slog.String("plan", record.Plan))
	return nil
}

func (s *Service) applySubscriptionChange(ctx context.Context, event *Event) error {
	change := event.Change
	if change == nil || change.UserID == "" {
		return fmt.Errorf("%w: subscription event missing user metadata", ErrInvalidPayload)
	}

	record := &Record{
		UserID:           change.UserID,
		Status:           change.Status,
		Plan:             change.PriceID,
		CurrentPeriodEnd: change.CurrentPeriodEnd,
	}
	if err := s.store.Upsert(ctx, record); err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}

	s.log.InfoContext(ctx, "subscription record updated",
		slog.String("user_id", record.UserID),
		slog.String("status", string(record.Status)),
		slog.String("event_type", event.ProviderEvent))
	return nil
}

// discardHandler drops all records; used when no logger is configured.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
