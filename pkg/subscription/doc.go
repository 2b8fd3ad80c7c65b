// Package subscription keeps persisted subscription records synchronized with an
// external payment processor.
//
// The processor owns subscription truth. This package initiates hosted
// checkout sessions and consumes the processor's signed webhook events,
// projecting each event's declared state onto a one-record-per-user store.
//
// Delivery is at-least-once and unordered, so every recognized handler is an
// idempotent upsert: re-delivering an event, or delivering a lifecycle event
// before its checkout-completion event, converges to the same stored state.
// The store's atomic per-key upsert is the only serialization point; no
// locking happens here.
//
// Basic wiring:
//
//	catalog, _ := subscription.NewCatalog(subscription.DefaultPlans())
//	provider, _ := subscription.NewStripeProvider(stripeCfg)
//	svc := subscription.NewService(catalog, provider, subscription.NewPgStore(pool),
//		subscription.WithLogger(log),
//		subscription.WithDeduplicator(subscription.NewRedisDeduplicator(rdb, 0)),
//	)
//
// Checkout never writes the store; only the webhook path does, after the
// processor has confirmed payment.
package subscription
