package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Metadata keys stamped onto checkout sessions and subscriptions at checkout
// creation, and read back from every webhook event. The subscription copy is
// what lets lifecycle events be correlated to a user without a round trip.
const (
	metadataUserID = "user_id"
	metadataEmail  = "email"
	metadataPlanID = "plan_id"
)

// StripeConfig holds configuration for the Stripe payment provider.
type StripeConfig struct {
	SecretKey     string        `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret string        `env:"STRIPE_WEBHOOK_SECRET,required"`
	SuccessURL    string        `env:"STRIPE_SUCCESS_URL" envDefault:"http://localhost:5173/dashboard?checkout=success"`
	CancelURL     string        `env:"STRIPE_CANCEL_URL" envDefault:"http://localhost:5173/subscription"`
	Timeout       time.Duration `env:"STRIPE_TIMEOUT" envDefault:"10s"`
}

// StripeProvider implements PaymentProvider for Stripe.
type StripeProvider struct {
	api    *client.API
	config StripeConfig
}

// NewStripeProvider creates a new Stripe payment provider.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	return NewStripeProviderWithBackends(config, nil)
}

// NewStripeProviderWithBackends creates a provider with custom API backends.
// Tests use this to point the SDK at a local stub server.
func NewStripeProviderWithBackends(config StripeConfig, backends *stripe.Backends) (*StripeProvider, error) {
	if config.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	api := &client.API{}
	api.Init(config.SecretKey, backends)

	return &StripeProvider{
		api:    api,
		config: config,
	}, nil
}

// CreateCheckoutSession creates a Stripe-hosted checkout session in
// subscription mode. The user identity goes into metadata on both the
// session and the subscription it will create.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceID == "" {
		return nil, errors.New("price ID is required")
	}
	if req.UserID == "" {
		return nil, errors.New("user ID is required")
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = p.config.SuccessURL
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = p.config.CancelURL
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				metadataUserID: req.UserID,
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, req.UserID)
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
		params.AddMetadata(metadataEmail, req.Email)
	}
	if req.PlanID != "" {
		// Catalog ID travels as opaque metadata only; Stripe never
		// interprets it.
		params.AddMetadata(metadataPlanID, req.PlanID)
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.Join(ErrUpstreamUnavailable, err)
	}

	return &CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}

// GetSubscription fetches the full subscription detail from Stripe.
func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetail, error) {
	if subscriptionID == "" {
		return nil, errors.New("subscription ID is required")
	}

	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, errors.Join(ErrUpstreamUnavailable, err)
	}

	return newSubscriptionDetail(sub), nil
}

// ParseWebhook authenticates a raw webhook payload against the
// stripe-signature header and parses it into a tagged event variant.
//
// Verification runs against the raw, unparsed body: re-encoding is not
// byte-identical to what Stripe signed, so the payload must reach this
// method untouched. A missing signature header is invalid, never "unsigned,
// trust anyway".
func (p *StripeProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: missing signature header", ErrSignatureInvalid)
	}

	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signature, p.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errors.Join(ErrSignatureInvalid, err)
	}

	event := &Event{
		ID:            stripeEvent.ID,
		ProviderEvent: string(stripeEvent.Type),
	}

	switch stripeEvent.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return nil, errors.Join(ErrInvalidPayload, err)
		}

		event.Type = EventCheckoutCompleted
		event.Checkout = &CheckoutCompleted{
			SessionID: sess.ID,
			UserID:    sess.Metadata[metadataUserID],
		}
		if sess.Subscription != nil {
			event.Checkout.SubscriptionID = sess.Subscription.ID
		}

	case stripe.EventTypeCustomerSubscriptionUpdated, stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sub); err != nil {
			return nil, errors.Join(ErrInvalidPayload, err)
		}

		if stripeEvent.Type == stripe.EventTypeCustomerSubscriptionDeleted {
			event.Type = EventSubscriptionDeleted
		} else {
			event.Type = EventSubscriptionUpdated
		}
		detail := newSubscriptionDetail(&sub)
		event.Change = &SubscriptionChange{
			SubscriptionID:   detail.ID,
			UserID:           detail.UserID,
			Status:           detail.Status,
			PriceID:          detail.PriceID,
			CurrentPeriodEnd: detail.CurrentPeriodEnd,
		}

	default:
		// Stripe adds event types over time; an unhandled type is
		// irrelevant work, not an error.
		event.Type = EventUnrecognized
	}

	return event, nil
}

func newSubscriptionDetail(sub *stripe.Subscription) *SubscriptionDetail {
	detail := &SubscriptionDetail{
		ID:               sub.ID,
		UserID:           sub.Metadata[metadataUserID],
		Status:           Status(sub.Status),
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		detail.PriceID = sub.Items.Data[0].Price.ID
	}
	return detail
}
