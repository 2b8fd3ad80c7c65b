package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iqstart/eduedu/modules/billing"
	"github.com/iqstart/eduedu/pkg/subscription"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Plans() []subscription.Plan {
	args := m.Called()
	return args.Get(0).([]subscription.Plan)
}

func (m *mockService) Subscription(ctx context.Context, userID string) (*subscription.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Record), args.Error(1)
}

func (m *mockService) InitiateCheckout(ctx context.Context, principal subscription.Principal, planID string) (*subscription.CheckoutSession, error) {
	args := m.Called(ctx, principal, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.CheckoutSession), args.Error(1)
}

func (m *mockService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func authed(r *http.Request) *http.Request {
	principal := subscription.Principal{ID: "u1", Email: "parent@example.com"}
	return r.WithContext(subscription.SetPrincipalToContext(r.Context(), principal))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Webhook(t *testing.T) {
	t.Parallel()

	t.Run("acknowledges a processed event", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("HandleWebhook", mock.Anything, []byte(`{"id":"evt_1"}`), "t=1,v1=abc").Return(nil)

		r := billing.Router(svc, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(`{"id":"evt_1"}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"received": true}, decodeBody(t, rec))
		svc.AssertExpectations(t)
	})

	t.Run("invalid signature answers 400 so the processor stops retrying", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(subscription.ErrSignatureInvalid)

		r := billing.Router(svc, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid signature", decodeBody(t, rec)["error"])
	})

	t.Run("invalid payload answers 400", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(subscription.ErrInvalidPayload)

		r := billing.Router(svc, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("persistence failure answers 500 so the processor redelivers", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.Join(subscription.ErrPersistenceFailed, errors.New("connection refused")))

		r := billing.Router(svc, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRouter_Checkout(t *testing.T) {
	t.Parallel()

	t.Run("returns the session for an authenticated principal", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("InitiateCheckout", mock.Anything,
			subscription.Principal{ID: "u1", Email: "parent@example.com"}, "premium").
			Return(&subscription.CheckoutSession{ID: "cs_123", URL: "https://checkout.stripe.com/c/pay/cs_123"}, nil)

		r := billing.Router(svc, testLogger())
		req := authed(httptest.NewRequest(http.MethodPost, "/checkout-session", strings.NewReader(`{"plan_id":"premium"}`)))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "cs_123", body["session_id"])
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_123", body["url"])
		svc.AssertExpectations(t)
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		r := billing.Router(svc, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/checkout-session", strings.NewReader(`{"plan_id":"premium"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "InitiateCheckout", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requires plan_id", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		r := billing.Router(svc, testLogger())
		req := authed(httptest.NewRequest(http.MethodPost, "/checkout-session", strings.NewReader(`{}`)))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown plan answers 404", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("InitiateCheckout", mock.Anything, mock.Anything, "enterprise").
			Return(nil, subscription.ErrPlanNotFound)

		r := billing.Router(svc, testLogger())
		req := authed(httptest.NewRequest(http.MethodPost, "/checkout-session", strings.NewReader(`{"plan_id":"enterprise"}`)))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("free plan answers 400", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("InitiateCheckout", mock.Anything, mock.Anything, "free").
			Return(nil, subscription.ErrNoCheckoutRequired)

		r := billing.Router(svc, testLogger())
		req := authed(httptest.NewRequest(http.MethodPost, "/checkout-session", strings.NewReader(`{"plan_id":"free"}`)))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider outage answers 502", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("InitiateCheckout", mock.Anything, mock.Anything, "premium").
			Return(nil, subscription.ErrUpstreamUnavailable)

		r := billing.Router(svc, testLogger())
		req := authed(httptest.NewRequest(http.MethodPost, "/checkout-session", strings.NewReader(`{"plan_id":"premium"}`)))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRouter_Plans(t *testing.T) {
	t.Parallel()

	svc := &mockService{}
	svc.On("Plans").Return([]subscription.Plan{
		{ID: "free", Name: "Free", Period: subscription.PeriodMonth},
		{ID: "premium", Name: "Premium", Period: subscription.PeriodMonth, PriceID: "price_premium_monthly", MostPopular: true},
	})

	r := billing.Router(svc, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	plans, ok := body["plans"].([]any)
	require.True(t, ok)
	require.Len(t, plans, 2)

	premium := plans[1].(map[string]any)
	assert.Equal(t, "premium", premium["id"])
	assert.Equal(t, true, premium["most_popular"])
	// Processor price IDs stay server-side.
	assert.NotContains(t, premium, "PriceID")
	assert.NotContains(t, premium, "price_id")
}

func TestRouter_CurrentSubscription(t *testing.T) {
	t.Parallel()

	t.Run("returns the record", func(t *testing.T) {
		t.Parallel()
		periodEnd := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		svc := &mockService{}
		svc.On("Subscription", mock.Anything, "u1").Return(&subscription.Record{
			UserID:           "u1",
			Status:           subscription.StatusActive,
			Plan:             "price_premium_monthly",
			CurrentPeriodEnd: periodEnd,
		}, nil)

		r := billing.Router(svc, testLogger())
		req := authed(httptest.NewRequest(http.MethodGet, "/subscription", nil))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "u1", body["user_id"])
		assert.Equal(t, "active", body["status"])
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		r := billing.Router(svc, testLogger())
		req := httptest.NewRequest(http.MethodGet, "/subscription", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("no record answers 404", func(t *testing.T) {
		t.Parallel()
		svc := &mockService{}
		svc.On("Subscription", mock.Anything, "u1").Return(nil, subscription.ErrSubscriptionNotFound)

		r := billing.Router(svc, testLogger())
		req := authed(httptest.NewRequest(http.MethodGet, "/subscription", nil))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
