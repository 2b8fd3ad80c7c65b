package billing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/iqstart/eduedu/pkg/subscription"
)

// signatureHeader is the header Stripe signs each delivery with.
const signatureHeader = "Stripe-Signature"

// maxWebhookBody bounds the raw payload read. Stripe events are a few KB;
// anything near the limit is not a legitimate delivery.
const maxWebhookBody = 1 << 20

type handlers struct {
	svc Service
	log *slog.Logger
}

// webhook ingests one processor delivery. The response class is what drives
// the processor's retry policy: client errors (bad signature, bad payload)
// are final because redelivery can never make them valid, while
// post-authentication failures answer with a server error so the processor
// redelivers the whole event later.
func (h *handlers) webhook(w http.ResponseWriter, r *http.Request) {
	// The raw body goes to signature verification untouched; re-encoding a
	// parsed body is not byte-identical to what the processor signed.
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable payload"})
		return
	}

	err = h.svc.HandleWebhook(r.Context(), payload, r.Header.Get(signatureHeader))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, receivedResponse{Received: true})

	case errors.Is(err, subscription.ErrSignatureInvalid):
		// Worth a log line: either a misconfigured secret or someone
		// probing the endpoint.
		h.log.WarnContext(r.Context(), "webhook rejected: invalid signature",
			slog.Any("error", err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid signature"})

	case errors.Is(err, subscription.ErrInvalidPayload):
		h.log.WarnContext(r.Context(), "webhook rejected: invalid payload",
			slog.Any("error", err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})

	default:
		h.log.ErrorContext(r.Context(), "webhook handling failed",
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "event handling failed"})
	}
}

type checkoutRequest struct {
	PlanID string `json:"plan_id"`
}

type checkoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url,omitempty"`
}

func (h *handlers) checkout(w http.ResponseWriter, r *http.Request) {
	principal, ok := subscription.GetPrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "plan_id is required"})
		return
	}

	session, err := h.svc.InitiateCheckout(r.Context(), principal, req.PlanID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, checkoutResponse{SessionID: session.ID, URL: session.URL})

	case errors.Is(err, subscription.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})

	case errors.Is(err, subscription.ErrPlanNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown plan"})

	case errors.Is(err, subscription.ErrNoCheckoutRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "plan requires no payment"})

	case errors.Is(err, subscription.ErrUpstreamUnavailable):
		h.log.ErrorContext(r.Context(), "checkout initiation failed",
			slog.String("plan_id", req.PlanID), slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "payment provider unavailable, try again"})

	default:
		h.log.ErrorContext(r.Context(), "checkout initiation failed",
			slog.String("plan_id", req.PlanID), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *handlers) plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"plans": h.svc.Plans()})
}

func (h *handlers) currentSubscription(w http.ResponseWriter, r *http.Request) {
	principal, ok := subscription.GetPrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	record, err := h.svc.Subscription(r.Context(), principal.ID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, record)

	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no subscription"})

	default:
		h.log.ErrorContext(r.Context(), "subscription lookup failed",
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

type receivedResponse struct {
	Received bool `json:"received"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
