package payment

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
	"github.com/Farwahi/Noor-e-Hadiya/internal/queue"
)

const maxWebhookBody = 1 << 16

// Handler exposes the payment endpoints: manual routing details, direct
// session creation, and the Stripe webhook.
type Handler struct {
	Provider       Provider
	Details        Details
	FrontendOrigin string
	Enqueuer       queue.Enqueuer
	Log            zerolog.Logger
}

// GetDetails handles GET /api/payment-details.
func (h *Handler) GetDetails(w http.ResponseWriter, r *http.Request) {
	common.OK(w, http.StatusOK, h.Details)
}

type createSessionRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// CreateSession handles POST /api/create-checkout-session, the direct
// endpoint the storefront has always called.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if req.Amount <= 0 {
		common.JSONError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if req.Currency == "" {
		req.Currency = "gbp"
	}
	cur, err := money.Parse(req.Currency)
	if err != nil || (cur != money.GBP && cur != money.USD) {
		common.JSONError(w, http.StatusBadRequest, "Invalid currency")
		return
	}

	session, err := h.Provider.CreateSession(r.Context(), SessionRequest{
		Amount:      req.Amount,
		Currency:    cur,
		Description: req.Description,
		SuccessURL:  h.FrontendOrigin + "/checkout?success=1",
		CancelURL:   h.FrontendOrigin + "/checkout?canceled=1",
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("stripe session failed")
		common.JSONError(w, http.StatusInternalServerError, "Stripe session failed")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"ok": true, "url": session.URL})
}

// Webhook handles POST /api/webhook. The body must stay raw for signature
// verification. Responses are 200 unless verification itself fails.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusServiceUnavailable, "Unreadable payload")
		return
	}

	event, err := h.Provider.VerifyWebhook(r, body)
	if err != nil {
		h.Log.Warn().Err(err).Msg("webhook verification failed")
		common.JSONError(w, http.StatusBadRequest, "Webhook verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.Log.Info().Str("session", event.SessionID).Msg("checkout session completed")
		h.enqueueOrderRecord(r, event)
	default:
		h.Log.Debug().Str("type", event.Type).Msg("ignoring webhook event")
	}

	common.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) enqueueOrderRecord(r *http.Request, event Event) {
	if h.Enqueuer.R == nil {
		return
	}
	err := h.Enqueuer.Enqueue(r.Context(), queue.Task{
		Kind:           queue.KindOrderRecord,
		Payload:        event.Raw,
		IdempotencyKey: event.SessionID,
		MaxAttempts:    5,
	})
	if err != nil {
		h.Log.Error().Err(err).Str("session", event.SessionID).Msg("enqueue order record failed")
	}
}
