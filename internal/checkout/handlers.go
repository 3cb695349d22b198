package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
)

// Handler exposes the checkout endpoints.
type Handler struct {
	Svc *Service
}

// Checkout handles POST /api/checkout/{cartID}.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Svc.Checkout(r.Context(), cartID, req)
	if err != nil {
		common.Fail(w, err)
		return
	}
	if result.State == StateAwaitingPayment {
		common.JSON(w, http.StatusOK, map[string]any{"ok": true, "url": result.URL, "reference": result.Reference, "state": result.State})
		return
	}
	common.OK(w, http.StatusOK, result)
}

// Complete handles POST /api/checkout/{cartID}/complete, the success-return
// callback from the hosted payment page.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	result, err := h.Svc.CompleteSuccess(r.Context(), cartID)
	if err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, result)
}

// Reference handles GET /api/checkout/{cartID}/reference.
func (h *Handler) Reference(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	ref, err := h.Svc.Reference(r.Context(), cartID)
	if err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, map[string]any{"reference": ref})
}
