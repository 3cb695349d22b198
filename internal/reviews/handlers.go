package reviews

import (
	"encoding/json"
	"net/http"

	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
)

// Handler exposes the review endpoints.
type Handler struct {
	Svc *Service
}

// List handles GET /api/reviews.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	revs, err := h.Svc.List(r.Context())
	if err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, revs)
}

type addReviewRequest struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Add handles POST /api/reviews.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rev, err := h.Svc.Add(r.Context(), req.Name, req.Rating, req.Text)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "Please write your review.")
		return
	}
	common.OK(w, http.StatusCreated, rev)
}
