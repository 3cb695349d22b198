package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
)

// Handler exposes the public catalogue endpoints.
type Handler struct{}

// List handles GET /api/services.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.OK(w, http.StatusOK, map[string]any{
		"categories": Grouped(),
		"order":      CategoryOrder,
	})
}

// Get handles GET /api/services/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	svc, ok := ByID(id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "Service not found")
		return
	}
	common.OK(w, http.StatusOK, svc)
}
