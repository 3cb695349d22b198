package metals

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

// Handler exposes the spot-price endpoint.
type Handler struct {
	Svc *Service
}

// PerGram handles GET /api/metals. The currency defaults to GBP.
func (h *Handler) PerGram(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("currency")
	if raw == "" {
		raw = string(money.GBP)
	}
	cur, err := money.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "Unsupported currency")
		return
	}

	result, err := h.Svc.PerGram(r.Context(), cur)
	if err != nil {
		var exhausted *ExhaustedError
		if errors.As(err, &exhausted) {
			common.JSONError(w, http.StatusInternalServerError, "Metals sources failed: "+strings.Join(exhausted.Attempted, ", "))
			return
		}
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, result)
}
