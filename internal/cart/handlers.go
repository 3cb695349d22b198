package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Farwahi/Noor-e-Hadiya/internal/catalog"
	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

// Handler exposes the cart endpoints.
type Handler struct {
	Store    Store
	Builder  *DonationBuilder
	Validate *validator.Validate
}

type donationRequest struct {
	Kind     string  `json:"kind" validate:"required,oneof=sadaqah obligation additional"`
	Name     string  `json:"name,omitempty"`
	Slug     string  `json:"slug,omitempty"`
	BaseID   string  `json:"baseId,omitempty"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required"`
	Location string  `json:"location,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

type addItemRequest struct {
	ServiceID string           `json:"serviceId,omitempty"`
	Quantity  int              `json:"quantity,omitempty"`
	Donation  *donationRequest `json:"donation,omitempty"`
}

// AddItem handles POST /api/cart/{id}/items. The body names either a
// catalogued service or a donation payload.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case req.Donation != nil:
		h.addDonation(w, r, cartID, req.Donation)
	case req.ServiceID != "":
		h.addService(w, r, cartID, req.ServiceID, req.Quantity)
	default:
		common.JSONError(w, http.StatusBadRequest, "Missing serviceId or donation")
	}
}

func (h *Handler) addService(w http.ResponseWriter, r *http.Request, cartID, serviceID string, qty int) {
	svc, ok := catalog.ByID(serviceID)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "Service not found")
		return
	}
	if qty < 1 {
		qty = 1
	}
	line := ServiceLine(svc)
	lines := make([]Line, 0, qty)
	for i := 0; i < qty; i++ {
		lines = append(lines, line)
	}
	if err := h.Store.Add(r.Context(), cartID, lines...); err != nil {
		common.Fail(w, err)
		return
	}
	h.respondCart(w, r, cartID, http.StatusCreated)
}

func (h *Handler) addDonation(w http.ResponseWriter, r *http.Request, cartID string, req *donationRequest) {
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "Invalid donation payload")
			return
		}
	}
	cur, err := money.Parse(req.Currency)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "Unsupported currency")
		return
	}

	var line Line
	switch req.Kind {
	case "sadaqah":
		line, err = h.Builder.Sadaqah(r.Context(), req.Amount, cur)
	case "obligation":
		slug := req.Slug
		if slug == "" {
			slug = "donation"
		}
		name := req.Name
		if name == "" {
			name = "Donation"
		}
		line, err = h.Builder.Obligation(slug, name, req.Amount, cur)
	case "additional":
		base, ok := catalog.ByID(req.BaseID)
		if !ok {
			common.JSONError(w, http.StatusNotFound, "Service not found")
			return
		}
		name := req.Name
		if name == "" {
			name = base.Name
		}
		line, err = h.Builder.Additional(base.ID, name, req.Location, req.Notes, req.Amount, cur)
	default:
		common.JSONError(w, http.StatusBadRequest, "Unknown donation kind")
		return
	}
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	if err := h.Store.Add(r.Context(), cartID, line); err != nil {
		common.Fail(w, err)
		return
	}
	h.respondCart(w, r, cartID, http.StatusCreated)
}

// Get handles GET /api/cart/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

// Clear handles DELETE /api/cart/{id}.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "id")
	if err := h.Store.Clear(r.Context(), cartID); err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, map[string]any{"cleared": true})
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, cartID string, status int) {
	lines, err := h.Store.Get(r.Context(), cartID)
	if err != nil {
		common.Fail(w, err)
		return
	}
	if lines == nil {
		lines = []Line{}
	}
	common.OK(w, status, map[string]any{
		"items":  lines,
		"totals": Total(lines),
	})
}

// ServiceLine converts a catalogue entry into a cart line.
func ServiceLine(svc catalog.Service) Line {
	return Line{
		Kind:       KindService,
		ID:         svc.ID,
		Name:       svc.Name,
		CountLabel: svc.CountLabel,
		Category:   svc.Category,
		Icon:       svc.Icon,
		PriceGBP:   ptr(svc.PriceGBP),
		PricePKR:   ptr(svc.PricePKR),
		PriceUSD:   ptr(svc.PriceUSD),
	}
}
