package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/cart"
)

func newCartRouter(store cart.Store) *chi.Mux {
	h := &cart.Handler{
		Store:    store,
		Builder:  &cart.DonationBuilder{Now: fixedNow},
		Validate: validator.New(),
	}
	r := chi.NewRouter()
	r.Post("/api/cart/{id}/items", h.AddItem)
	r.Get("/api/cart/{id}", h.Get)
	r.Delete("/api/cart/{id}", h.Clear)
	return r
}

type cartResponse struct {
	OK   bool `json:"ok"`
	Data struct {
		Items  []cart.Line `json:"items"`
		Totals cart.Totals `json:"totals"`
	} `json:"data"`
}

func TestAddServiceAndTotals(t *testing.T) {
	r := newCartRouter(cart.NewMemoryStore())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{"serviceId":"salawat"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Adding the same service again is a second entry.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{"serviceId":"salawat"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 2)
	require.Equal(t, 4.0, body.Data.Totals.GBP)
	require.Equal(t, 1200.0, body.Data.Totals.PKR)
	require.Equal(t, 6.0, body.Data.Totals.USD)
}

func TestAddUnknownService(t *testing.T) {
	r := newCartRouter(cart.NewMemoryStore())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{"serviceId":"nope"}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddObligationDonation(t *testing.T) {
	r := newCartRouter(cart.NewMemoryStore())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{"donation":{"kind":"obligation","slug":"zakat","name":"Zakat Payment","amount":125,"currency":"GBP"}}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	require.Equal(t, cart.KindDonation, body.Data.Items[0].Kind)
	require.Equal(t, 125.0, body.Data.Totals.GBP)
}

func TestAddDonationValidation(t *testing.T) {
	r := newCartRouter(cart.NewMemoryStore())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{"donation":{"kind":"obligation","amount":0,"currency":"GBP"}}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{"donation":{"kind":"obligation","amount":10,"currency":"JPY"}}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCart(t *testing.T) {
	store := cart.NewMemoryStore()
	r := newCartRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/c1/items",
		strings.NewReader(`{"serviceId":"salawat"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart/c1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart/c1", nil))
	var body cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Empty(t, body.Data.Items)
}
