package metals_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/metals"
	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

type stubSource struct {
	name  string
	quote metals.Quote
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Quote(ctx context.Context) (metals.Quote, error) {
	s.calls++
	if s.err != nil {
		return metals.Quote{}, s.err
	}
	return s.quote, nil
}

type stubRates struct {
	rate float64
	err  error
}

func (s stubRates) Rate(ctx context.Context, from, to money.Currency) (float64, error) {
	if from == to {
		return 1, nil
	}
	return s.rate, s.err
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestPerGramConversion(t *testing.T) {
	src := &stubSource{name: "a", quote: metals.Quote{GoldPerOunceUSD: 3110.34768, SilverPerOunceUSD: 31.1034768}}
	svc := &metals.Service{
		Sources: []metals.Source{src},
		FX:      stubRates{rate: 0.8},
		Log:     zerolog.Nop(),
		Now:     func() time.Time { return time.Unix(0, 0) },
	}

	got, err := svc.PerGram(context.Background(), money.GBP)
	require.NoError(t, err)
	require.Equal(t, money.GBP, got.Currency)
	require.InDelta(t, 80, got.GoldPerGram, 1e-9)
	require.InDelta(t, 0.8, got.SilverPerGram, 1e-9)
	require.Equal(t, "a", got.Source)

	// USD needs no FX call.
	got, err = svc.PerGram(context.Background(), money.USD)
	require.NoError(t, err)
	require.InDelta(t, 100, got.GoldPerGram, 1e-9)
}

func TestPerGramOrderedFallback(t *testing.T) {
	bad := &stubSource{name: "a", err: errors.New("down")}
	good := &stubSource{name: "b", quote: metals.Quote{GoldPerOunceUSD: 3110, SilverPerOunceUSD: 31}}
	svc := &metals.Service{Sources: []metals.Source{bad, good}, FX: stubRates{rate: 1}, Log: zerolog.Nop()}

	got, err := svc.PerGram(context.Background(), money.USD)
	require.NoError(t, err)
	require.Equal(t, "b", got.Source)
	require.Equal(t, 1, bad.calls)
}

func TestPerGramExhaustion(t *testing.T) {
	a := &stubSource{name: "a", err: errors.New("down")}
	b := &stubSource{name: "b", err: errors.New("down")}
	svc := &metals.Service{Sources: []metals.Source{a, b}, FX: stubRates{rate: 1}, Log: zerolog.Nop()}

	_, err := svc.PerGram(context.Background(), money.USD)
	var exhausted *metals.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, []string{"a", "b"}, exhausted.Attempted)
	require.Equal(t, "metals sources failed: a, b", err.Error())
}

func TestPerGramCached(t *testing.T) {
	src := &stubSource{name: "a", quote: metals.Quote{GoldPerOunceUSD: 3110, SilverPerOunceUSD: 31}}
	svc := &metals.Service{
		Sources: []metals.Source{src},
		FX:      stubRates{rate: 1},
		Redis:   newRedis(t),
		TTL:     time.Minute,
		Log:     zerolog.Nop(),
	}

	_, err := svc.PerGram(context.Background(), money.USD)
	require.NoError(t, err)
	_, err = svc.PerGram(context.Background(), money.USD)
	require.NoError(t, err)
	require.Equal(t, 1, src.calls)
}

func TestHandlerPerGram(t *testing.T) {
	src := &stubSource{name: "a", quote: metals.Quote{GoldPerOunceUSD: 3110, SilverPerOunceUSD: 31}}
	h := &metals.Handler{Svc: &metals.Service{Sources: []metals.Source{src}, FX: stubRates{rate: 1}, Log: zerolog.Nop()}}

	req := httptest.NewRequest(http.MethodGet, "/api/metals?currency=USD", nil)
	rec := httptest.NewRecorder()
	h.PerGram(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		OK   bool           `json:"ok"`
		Data metals.PerGram `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.OK)
	require.Equal(t, money.USD, body.Data.Currency)

	var raw struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, "a", raw.Data["sourceUsed"])

	req = httptest.NewRequest(http.MethodGet, "/api/metals?currency=JPY", nil)
	rec = httptest.NewRecorder()
	h.PerGram(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerExhaustionMessage(t *testing.T) {
	a := &stubSource{name: "goldprice", err: errors.New("down")}
	b := &stubSource{name: "gold-api", err: errors.New("down")}
	h := &metals.Handler{Svc: &metals.Service{Sources: []metals.Source{a, b}, FX: stubRates{rate: 1}, Log: zerolog.Nop()}}

	req := httptest.NewRequest(http.MethodGet, "/api/metals?currency=USD", nil)
	rec := httptest.NewRecorder()
	h.PerGram(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.OK)
	require.Equal(t, "Metals sources failed: goldprice, gold-api", body.Error)
}
