package fx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/fx"
	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
	"github.com/Farwahi/Noor-e-Hadiya/internal/resilience"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*fx.Client, *miniredis.Miniredis) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &fx.Client{
		HTTP:    resilience.HTTPClient{Client: srv.Client(), MaxAttempts: 1},
		BaseURL: srv.URL,
		Redis:   rdb,
		TTL:     30 * time.Minute,
	}, mr
}

func TestRatesFetchAndCache(t *testing.T) {
	var calls int32
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.Equal(t, "/GBP", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","rates":{"GBP":1,"USD":1.27,"PKR":355.2}}`))
	})

	rates, err := client.Rates(context.Background(), money.GBP)
	require.NoError(t, err)
	usd, ok := rates.To(money.USD)
	require.True(t, ok)
	require.InDelta(t, 1.27, usd, 1e-9)
	self, ok := rates.To(money.GBP)
	require.True(t, ok)
	require.Equal(t, 1.0, self)

	// Second call is served from cache.
	_, err = client.Rates(context.Background(), money.GBP)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRatesRejectsPartialPayload(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","rates":{"USD":1.27}}`))
	})
	_, err := client.Rates(context.Background(), money.GBP)
	require.Error(t, err)
	require.Contains(t, err.Error(), "PKR")
}

func TestRatesRejectsNonPositive(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","rates":{"USD":0,"PKR":355}}`))
	})
	_, err := client.Rates(context.Background(), money.GBP)
	require.Error(t, err)
}

func TestRatesUpstreamFailure(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.Rates(context.Background(), money.GBP)
	require.Error(t, err)
}

func TestRateIdentity(t *testing.T) {
	client := &fx.Client{}
	v, err := client.Rate(context.Background(), money.PKR, money.PKR)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}
