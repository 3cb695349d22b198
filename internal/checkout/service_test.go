package checkout_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/cart"
	"github.com/Farwahi/Noor-e-Hadiya/internal/checkout"
	"github.com/Farwahi/Noor-e-Hadiya/internal/payment"
)

type stubProvider struct {
	lastReq payment.SessionRequest
	err     error
}

func (s *stubProvider) CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error) {
	s.lastReq = req
	if s.err != nil {
		return payment.Session{}, s.err
	}
	return payment.Session{ID: "cs_1", URL: "https://stripe.example/cs_1"}, nil
}

func (s *stubProvider) VerifyWebhook(r *http.Request, body []byte) (payment.Event, error) {
	return payment.Event{}, nil
}

func f(v float64) *float64 { return &v }

func newService(t *testing.T, provider payment.Provider) (*checkout.Service, cart.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	store := cart.NewMemoryStore()
	svc := &checkout.Service{
		Cart:           store,
		Provider:       provider,
		Redis:          redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		FrontendOrigin: "https://noor-e-hadiya.example",
		Now:            func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	}
	return svc, store
}

func seedCart(t *testing.T, store cart.Store) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), "c1", []cart.Line{
		{Kind: cart.KindService, ID: "salawat", Name: "Salawat Tasbih", PriceGBP: f(2), PricePKR: f(600), PriceUSD: f(3)},
		{Kind: cart.KindService, ID: "salawat", Name: "Salawat Tasbih", PriceGBP: f(2), PricePKR: f(600), PriceUSD: f(3)},
		{Kind: cart.KindService, ID: "surah-yaseen", Name: "Surah Yaseen", PriceGBP: f(3), PricePKR: f(900), PriceUSD: f(4)},
	}))
}

func TestDescriptionCountsDuplicates(t *testing.T) {
	lines := []cart.Line{
		{Name: "Salawat Tasbih"},
		{Name: "Surah Yaseen"},
		{Name: "Salawat Tasbih"},
	}
	require.Equal(t, "Salawat Tasbih x2, Surah Yaseen x1", checkout.Description(lines))
	require.Equal(t, "Noor-e-Hadiya Order", checkout.Description(nil))
}

func TestReferenceFormatAndPersistence(t *testing.T) {
	svc, _ := newService(t, &stubProvider{})
	ctx := context.Background()

	ref, err := svc.Reference(ctx, "c1")
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^NEH-20260301-[0-9A-Z]{5}$`), ref)

	again, err := svc.Reference(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, ref, again)

	other, err := svc.Reference(ctx, "c2")
	require.NoError(t, err)
	require.NotEqual(t, ref, other)
}

func TestOnlineCheckout(t *testing.T) {
	provider := &stubProvider{}
	svc, store := newService(t, provider)
	seedCart(t, store)

	result, err := svc.Checkout(context.Background(), "c1", checkout.Request{
		Currency:     "GBP",
		DeceasedName: "Marhum Ali",
		Notes:        "please recite Friday",
	})
	require.NoError(t, err)
	require.Equal(t, checkout.StateAwaitingPayment, result.State)
	require.Equal(t, "https://stripe.example/cs_1", result.URL)

	require.Equal(t, 7.0, provider.lastReq.Amount)
	require.Equal(t, "Salawat Tasbih x2, Surah Yaseen x1 | Deceased: Marhum Ali | Notes: please recite Friday", provider.lastReq.Description)
	require.Equal(t, "https://noor-e-hadiya.example/checkout?success=1", provider.lastReq.SuccessURL)
}

func TestOnlineCheckoutGatewayFailureKeepsCart(t *testing.T) {
	svc, store := newService(t, &stubProvider{err: errors.New("gateway down")})
	seedCart(t, store)

	_, err := svc.Checkout(context.Background(), "c1", checkout.Request{Currency: "GBP"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "gateway down")

	lines, err := store.Get(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, lines, 3)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newService(t, &stubProvider{})
	_, err := svc.Checkout(context.Background(), "empty", checkout.Request{Currency: "GBP"})
	require.Error(t, err)
}

func TestManualCheckout(t *testing.T) {
	svc, store := newService(t, &stubProvider{})
	seedCart(t, store)

	// Missing transaction id blocks the handoff.
	_, err := svc.Checkout(context.Background(), "c1", checkout.Request{Currency: "PKR"})
	require.Error(t, err)

	result, err := svc.Checkout(context.Background(), "c1", checkout.Request{
		Currency:        "PKR",
		ManualMethod:    "JazzCash",
		ManualTxnID:     "TXN123",
		ManualPayerName: "Hussain",
	})
	require.NoError(t, err)
	require.Equal(t, checkout.StateAwaitingManualConfirmation, result.State)
	require.NotEmpty(t, result.Reference)
	require.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/447551214149?text="))

	raw := strings.TrimPrefix(result.WhatsAppURL, "https://wa.me/447551214149?text=")
	msg, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	require.Contains(t, msg, "Reference: "+result.Reference)
	require.Contains(t, msg, "Selected items: Salawat Tasbih x2, Surah Yaseen x1")
	require.Contains(t, msg, "Currency: PKR")
	require.Contains(t, msg, "Total: PKR 2,100")
	require.Contains(t, msg, "Manual method: JazzCash")
	require.Contains(t, msg, "Transaction ID: TXN123")
	require.Contains(t, msg, "Payer name: Hussain")
	require.Contains(t, msg, "I will send the receipt screenshot now.")
}

func TestManualCheckoutGroupsPKRTotal(t *testing.T) {
	svc, store := newService(t, &stubProvider{})
	require.NoError(t, store.Set(context.Background(), "c2", []cart.Line{
		{Kind: cart.KindService, ID: "qaza-roza-1year", Name: "Qaza Roza - 1 Year", PriceGBP: f(400), PricePKR: f(130000), PriceUSD: f(550)},
	}))

	result, err := svc.Checkout(context.Background(), "c2", checkout.Request{Currency: "PKR", ManualTxnID: "TXN9"})
	require.NoError(t, err)

	raw := strings.TrimPrefix(result.WhatsAppURL, "https://wa.me/447551214149?text=")
	msg, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	require.Contains(t, msg, "Total: PKR 130,000")
}

func TestCompleteSuccessClearsAndRotates(t *testing.T) {
	svc, store := newService(t, &stubProvider{})
	seedCart(t, store)
	ctx := context.Background()

	before, err := svc.Reference(ctx, "c1")
	require.NoError(t, err)

	result, err := svc.CompleteSuccess(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, checkout.StateCompleted, result.State)
	require.NotEqual(t, before, result.Reference)

	lines, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, lines)
}
