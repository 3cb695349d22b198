package payment

import (
	"context"
	"net/http"

	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

// SessionRequest captures a hosted-checkout session to open with a provider.
type SessionRequest struct {
	Amount      float64
	Currency    money.Currency
	Description string
	Reference   string
	SuccessURL  string
	CancelURL   string
}

// Session is the minimal information returned when a session is created.
type Session struct {
	ID  string
	URL string
}

// Event is a normalised webhook notification after signature verification.
type Event struct {
	Type      string
	SessionID string
	Raw       []byte
}

// Provider abstracts the upstream payment gateway.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	VerifyWebhook(r *http.Request, body []byte) (Event, error)
}
