package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Farwahi/Noor-e-Hadiya/internal/cart"
	"github.com/Farwahi/Noor-e-Hadiya/internal/common"
	"github.com/Farwahi/Noor-e-Hadiya/internal/events"
	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
	"github.com/Farwahi/Noor-e-Hadiya/internal/payment"
)

// State tracks where an order is in the checkout flow.
type State string

const (
	StateSelectingCurrency          State = "selecting_currency"
	StateReviewingItems             State = "reviewing_items"
	StateAwaitingPayment            State = "awaiting_payment"
	StateCompleted                  State = "completed"
	StateAwaitingManualConfirmation State = "awaiting_manual_confirmation"
)

// DefaultWhatsAppNumber receives manual order confirmations. Digits only, no
// plus sign.
const DefaultWhatsAppNumber = "447551214149"

const refBase36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Request carries one checkout submission.
type Request struct {
	Currency     string `json:"currency"`
	DeceasedName string `json:"deceasedName,omitempty"`
	Notes        string `json:"notes,omitempty"`

	// Manual (PKR) fields.
	ManualMethod       string `json:"manualMethod,omitempty"`
	ManualTxnID        string `json:"manualTxnId,omitempty"`
	ManualPayerName    string `json:"manualPayerName,omitempty"`
	ManualSenderNumber string `json:"manualSenderNumber,omitempty"`
}

// Result is the outcome of a checkout submission.
type Result struct {
	State        State  `json:"state"`
	URL          string `json:"url,omitempty"`
	Reference    string `json:"reference,omitempty"`
	WhatsAppURL  string `json:"whatsappUrl,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Service orchestrates cart review, reference allocation and the online and
// manual payment branches.
type Service struct {
	Cart           cart.Store
	Provider       payment.Provider
	Redis          *redis.Client
	Bus            *events.Bus
	FrontendOrigin string
	WhatsAppNumber string
	RefTTL         time.Duration
	Now            func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) whatsAppNumber() string {
	if s.WhatsAppNumber != "" {
		return s.WhatsAppNumber
	}
	return DefaultWhatsAppNumber
}

func refKey(cartID string) string { return "checkout:ref:" + cartID }

// Reference returns the cart's persisted order reference, allocating one the
// first time. The format is NEH-YYYYMMDD-XXXXX with an uppercase base36
// suffix; it survives until a successful payment rotates it.
func (s *Service) Reference(ctx context.Context, cartID string) (string, error) {
	if s.Redis != nil {
		ref, err := s.Redis.Get(ctx, refKey(cartID)).Result()
		if err == nil && ref != "" {
			return ref, nil
		}
	}
	ref, err := s.newReference()
	if err != nil {
		return "", err
	}
	if s.Redis != nil {
		ttl := s.RefTTL
		if ttl <= 0 {
			ttl = 7 * 24 * time.Hour
		}
		if err := s.Redis.Set(ctx, refKey(cartID), ref, ttl).Err(); err != nil {
			return "", fmt.Errorf("checkout: persist reference: %w", err)
		}
	}
	return ref, nil
}

func (s *Service) newReference() (string, error) {
	suffix := make([]byte, 5)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(refBase36))))
		if err != nil {
			return "", fmt.Errorf("checkout: generate reference: %w", err)
		}
		suffix[i] = refBase36[n.Int64()]
	}
	return fmt.Sprintf("NEH-%s-%s", s.now().Format("20060102"), suffix), nil
}

// Description aggregates cart lines into the order description, counting
// duplicate names in first-seen order. An empty cart yields the default
// product name.
func Description(lines []cart.Line) string {
	if len(lines) == 0 {
		return payment.DefaultProductName
	}
	counts := map[string]int{}
	var order []string
	for _, l := range lines {
		if counts[l.Name] == 0 {
			order = append(order, l.Name)
		}
		counts[l.Name]++
	}
	parts := make([]string, 0, len(order))
	for _, name := range order {
		parts = append(parts, fmt.Sprintf("%s x%d", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}

// Checkout runs one submission through the flow. GBP and USD go to the
// online gateway; PKR takes the manual WhatsApp branch.
func (s *Service) Checkout(ctx context.Context, cartID string, req Request) (Result, error) {
	cur, err := money.Parse(req.Currency)
	if err != nil {
		return Result{State: StateSelectingCurrency}, common.BadRequest("Unsupported currency")
	}

	lines, err := s.Cart.Get(ctx, cartID)
	if err != nil {
		return Result{State: StateReviewingItems}, err
	}
	total := cart.Total(lines).For(cur)
	if total <= 0 {
		return Result{State: StateReviewingItems}, common.BadRequest("Cart is empty")
	}

	if cur == money.PKR {
		return s.manual(ctx, cartID, cur, lines, total, req)
	}
	return s.online(ctx, cartID, cur, lines, total, req)
}

func (s *Service) online(ctx context.Context, cartID string, cur money.Currency, lines []cart.Line, total float64, req Request) (Result, error) {
	desc := Description(lines)
	var extras []string
	if req.DeceasedName != "" {
		extras = append(extras, "Deceased: "+req.DeceasedName)
	}
	if req.Notes != "" {
		extras = append(extras, "Notes: "+req.Notes)
	}
	if len(extras) > 0 {
		desc = desc + " | " + strings.Join(extras, " | ")
	}

	reference, err := s.Reference(ctx, cartID)
	if err != nil {
		return Result{State: StateReviewingItems}, err
	}

	session, err := s.Provider.CreateSession(ctx, payment.SessionRequest{
		Amount:      total,
		Currency:    cur,
		Description: desc,
		Reference:   reference,
		SuccessURL:  s.FrontendOrigin + "/checkout?success=1",
		CancelURL:   s.FrontendOrigin + "/checkout?canceled=1",
	})
	if err != nil {
		// The cart is untouched; the user can retry.
		return Result{State: StateReviewingItems}, common.NewAppError("GATEWAY", "Stripe session failed", 500, err)
	}

	return Result{State: StateAwaitingPayment, URL: session.URL, Reference: reference}, nil
}

func (s *Service) manual(ctx context.Context, cartID string, cur money.Currency, lines []cart.Line, total float64, req Request) (Result, error) {
	if strings.TrimSpace(req.ManualTxnID) == "" {
		return Result{State: StateReviewingItems}, common.BadRequest("Please enter Transaction ID to confirm on WhatsApp.")
	}

	reference, err := s.Reference(ctx, cartID)
	if err != nil {
		return Result{State: StateReviewingItems}, err
	}

	msg := s.whatsAppMessage(reference, cur, lines, total, req)
	waURL := "https://wa.me/" + s.whatsAppNumber() + "?text=" + url.QueryEscape(msg)

	return Result{
		State:        StateAwaitingManualConfirmation,
		Reference:    reference,
		WhatsAppURL:  waURL,
		Instructions: "Thanks! Please send your receipt screenshot on WhatsApp for manual verification.",
	}, nil
}

func (s *Service) whatsAppMessage(reference string, cur money.Currency, lines []cart.Line, total float64, req Request) string {
	totals := cart.Total(lines)
	totalLabel := "PKR " + groupThousands(int64(math.Round(totals.PKR)))
	if cur == money.GBP {
		totalLabel = fmt.Sprintf("£%.2f", totals.GBP)
	}

	parts := []string{
		"Assalamu Alaikum, I have placed an order on Noor-e-Hadiya.",
		"Reference: " + reference,
		"Selected items: " + Description(lines),
		"Currency: " + string(cur),
		"Total: " + totalLabel,
	}
	if req.DeceasedName != "" {
		parts = append(parts, "Deceased name: "+req.DeceasedName)
	}
	if req.Notes != "" {
		parts = append(parts, "Notes: "+req.Notes)
	}
	if cur == money.PKR {
		method := req.ManualMethod
		if method == "" {
			method = "EasyPaisa"
		}
		parts = append(parts, "Manual method: "+method)
		if req.ManualTxnID != "" {
			parts = append(parts, "Transaction ID: "+req.ManualTxnID)
		}
		if req.ManualPayerName != "" {
			parts = append(parts, "Payer name: "+req.ManualPayerName)
		}
		if req.ManualSenderNumber != "" {
			parts = append(parts, "Sender number: "+req.ManualSenderNumber)
		}
		parts = append(parts, "I will send the receipt screenshot now.")
	}
	return strings.Join(parts, "\n")
}

// groupThousands renders n with comma separators, e.g. 6200 -> "6,200".
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

// CompleteSuccess finalizes a paid order: the cart is cleared and the
// reference rotated so the next order gets a fresh one.
func (s *Service) CompleteSuccess(ctx context.Context, cartID string) (Result, error) {
	if err := s.Cart.Clear(ctx, cartID); err != nil {
		return Result{}, err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, refKey(cartID)).Err()
	}
	reference, err := s.Reference(ctx, cartID)
	if err != nil {
		return Result{}, err
	}
	if s.Bus != nil {
		_, _ = s.Bus.Emit(ctx, events.TopicCheckoutCompleted, cartID, nil)
	}
	return Result{State: StateCompleted, Reference: reference}, nil
}
