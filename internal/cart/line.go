package cart

import (
	"encoding/json"

	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

// Kind tags a cart line as a fixed-price service or a free-amount donation.
type Kind string

const (
	KindService  Kind = "service"
	KindDonation Kind = "donation"
)

// Line is one cart entry. Amount fields are pointers because presence
// matters: a stored zero stops the fallback chain where an absent field does
// not. The legacy `price` and `pkr` fields are kept for carts written by
// older clients.
type Line struct {
	Kind Kind `json:"-"`

	ID         string `json:"id"`
	Name       string `json:"name"`
	CountLabel string `json:"countLabel,omitempty"`
	Category   string `json:"category,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Location   string `json:"location,omitempty"`
	Notes      string `json:"notes,omitempty"`

	IsDonation bool `json:"isDonation,omitempty"`

	PriceGBP *float64 `json:"priceGBP,omitempty"`
	PricePKR *float64 `json:"pricePKR,omitempty"`
	PriceUSD *float64 `json:"priceUSD,omitempty"`

	DonationGBP *float64 `json:"donationGBP,omitempty"`
	DonationPKR *float64 `json:"donationPKR,omitempty"`
	DonationUSD *float64 `json:"donationUSD,omitempty"`

	LegacyPrice *float64 `json:"price,omitempty"`
	LegacyPKR   *float64 `json:"pkr,omitempty"`
}

// UnmarshalJSON derives the kind tag from the wire flag.
func (l *Line) UnmarshalJSON(data []byte) error {
	type alias Line
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = Line(a)
	l.Kind = KindService
	if l.IsDonation {
		l.Kind = KindDonation
	}
	return nil
}

// MarshalJSON keeps the wire flag in sync with the kind tag.
func (l Line) MarshalJSON() ([]byte, error) {
	l.IsDonation = l.Kind == KindDonation
	type alias Line
	return json.Marshal(alias(l))
}

// Amount resolves the line's value in one currency. Donations consult their
// donation field first, then fall through the price fields and legacy
// fallbacks. The first present field wins even when it holds zero; negative
// and non-finite values resolve to 0.
func (l Line) Amount(cur money.Currency) float64 {
	var chain []*float64
	switch cur {
	case money.GBP:
		if l.Kind == KindDonation {
			chain = []*float64{l.DonationGBP, l.PriceGBP, l.LegacyPrice}
		} else {
			chain = []*float64{l.PriceGBP, l.LegacyPrice}
		}
	case money.USD:
		if l.Kind == KindDonation {
			chain = []*float64{l.DonationUSD, l.PriceUSD, l.LegacyPrice}
		} else {
			chain = []*float64{l.PriceUSD, l.LegacyPrice}
		}
	case money.PKR:
		if l.Kind == KindDonation {
			chain = []*float64{l.DonationPKR, l.PricePKR, l.LegacyPKR, l.LegacyPrice}
		} else {
			chain = []*float64{l.PricePKR, l.LegacyPKR, l.LegacyPrice}
		}
	}
	for _, p := range chain {
		if p != nil {
			return money.NonNeg(*p)
		}
	}
	return 0
}

// Totals holds independent per-currency sums. No cross-currency conversion
// happens here; each column only counts the amounts carts actually stored.
type Totals struct {
	GBP float64 `json:"GBP"`
	USD float64 `json:"USD"`
	PKR float64 `json:"PKR"`
}

// Total sums every line per currency.
func Total(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.GBP += l.Amount(money.GBP)
		t.USD += l.Amount(money.USD)
		t.PKR += l.Amount(money.PKR)
	}
	return t
}

// For returns the total in one currency.
func (t Totals) For(cur money.Currency) float64 {
	switch cur {
	case money.USD:
		return t.USD
	case money.PKR:
		return t.PKR
	default:
		return t.GBP
	}
}

func ptr(v float64) *float64 { return &v }
