package cart

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Farwahi/Noor-e-Hadiya/internal/fx"
	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

// RatesProvider yields conversion factors for a base currency. Satisfied by
// the fx client.
type RatesProvider interface {
	Rates(ctx context.Context, base money.Currency) (fx.Rates, error)
}

// DonationBuilder assembles donation lines server-side so every client gets
// the same normalization.
type DonationBuilder struct {
	FX  RatesProvider
	Now func() time.Time
}

func (b *DonationBuilder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Sadaqah builds a general donation carrying all three currencies. Rates come
// from FX when available; on failure the legacy fallbacks keep the cart
// usable: GBP and USD mirror each other 1:1, and a PKR source floors the
// other currencies at a 0.01 placeholder so totals never read zero.
func (b *DonationBuilder) Sadaqah(ctx context.Context, amount float64, cur money.Currency) (Line, error) {
	amt := money.NonNeg(amount)
	if amt <= 0 {
		return Line{}, fmt.Errorf("cart: donation amount must be positive")
	}

	var gbp, usd, pkr float64
	rates, err := b.fetchRates(ctx, cur)
	if err == nil {
		g, _ := rates.To(money.GBP)
		u, _ := rates.To(money.USD)
		p, _ := rates.To(money.PKR)
		gbp, usd, pkr = amt*g, amt*u, amt*p
	} else {
		switch cur {
		case money.GBP:
			gbp, usd, pkr = amt, amt, 0
		case money.USD:
			usd, gbp, pkr = amt, amt, 0
		case money.PKR:
			pkr, gbp, usd = amt, 0.01, 0.01
		}
	}

	now := b.now()
	return Line{
		Kind:     KindDonation,
		ID:       fmt.Sprintf("don-sadaqah-%s-%d-%d", cur.Lower(), int64(math.Round(amt)), now.UnixMilli()),
		Name:     "General Sadaqah",
		Category: "Sadaqah",
		PriceGBP: ptr(money.Round2(gbp)),
		PriceUSD: ptr(money.Round2(usd)),
		PricePKR: ptr(math.Round(pkr)),
	}, nil
}

func (b *DonationBuilder) fetchRates(ctx context.Context, base money.Currency) (fx.Rates, error) {
	if b.FX == nil {
		return fx.Rates{}, fmt.Errorf("cart: no rates provider")
	}
	return b.FX.Rates(ctx, base)
}

// Obligation builds the calculator's single-currency donation line (zakat,
// fitrana, khums, qaza estimates). Only the selected currency carries a
// value; the legacy fallback fields are populated so older cart readers
// still resolve an amount.
func (b *DonationBuilder) Obligation(slug, name string, amount float64, cur money.Currency) (Line, error) {
	amt := money.Round2(money.NonNeg(amount))
	if amt <= 0 {
		return Line{}, fmt.Errorf("cart: donation amount must be positive")
	}

	line := Line{
		Kind:        KindDonation,
		ID:          fmt.Sprintf("%s-%s-%d", slug, cur.Lower(), b.now().UnixMilli()),
		Name:        name,
		CountLabel:  "Custom Request",
		Category:    "Additional",
		LegacyPrice: ptr(amt),
	}
	switch cur {
	case money.GBP:
		line.PriceGBP = ptr(amt)
	case money.USD:
		line.PriceUSD = ptr(amt)
	case money.PKR:
		line.PricePKR = ptr(amt)
		line.LegacyPKR = ptr(amt)
	}
	return line, nil
}

// Additional builds a custom-request line for the manual-amount offerings.
// The donation field of the chosen currency carries the amount and the price
// fields stay at zero, matching how those requests have always been stored.
func (b *DonationBuilder) Additional(baseID, name, location, notes string, amount float64, cur money.Currency) (Line, error) {
	amt := money.NonNeg(amount)
	if amt <= 0 {
		return Line{}, fmt.Errorf("cart: donation amount must be positive")
	}

	line := Line{
		Kind:     KindDonation,
		ID:       fmt.Sprintf("additional-%s-%d", baseID, b.now().UnixMilli()),
		Name:     strings.TrimSpace(name),
		Category: "Additional Custom",
		Location: strings.TrimSpace(location),
		Notes:    strings.TrimSpace(notes),
		PriceGBP: ptr(0),
		PricePKR: ptr(0),
		PriceUSD: ptr(0),
	}
	switch cur {
	case money.GBP:
		line.DonationGBP = ptr(amt)
	case money.USD:
		line.DonationUSD = ptr(amt)
	case money.PKR:
		line.DonationPKR = ptr(amt)
	}
	return line, nil
}
