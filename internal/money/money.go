package money

import (
	"fmt"
	"math"
	"strings"
)

// Currency identifies one of the supported settlement currencies.
type Currency string

const (
	GBP Currency = "GBP"
	USD Currency = "USD"
	PKR Currency = "PKR"
)

// Currencies lists the supported currencies in display order.
var Currencies = []Currency{GBP, USD, PKR}

var symbols = map[Currency]string{
	GBP: "£",
	USD: "$",
	PKR: "₨",
}

// Parse normalises a currency string, rejecting anything outside the supported set.
func Parse(value string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "GBP":
		return GBP, nil
	case "USD":
		return USD, nil
	case "PKR":
		return PKR, nil
	default:
		return "", fmt.Errorf("unsupported currency: %q", value)
	}
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c)
}

// Lower returns the lowercase ISO code used by payment gateways.
func (c Currency) Lower() string { return strings.ToLower(string(c)) }

// Num coerces a value to a finite float, mapping NaN and infinities to 0.
func Num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NonNeg coerces to a finite, non-negative float.
func NonNeg(v float64) float64 {
	v = Num(v)
	if v < 0 {
		return 0
	}
	return v
}

// Int coerces to a finite, non-negative whole number (floor semantics).
func Int(v float64) int {
	v = Num(v)
	if v < 0 {
		return 0
	}
	return int(math.Floor(v))
}

// Round2 rounds to two decimal places. Applied only when an amount crosses a
// boundary (cart insertion, gateway submission), never inside formulas.
func Round2(v float64) float64 {
	v = Num(v)
	return math.Round(v*100) / 100
}

// MinorUnits converts a major-unit amount to integer minor units (pennies/cents).
func MinorUnits(v float64) int64 {
	return int64(math.Round(Num(v) * 100))
}
