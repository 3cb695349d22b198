package calc

import "github.com/Farwahi/Noor-e-Hadiya/internal/money"

// KhumsRate is the fixed proportion of yearly surplus due as Khums.
const KhumsRate = 0.20

// DefaultFitranaRate returns the per-person rate used when the user has not
// entered one. Rates follow local staple prices per currency.
func DefaultFitranaRate(c money.Currency) float64 {
	switch c {
	case money.USD:
		return 6
	case money.PKR:
		return 1500
	default:
		return 5
	}
}

// FitranaResult describes a Fitrana computation.
type FitranaResult struct {
	People int
	Rate   float64
	Total  float64
}

// Fitrana multiplies a non-negative person count by a non-negative per-person rate.
func Fitrana(people float64, rate float64) FitranaResult {
	p := money.Int(people)
	r := money.NonNeg(rate)
	return FitranaResult{People: p, Rate: r, Total: float64(p) * r}
}

// KhumsResult describes a Khums computation; the payable amount splits into
// two equal named portions.
type KhumsResult struct {
	Surplus   float64
	Total     float64
	SahmImam  float64
	SahmSadat float64
}

// Khums levies one fifth of the yearly surplus, floored at zero.
func Khums(income, expenses, otherDeductions float64) KhumsResult {
	surplus := money.Num(income) - money.Num(expenses) - money.Num(otherDeductions)
	positive := surplus
	if positive < 0 {
		positive = 0
	}
	total := positive * KhumsRate
	return KhumsResult{
		Surplus:   surplus,
		Total:     total,
		SahmImam:  total / 2,
		SahmSadat: total / 2,
	}
}

// QazaNamazResult describes missed-prayer counts and the optional cost estimate.
type QazaNamazResult struct {
	Base         int
	Witr         int
	TotalPrayers int
	Cost         float64
}

// QazaNamaz counts five daily prayers per missed day, optionally adding one
// Witr per day. A zero rate suppresses the monetary estimate.
func QazaNamaz(days float64, includeWitr bool, rate float64) QazaNamazResult {
	d := money.Int(days)
	base := d * 5
	witr := 0
	if includeWitr {
		witr = d
	}
	total := base + witr
	return QazaNamazResult{
		Base:         base,
		Witr:         witr,
		TotalPrayers: total,
		Cost:         float64(total) * money.NonNeg(rate),
	}
}

// QazaRozaResult describes missed-fast counts and the optional cost estimate.
type QazaRozaResult struct {
	Days int
	Cost float64
}

// QazaRoza costs missed fast days at an optional per-day rate.
func QazaRoza(days float64, rate float64) QazaRozaResult {
	d := money.Int(days)
	return QazaRozaResult{Days: d, Cost: float64(d) * money.NonNeg(rate)}
}
