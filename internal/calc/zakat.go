package calc

import "github.com/Farwahi/Noor-e-Hadiya/internal/money"

// Nisab thresholds expressed as metal weight.
const (
	GoldNisabGrams   = 87.48
	SilverNisabGrams = 612.36
)

// ZakatRate is the fixed proportion of eligible wealth due as Zakat.
const ZakatRate = 0.025

// NisabBasis selects which metal anchors the nisab threshold.
type NisabBasis string

const (
	NisabGold   NisabBasis = "gold"
	NisabSilver NisabBasis = "silver"
)

// SuggestedNisab computes the nisab threshold for a basis from a live
// price-per-gram. A zero or negative price yields a zero threshold.
func SuggestedNisab(basis NisabBasis, perGram float64) float64 {
	perGram = money.NonNeg(perGram)
	if basis == NisabSilver {
		return SilverNisabGrams * perGram
	}
	return GoldNisabGrams * perGram
}

// ZakatWealthInput carries the wealth-based (Sunni style) zakat inputs.
// Callers coerce form values beforehand; non-finite numbers are treated as 0.
type ZakatWealthInput struct {
	Cash           float64
	Bank           float64
	GoldGrams      float64
	SilverGrams    float64
	GoldPerGram    float64
	SilverPerGram  float64
	BusinessAssets float64
	Debts          float64
	Nisab          float64
}

// ZakatWealthResult describes the wealth-based zakat outcome.
type ZakatWealthResult struct {
	GoldValue   float64
	SilverValue float64
	Total       float64
	Nisab       float64
	Eligible    bool
	Payable     float64
}

// ZakatWealth computes the wealth-based variant. Eligibility is inclusive at
// the nisab boundary; with no usable nisab any positive total is eligible.
func ZakatWealth(in ZakatWealthInput) ZakatWealthResult {
	goldValue := money.NonNeg(in.GoldGrams) * money.NonNeg(in.GoldPerGram)
	silverValue := money.NonNeg(in.SilverGrams) * money.NonNeg(in.SilverPerGram)

	total := money.Num(in.Cash) + money.Num(in.Bank) + goldValue + silverValue +
		money.Num(in.BusinessAssets) - money.Num(in.Debts)

	nisab := money.Num(in.Nisab)
	eligible := total > 0
	if nisab > 0 {
		eligible = total >= nisab
	}

	payable := 0.0
	if eligible {
		payable = total * ZakatRate
	}

	return ZakatWealthResult{
		GoldValue:   goldValue,
		SilverValue: silverValue,
		Total:       total,
		Nisab:       nisab,
		Eligible:    eligible,
		Payable:     payable,
	}
}

// ZakatCoinsInput carries the coin-based (Sistani style) zakat inputs.
type ZakatCoinsInput struct {
	Grams   float64
	PerGram float64
	Nisab   float64
	// Attested records the user's confirmation that the qualifying
	// conditions (full year of ownership, eligible coinage) are met.
	Attested bool
}

// ZakatCoinsResult describes the coin-based zakat outcome.
type ZakatCoinsResult struct {
	Value    float64
	Nisab    float64
	Eligible bool
	Payable  float64
}

// ZakatCoins computes the coin-based variant. Without attestation nothing is
// due regardless of value.
func ZakatCoins(in ZakatCoinsInput) ZakatCoinsResult {
	value := money.NonNeg(in.Grams) * money.NonNeg(in.PerGram)
	nisab := money.Num(in.Nisab)

	eligible := in.Attested && nisab > 0 && value >= nisab
	payable := 0.0
	if eligible {
		payable = value * ZakatRate
	}

	return ZakatCoinsResult{Value: value, Nisab: nisab, Eligible: eligible, Payable: payable}
}

// ZakatManual is the manual-entry escape hatch for zakat categories (crops,
// livestock) whose rules the calculator does not model. It passes the
// user-entered amount through, clamped to non-negative.
func ZakatManual(amount float64) float64 {
	return money.NonNeg(amount)
}
