package calc

import "github.com/Farwahi/Noor-e-Hadiya/internal/money"

// Preset selects the jurisprudential tradition the calculator follows. It
// decides which obligations join the grand total and whether the Witr option
// applies.
type Preset string

const (
	PresetSunni Preset = "sunni_general"
	PresetShia  Preset = "shia_sistani"
)

// SummaryInput bundles the per-section results feeding the grand total.
type SummaryInput struct {
	Preset    Preset
	Zakat     ZakatWealthResult
	Fitrana   FitranaResult
	Khums     KhumsResult
	QazaNamaz QazaNamazResult
	NamazRate float64
	QazaRoza  QazaRozaResult
	RozaRate  float64
}

// SummaryResult reports the combined obligation estimate.
type SummaryResult struct {
	IncludesZakat bool
	IncludesKhums bool
	Total         float64
}

// Summary combines the section totals under the selected preset: wealth zakat
// counts for the Sunni preset, khums for the Shia preset, and qaza estimates
// only when their rate is set.
func Summary(in SummaryInput) SummaryResult {
	includeZakat := in.Preset != PresetShia
	includeKhums := in.Preset == PresetShia

	total := in.Fitrana.Total
	if includeZakat {
		total += in.Zakat.Payable
	}
	if includeKhums {
		total += in.Khums.Total
	}
	if money.Num(in.NamazRate) > 0 {
		total += in.QazaNamaz.Cost
	}
	if money.Num(in.RozaRate) > 0 {
		total += in.QazaRoza.Cost
	}

	return SummaryResult{IncludesZakat: includeZakat, IncludesKhums: includeKhums, Total: total}
}
