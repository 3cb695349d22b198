package calc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/calc"
)

func TestFitrana(t *testing.T) {
	got := calc.Fitrana(4, 5)
	require.Equal(t, 4, got.People)
	require.InDelta(t, 20, got.Total, 1e-9)

	// Fractional person counts floor.
	got = calc.Fitrana(2.9, 6)
	require.Equal(t, 2, got.People)
	require.InDelta(t, 12, got.Total, 1e-9)

	require.Zero(t, calc.Fitrana(-1, 5).Total)
	require.Zero(t, calc.Fitrana(4, -5).Total)
}

func TestKhums(t *testing.T) {
	got := calc.Khums(10000, 6000, 1000)
	require.InDelta(t, 3000, got.Surplus, 1e-9)
	require.InDelta(t, 600, got.Total, 1e-9)
	require.InDelta(t, 300, got.SahmImam, 1e-9)
	require.InDelta(t, 300, got.SahmSadat, 1e-9)

	// Nothing due when outgoings meet or exceed income.
	got = calc.Khums(5000, 4000, 1000)
	require.Zero(t, got.Total)
	got = calc.Khums(5000, 7000, 0)
	require.InDelta(t, -2000, got.Surplus, 1e-9)
	require.Zero(t, got.Total)
}

func TestQazaNamaz(t *testing.T) {
	got := calc.QazaNamaz(30, false, 0.5)
	require.Equal(t, 150, got.Base)
	require.Zero(t, got.Witr)
	require.Equal(t, 150, got.TotalPrayers)
	require.InDelta(t, 75, got.Cost, 1e-9)

	got = calc.QazaNamaz(30, true, 0.5)
	require.Equal(t, 30, got.Witr)
	require.Equal(t, 180, got.TotalPrayers)
	require.InDelta(t, 90, got.Cost, 1e-9)

	// Zero rate still counts prayers, just no cost estimate.
	got = calc.QazaNamaz(10, true, 0)
	require.Equal(t, 60, got.TotalPrayers)
	require.Zero(t, got.Cost)
}

func TestQazaRoza(t *testing.T) {
	got := calc.QazaRoza(30, 10)
	require.Equal(t, 30, got.Days)
	require.InDelta(t, 300, got.Cost, 1e-9)
	require.Zero(t, calc.QazaRoza(-2, 10).Cost)
}

func TestSummary(t *testing.T) {
	zakat := calc.ZakatWealth(calc.ZakatWealthInput{Cash: 5000, Nisab: 4374})
	khums := calc.Khums(10000, 6000, 0)
	fitrana := calc.Fitrana(4, 5)
	namaz := calc.QazaNamaz(10, false, 1)
	roza := calc.QazaRoza(5, 2)

	sunni := calc.Summary(calc.SummaryInput{
		Preset:    calc.PresetSunni,
		Zakat:     zakat,
		Fitrana:   fitrana,
		Khums:     khums,
		QazaNamaz: namaz,
		NamazRate: 1,
		QazaRoza:  roza,
		RozaRate:  2,
	})
	require.True(t, sunni.IncludesZakat)
	require.False(t, sunni.IncludesKhums)
	require.InDelta(t, 125+20+50+10, sunni.Total, 1e-9)

	shia := calc.Summary(calc.SummaryInput{
		Preset:  calc.PresetShia,
		Zakat:   zakat,
		Fitrana: fitrana,
		Khums:   khums,
	})
	require.False(t, shia.IncludesZakat)
	require.True(t, shia.IncludesKhums)
	require.InDelta(t, 800+20, shia.Total, 1e-9)

	// Unset qaza rates keep those estimates out of the total.
	noRates := calc.Summary(calc.SummaryInput{Preset: calc.PresetSunni, Zakat: zakat, QazaNamaz: namaz, QazaRoza: roza})
	require.InDelta(t, 125, noRates.Total, 1e-9)
}
