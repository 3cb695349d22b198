package money_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want money.Currency
		ok   bool
	}{
		{"GBP", money.GBP, true},
		{"gbp", money.GBP, true},
		{" usd ", money.USD, true},
		{"PKR", money.PKR, true},
		{"EUR", "", false},
		{"", "", false},
	} {
		got, err := money.Parse(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			require.Equal(t, tc.want, got)
		} else {
			require.Error(t, err, tc.in)
		}
	}
}

func TestCoercion(t *testing.T) {
	require.Equal(t, 0.0, money.Num(math.NaN()))
	require.Equal(t, 0.0, money.Num(math.Inf(1)))
	require.Equal(t, -3.5, money.Num(-3.5))

	require.Equal(t, 0.0, money.NonNeg(-10))
	require.Equal(t, 2.5, money.NonNeg(2.5))

	require.Equal(t, 0, money.Int(-4))
	require.Equal(t, 3, money.Int(3.9))
	require.Equal(t, 0, money.Int(math.NaN()))
}

func TestRound2(t *testing.T) {
	require.Equal(t, 125.0, money.Round2(5000*0.025))
	require.Equal(t, 0.01, money.Round2(0.005))
	require.Equal(t, 0.0, money.Round2(math.NaN()))
	require.Equal(t, int64(12345), money.MinorUnits(123.45))
	require.Equal(t, int64(200), money.MinorUnits(1.9999))
}
