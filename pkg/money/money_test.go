package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		cents int64
	}{
		{"plain", "59.97", 5997},
		{"leading minus", "-59.97", -5997},
		{"dollar sign", "$1,234.56", 123456},
		{"parentheses", "(68.02)", -6802},
		{"trailing minus", "68.02-", -6802},
		{"dollar and trailing minus", "$68.02-", -6802},
		{"unicode minus", "−42.17", -4217},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.cents, a.Cents())
		})
	}

	t.Run("rejects non-numeric", func(t *testing.T) {
		_, err := Parse("not-a-number")
		assert.Error(t, err)
	})
}

func TestAmount_SignHelpers(t *testing.T) {
	debit := New(-4217)
	credit := New(5997)

	assert.True(t, debit.IsNegative())
	assert.True(t, credit.IsPositive())
	assert.True(t, New(0).IsZero())

	assert.Equal(t, int64(4217), debit.Abs().Cents())
	assert.Equal(t, int64(-5997), credit.Negate().Cents())
	assert.Equal(t, int64(1780), debit.Add(credit).Cents())
}

func TestAmount_Conversions(t *testing.T) {
	a := FromDecimal(decimal.RequireFromString("-42.17"))
	assert.Equal(t, int64(-4217), a.Cents())
	assert.InDelta(t, -42.17, a.Float64(), 1e-9)
	assert.Equal(t, "-42.17", a.String())
	assert.Equal(t, "-$42.17", a.Display())

	b := FromFloat(59.97)
	assert.Equal(t, int64(5997), b.Cents())
}
