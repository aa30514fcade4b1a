package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/statement-pipeline/internal/domain/statement"
)

func TestNormalize_FallbackRow(t *testing.T) {
	n := &Normalizer{RefYear: 2025, DefaultSource: "OCR"}

	tx, err := n.Normalize(statement.ParsedRow{
		Date:      "11/25",
		Amount:    "-59.97",
		Merchant:  "11/25 WALMART -59.97",
		Direction: "debit",
		Source:    "OCR",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, -59.97, tx.Amount)
	assert.Equal(t, "debit", tx.Direction)
	assert.Equal(t, "OCR", tx.SourceSystem)
	assert.Equal(t, "11/25 WALMART -59.97", tx.Merchant)
	assert.Equal(t, tx.Merchant, tx.Description, "description falls back to merchant")
}

func TestNormalize_DateFormats(t *testing.T) {
	n := &Normalizer{RefYear: 2024}

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-11-29", time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)},
		{"11/29/2025", time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)},
		{"11/29/25", time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)},
		{"1/2/25", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"Jan 2, 2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"12/03", time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tx, err := n.Normalize(statement.ParsedRow{Date: tt.raw, Amount: "1.00", Merchant: "X"})
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(tx.Date))
		})
	}
}

func TestNormalize_PlaceholderDateRejected(t *testing.T) {
	n := New("OCR")

	_, err := n.Normalize(statement.ParsedRow{Date: "2025-11-XX", Amount: "1.00"})
	require.Error(t, err)

	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "2025-11-XX", dateErr.Raw)
	assert.Equal(t, "placeholder", dateErr.Reason)
}

func TestNormalize_UnparsableDateRejected(t *testing.T) {
	n := New("OCR")
	_, err := n.Normalize(statement.ParsedRow{Date: "not a date", Amount: "1.00"})

	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "not a date", dateErr.Raw)
}

func TestNormalize_AmountHandling(t *testing.T) {
	n := &Normalizer{RefYear: 2025}

	t.Run("empty amount defaults to zero", func(t *testing.T) {
		tx, err := n.Normalize(statement.ParsedRow{Date: "2025-01-01", Merchant: "X"})
		require.NoError(t, err)
		assert.Zero(t, tx.Amount)
	})

	t.Run("currency formatting stripped", func(t *testing.T) {
		tx, err := n.Normalize(statement.ParsedRow{
			Date: "2025-01-01", Amount: "$1,234.56", Direction: "credit", Merchant: "X",
		})
		require.NoError(t, err)
		assert.Equal(t, 1234.56, tx.Amount)
	})

	t.Run("parenthesized amount is negative", func(t *testing.T) {
		tx, err := n.Normalize(statement.ParsedRow{
			Date: "2025-01-01", Amount: "(68.02)", Direction: "debit", Merchant: "X",
		})
		require.NoError(t, err)
		assert.Equal(t, -68.02, tx.Amount)
	})

	t.Run("garbage amount rejected", func(t *testing.T) {
		_, err := n.Normalize(statement.ParsedRow{Date: "2025-01-01", Amount: "12.3a"})
		var amountErr *InvalidAmountError
		require.ErrorAs(t, err, &amountErr)
		assert.Equal(t, "12.3a", amountErr.Raw)
	})
}

func TestNormalize_SignInvariant(t *testing.T) {
	n := &Normalizer{RefYear: 2025}

	t.Run("debit forces non-positive", func(t *testing.T) {
		tx, err := n.Normalize(statement.ParsedRow{
			Date: "2025-01-01", Amount: "59.97", Direction: "debit", Merchant: "X",
		})
		require.NoError(t, err)
		assert.Equal(t, -59.97, tx.Amount)
	})

	t.Run("credit forces non-negative", func(t *testing.T) {
		tx, err := n.Normalize(statement.ParsedRow{
			Date: "2025-01-01", Amount: "-500.00", Direction: "credit", Merchant: "X",
		})
		require.NoError(t, err)
		assert.Equal(t, 500.00, tx.Amount)
	})

	t.Run("missing direction defaults to debit", func(t *testing.T) {
		tx, err := n.Normalize(statement.ParsedRow{
			Date: "2025-01-01", Amount: "10.00", Merchant: "X",
		})
		require.NoError(t, err)
		assert.Equal(t, "debit", tx.Direction)
		assert.Equal(t, -10.00, tx.Amount)
	})

	t.Run("transfer keeps its sign", func(t *testing.T) {
		tx, err := n.Normalize(statement.ParsedRow{
			Date: "2025-01-01", Amount: "-200.00", Direction: "transfer", Merchant: "X",
		})
		require.NoError(t, err)
		assert.Equal(t, -200.00, tx.Amount)
		assert.Equal(t, "transfer", tx.Direction)
	})
}

func TestNormalize_FieldDefaults(t *testing.T) {
	n := &Normalizer{RefYear: 2025, DefaultSource: "Statement OCR", DefaultAccount: "Unknown"}

	tx, err := n.Normalize(statement.ParsedRow{
		Date: "2025-01-01", Amount: "1.00", Description: "COFFEE SHOP",
	})
	require.NoError(t, err)
	assert.Equal(t, "COFFEE SHOP", tx.Merchant, "merchant falls back to description")
	assert.Equal(t, "Statement OCR", tx.SourceSystem)
	assert.Equal(t, "Unknown", tx.AccountName)
}

func TestIdentityKey(t *testing.T) {
	a := NormalizedTransaction{
		Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Amount: -59.97,
		Merchant: "WALMART", AccountName: "Ckg 9765", SourceSystem: "Chase",
	}
	b := a
	assert.Equal(t, a.IdentityKey(), b.IdentityKey())

	b.Amount = -59.98
	assert.NotEqual(t, a.IdentityKey(), b.IdentityKey())
}

func TestRejectionStats(t *testing.T) {
	s := NewRejectionStats()

	s.RecordError(&InvalidDateError{Raw: "2025-11-XX", Reason: "placeholder"})
	s.RecordError(&InvalidDateError{Raw: "2025-11-XX", Reason: "placeholder"})
	s.RecordError(&InvalidAmountError{Raw: "12.3a"})
	s.Record(ReasonDuplicateRow, "dup line")

	assert.Equal(t, 2, s.Count(ReasonInvalidDate))
	assert.Equal(t, 1, s.Count(ReasonInvalidAmount))
	assert.Equal(t, 4, s.Total())
	assert.Equal(t, []string{"2025-11-XX"}, s.Samples(ReasonInvalidDate), "samples stay distinct")

	summary := s.Summary()
	assert.Contains(t, summary, "invalid_date=2")
	assert.Contains(t, summary, `"2025-11-XX"`)
}

func TestRejectionStats_SampleCap(t *testing.T) {
	s := NewRejectionStats()
	for i := 0; i < 20; i++ {
		s.Record(ReasonInvalidDate, string(rune('a'+i)))
	}
	assert.Equal(t, 20, s.Count(ReasonInvalidDate))
	assert.Len(t, s.Samples(ReasonInvalidDate), maxSamplesPerReason)
}
