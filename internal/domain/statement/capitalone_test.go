package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const capOneStatementText = `Platinum Card | Platinum Mastercard ending in 0728
Dec 10, 2024 - Jan 09, 2025 | 31 days in Billing Cycle

JONATHAN KENDALL #0728: Payments, Credits and Adjustments
Trans Date Post Date Description Amount
Dec 28 Dec 29 CAPITAL ONE MOBILE PYMT AuthDate 28-Dec - $95.00
Total Transactions for This Period

JONATHAN KENDALL #0728: Transactions
Trans Date Post Date Description Amount
Dec 15 Dec 16 WALMART SUPERCENTER CA $59.97
Jan 02 Jan 03 CHEVRON 0092 SAN DIEGO $40.12
Jan 05 Jan 06 INTEREST CHARGE ON PURCHASES $12.43
Total Transactions for This Period $112.52
`

func TestCapitalOneParser_Matches(t *testing.T) {
	p := NewCapitalOneParser()
	assert.True(t, p.Matches(capOneStatementText))
	assert.False(t, p.Matches("generic statement text 12.34"))
}

func TestCapitalOneParser_Sections(t *testing.T) {
	rows := NewCapitalOneParser().Parse(capOneStatementText, "capone_jan_ocr.txt")
	require.Len(t, rows, 4)

	payment := rows[0]
	assert.Equal(t, "2024-12-28", payment.Date)
	assert.Equal(t, "95.00", payment.Amount)
	assert.Equal(t, DirectionCredit, payment.Direction)
	assert.Equal(t, "Transfer:Card Payment", payment.Category)
	assert.Equal(t, "Capital One 0728", payment.Account)

	walmart := rows[1]
	assert.Equal(t, "2024-12-15", walmart.Date)
	assert.Equal(t, "-59.97", walmart.Amount)
	assert.Equal(t, DirectionDebit, walmart.Direction)
	assert.Equal(t, "Groceries/General Merchandise", walmart.Category)

	// Jan dates belong to the end year across the December seam.
	chevron := rows[2]
	assert.Equal(t, "2025-01-02", chevron.Date)
	assert.Equal(t, "-40.12", chevron.Amount)
	assert.Equal(t, "Transportation/Gas", chevron.Category)
}

func TestCapitalOneParser_InterestCharge(t *testing.T) {
	rows := NewCapitalOneParser().Parse(capOneStatementText, "capone_jan_ocr.txt")
	require.Len(t, rows, 4)

	interest := rows[3]
	assert.Equal(t, "Fees:Interest", interest.Category)
	assert.Equal(t, "-12.43", interest.Amount)
	assert.Equal(t, DirectionDebit, interest.Direction)
}

func TestCapitalOneParser_IgnoresHeaderAndTotals(t *testing.T) {
	rows := NewCapitalOneParser().Parse(capOneStatementText, "capone_ocr.txt")
	for _, r := range rows {
		assert.NotContains(t, r.Merchant, "Trans Date")
		assert.NotContains(t, r.Merchant, "Total Transactions")
	}
}
