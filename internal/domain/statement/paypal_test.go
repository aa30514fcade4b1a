package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paypalStatementText = `PayPal Credit
Account number ending in 1234
Payment due date 01/15/2025

Transaction details
Date Reference # Description Amount
Payments -$29.00
12/15 85211234567 PAYMENT - THANK YOU -$29.00
Purchases and Other Debits $49.03
12/30 85219876543 PAYPAL PURCHASE $30.77
ALIPAYUSINC
Total Fees Charged This Period $31.00
01/02 85215550001 LATE FEE $29.00
Cardholder news and information
`

func TestPayPalCreditParser_Matches(t *testing.T) {
	p := NewPayPalCreditParser(DefaultSignPolicy())
	assert.True(t, p.Matches(paypalStatementText))
	assert.False(t, p.Matches("CHASE TRANSACTION DETAIL"))
}

func TestPayPalCreditParser_Sections(t *testing.T) {
	rows := NewPayPalCreditParser(DefaultSignPolicy()).Parse(paypalStatementText, "paypal_jan_ocr.txt")
	require.Len(t, rows, 3)

	payment := rows[0]
	assert.Equal(t, "29.00", payment.Amount)
	assert.Equal(t, DirectionCredit, payment.Direction)
	assert.Equal(t, "Transfer:Card Payment", payment.Category)
	assert.Equal(t, "2024-12-15", payment.Date, "Dec charges on a Jan due date are prior year")

	purchase := rows[1]
	assert.Equal(t, "-30.77", purchase.Amount)
	assert.Equal(t, DirectionDebit, purchase.Direction)
	assert.Equal(t, "Spending:Purchases", purchase.Category)

	fee := rows[2]
	assert.Equal(t, "-29.00", fee.Amount)
	assert.Equal(t, "Fees:Card Fees", fee.Category)
	assert.Equal(t, "2025-01-02", fee.Date)
}

func TestPayPalCreditParser_ContinuationLines(t *testing.T) {
	rows := NewPayPalCreditParser(DefaultSignPolicy()).Parse(paypalStatementText, "paypal_ocr.txt")
	require.Len(t, rows, 3)

	purchase := rows[1]
	assert.Equal(t, "PAYPAL PURCHASE ALIPAYUSINC", purchase.Description)
	assert.Equal(t, purchase.Description, purchase.Merchant)
}

func TestPayPalCreditParser_SignPolicyOverride(t *testing.T) {
	// Treat interest as a credit adjustment instead of a debit.
	policy := DefaultSignPolicy()
	policy.Sections[sectionInterest] = DirectionCredit

	text := `PAYPAL CREDIT
ACCOUNT NUMBER ending in 1234
Payment due date 06/15/2025

Transaction details
Date Reference # Description Amount
Total Interest Charged This Period $2.50
05/20 85210000001 INTEREST CHARGE $2.50
`
	rows := NewPayPalCreditParser(policy).Parse(text, "paypal_ocr.txt")
	require.Len(t, rows, 1)
	assert.Equal(t, "2.50", rows[0].Amount)
	assert.Equal(t, DirectionCredit, rows[0].Direction)
	assert.Equal(t, "Fees:Interest", rows[0].Category)
}
