package statement

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericParser_FallbackLine(t *testing.T) {
	p := NewGenericParser("OCR")
	rows := p.Parse("11/25 WALMART -59.97\n", "screenshot.txt")
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "11/25", row.Date)
	assert.Equal(t, "-59.97", row.Amount)
	assert.Equal(t, "11/25 WALMART -59.97", row.Merchant)
	assert.Equal(t, "WALMART", row.Description)
	assert.Equal(t, DirectionDebit, row.Direction)
	assert.Equal(t, "OCR", row.Source)
}

func TestGenericParser_FullDates(t *testing.T) {
	p := NewGenericParser("OCR")
	text := `2025-11-29 GROCERY OUTLET 23.10
11/29/25 CHEVRON STATION 40.00
`
	rows := p.Parse(text, "notes.txt")
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-11-29", rows[0].Date)
	assert.Equal(t, "11/29/25", rows[1].Date)
	// No explicit sign and no credit hints means debit.
	assert.Equal(t, DirectionDebit, rows[0].Direction)
	assert.True(t, rows[0].Amount[0] == '-')
}

func TestGenericParser_CreditAndTransferDirections(t *testing.T) {
	p := NewGenericParser("OCR")
	text := `12/01 PAYROLL DIRECT DEPOSIT 1,500.00
12/02 ONLINE TRANSFER TO SAV 5072 200.00
`
	rows := p.Parse(text, "acct.txt")
	require.Len(t, rows, 2)

	assert.Equal(t, DirectionCredit, rows[0].Direction)
	assert.Equal(t, "1500.00", rows[0].Amount)

	assert.Equal(t, DirectionTransfer, rows[1].Direction)
}

func TestGenericParser_SkipsJunkLines(t *testing.T) {
	p := NewGenericParser("OCR")
	text := `Account Summary
Available balance
11/25 WALMART -59.97
short 1.00
`
	rows := p.Parse(text, "mixed.txt")
	require.Len(t, rows, 1)
	assert.Equal(t, "WALMART", rows[0].Description)
}

func TestGenericParser_RejectedLines(t *testing.T) {
	p := NewGenericParser("OCR")
	text := `Available balance $1,254.69
11/25 WALMART -59.97
plain text with no numbers
`
	rows, rejected := p.ParseLines(text, "/uploads/mixed_ocr.txt")
	require.Len(t, rows, 1)
	require.Len(t, rejected, 1)

	rej := rejected[0]
	assert.Equal(t, "mixed_ocr.txt", rej.FileName)
	assert.Equal(t, 1, rej.LineNo)
	assert.Equal(t, "no_generic_match", rej.Reason)
	assert.Contains(t, rej.RawText, "Available balance")
}

func TestGenericParser_GeneratedLines(t *testing.T) {
	faker := gofakeit.New(42)
	p := NewGenericParser("OCR")

	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "%d/%d %s %s %.2f\n",
			faker.Number(1, 12), faker.Number(1, 28),
			strings.ToUpper(faker.Company()), strings.ToUpper(faker.BuzzWord()),
			faker.Price(1, 5000))
	}

	rows := p.Parse(b.String(), "generated.txt")
	require.NotEmpty(t, rows)

	for _, row := range rows {
		assert.NotEmpty(t, row.Date)
		assert.NotEmpty(t, row.Amount)
		assert.Contains(t,
			[]string{DirectionDebit, DirectionCredit, DirectionTransfer}, row.Direction)
		if row.Direction == DirectionDebit {
			assert.True(t, strings.HasPrefix(row.Amount, "-"),
				"debit amount must carry a minus: %q", row.Amount)
		}
	}
}

func TestGenericParser_SourceDetection(t *testing.T) {
	p := NewGenericParser("OCR")
	rows := p.Parse("11/25 ZELLE FROM JANE 120.00\n", "chase_9765_ocr.txt")
	require.Len(t, rows, 1)
	assert.Equal(t, "Chase", rows[0].Source)
	assert.Equal(t, "Premier Plus Ckg 9765", rows[0].Account)
}
