package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/statement-pipeline/internal/domain/statement"
)

const capOneCSV = `Transaction Date,Posted Date,Card No.,Description,Category,Debit,Credit
2025-11-20,2025-11-21,1234567890129765,WALMART SUPERCENTER,Merchandise,59.97,
2025-11-22,2025-11-23,9765,CAPITAL ONE MOBILE PYMT,Payment/Credit,,150.00
,,,BLANK ROW,,,
2025-11-24,2025-11-25,9765,CHEVRON 0123456,,40.00,
`

func TestReadCapitalOneCSV(t *testing.T) {
	rows, err := ReadCapitalOneCSV(strings.NewReader(capOneCSV), "november.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3, "blank rows are skipped")

	charge := rows[0]
	assert.Equal(t, "2025-11-20", charge.Date)
	assert.Equal(t, "-59.97", charge.Amount)
	assert.Equal(t, "WALMART SUPERCENTER", charge.Merchant)
	assert.Equal(t, "Merchandise", charge.Category, "CSV category wins when present")
	assert.Equal(t, statement.DirectionDebit, charge.Direction)
	assert.Equal(t, "Capital One 9765", charge.Account)
	assert.Equal(t, "Capital One CSV", charge.Source)

	payment := rows[1]
	assert.Equal(t, "150.00", payment.Amount)
	assert.Equal(t, statement.DirectionCredit, payment.Direction)

	gas := rows[2]
	assert.Equal(t, "-40.00", gas.Amount)
	assert.Equal(t, "Transportation/Gas", gas.Category, "missing CSV category falls back to keyword guess")
}

func TestReadCapitalOneDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte(capOneCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"),
		[]byte("Transaction Date,Posted Date,Card No.,Description,Category,Debit,Credit\n2025-10-01,2025-10-02,9765,NETFLIX.COM,,15.49,\n"), 0o644))

	rows, err := ReadCapitalOneDir(dir)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "NETFLIX.COM", rows[0].Merchant, "files are read in name order")
}

func TestReadCapitalOneDir_Empty(t *testing.T) {
	rows, err := ReadCapitalOneDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
