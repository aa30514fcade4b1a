package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/ledgerlens/statement-pipeline/internal/domain/categorize"
	"github.com/ledgerlens/statement-pipeline/internal/domain/statement/normalizer"
)

// transactionCSVRow is the flat CSV shape for one emitted transaction.
type transactionCSVRow struct {
	Date         string `csv:"Date"`
	Amount       string `csv:"Amount"`
	Merchant     string `csv:"Merchant"`
	Description  string `csv:"Description"`
	Category     string `csv:"Category"`
	Type         string `csv:"Type"`
	Source       string `csv:"Source"`
	Account      string `csv:"Account"`
	Direction    string `csv:"Direction"`
	ImportSource string `csv:"Import Source"`
}

// WriteTransactionsCSV writes emitted transactions as a CSV snapshot,
// ISO dates and two-decimal amounts. Type is the semantic grouping
// label derived from the description.
func WriteTransactionsCSV(txs []normalizer.NormalizedTransaction, w io.Writer) error {
	rows := make([]*transactionCSVRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, &transactionCSVRow{
			Date:         tx.Date.Format("2006-01-02"),
			Amount:       fmt.Sprintf("%.2f", tx.Amount),
			Merchant:     tx.Merchant,
			Description:  tx.Description,
			Category:     tx.Category,
			Type:         categorize.Classify(tx.Description),
			Source:       tx.SourceSystem,
			Account:      tx.AccountName,
			Direction:    tx.Direction,
			ImportSource: tx.ImportSource,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	return nil
}
