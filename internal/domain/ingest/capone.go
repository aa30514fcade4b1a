// Package ingest reads bank CSV exports that bypass the OCR path.
// Capital One offers a clean CSV download for card accounts, so those
// statements can skip image recognition entirely.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/ledgerlens/statement-pipeline/internal/domain/categorize"
	"github.com/ledgerlens/statement-pipeline/internal/domain/statement"
)

// CapitalOneRow mirrors the card CSV export: debits and credits are
// separate columns and dates are ISO.
type CapitalOneRow struct {
	TransactionDate string `csv:"Transaction Date"`
	PostedDate      string `csv:"Posted Date"`
	CardNo          string `csv:"Card No."`
	Description     string `csv:"Description"`
	Category        string `csv:"Category"`
	Debit           string `csv:"Debit"`
	Credit          string `csv:"Credit"`
}

// ReadCapitalOneCSV parses one CSV export into rows the normalizer can
// take as-is. Charges come out negative, payments and refunds positive.
func ReadCapitalOneCSV(r io.Reader, fileName string) ([]statement.ParsedRow, error) {
	var csvRows []*CapitalOneRow
	if err := gocsv.Unmarshal(r, &csvRows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}

	rows := make([]statement.ParsedRow, 0, len(csvRows))
	for _, raw := range csvRows {
		date := strings.TrimSpace(raw.TransactionDate)
		description := strings.TrimSpace(raw.Description)
		if date == "" || description == "" {
			continue
		}

		amount := csvAmount(raw.Credit).Sub(csvAmount(raw.Debit))
		direction := statement.DirectionDebit
		if amount.IsPositive() {
			direction = statement.DirectionCredit
		}
		if statement.IsTransfer(description) {
			direction = statement.DirectionTransfer
		}

		category := strings.TrimSpace(raw.Category)
		if category == "" {
			category = categorize.Guess(description)
		}

		rows = append(rows, statement.ParsedRow{
			Date:        date,
			Amount:      amount.String(),
			Merchant:    description,
			Description: description,
			Category:    category,
			Source:      "Capital One CSV",
			Account:     capitalOneAccount(raw.CardNo),
			Direction:   direction,
		})
	}
	return rows, nil
}

// ReadCapitalOneDir reads every *.csv under dir, sorted by name.
func ReadCapitalOneDir(dir string) ([]statement.ParsedRow, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	var rows []statement.ParsedRow
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		fileRows, err := ReadCapitalOneCSV(f, filepath.Base(path))
		f.Close()
		if err != nil {
			return nil, err
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

func csvAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "$", ""), ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func capitalOneAccount(cardNo string) string {
	cardNo = strings.TrimSpace(cardNo)
	if len(cardNo) >= 4 {
		cardNo = cardNo[len(cardNo)-4:]
	}
	if cardNo == "" {
		cardNo = "Unknown"
	}
	return "Capital One " + cardNo
}
