// Package normalizer converts raw parser rows into canonical
// transactions: flexible date parsing, amount coercion, sign
// enforcement and field defaulting. Bad rows come back as typed
// rejections, never panics.
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerlens/statement-pipeline/internal/domain/statement"
	"github.com/ledgerlens/statement-pipeline/pkg/money"
)

// NormalizedTransaction is the canonical, immutable output unit of the
// pipeline. Sign always agrees with direction: debit means amount <= 0,
// credit means amount >= 0. Transfer rows keep the sign they came with.
type NormalizedTransaction struct {
	Date         time.Time
	Amount       float64
	Merchant     string
	Description  string
	Category     string
	SourceSystem string
	AccountName  string
	Direction    string
	Notes        string
	Checksum     string
	ImportSource string
}

// IdentityKey is the in-run duplicate suppression key. Two rows with
// the same identity are the same transaction sighted twice.
func (t NormalizedTransaction) IdentityKey() string {
	return fmt.Sprintf("%s|%.2f|%s|%s|%s",
		t.Date.Format("2006-01-02"), t.Amount, t.Merchant, t.AccountName, t.SourceSystem)
}

// InvalidDateError marks a row whose date is a placeholder or
// unparsable. Raw carries the offending string for diagnostics.
type InvalidDateError struct {
	Raw    string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Raw, e.Reason)
}

// InvalidAmountError marks a row whose amount is present but not money.
type InvalidAmountError struct {
	Raw string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q", e.Raw)
}

// Normalizer applies the canonical normalization steps. RefYear anchors
// month/day dates that carry no year; zero means the current year.
type Normalizer struct {
	RefYear        int
	DefaultSource  string
	DefaultAccount string
}

// New returns a normalizer with the given fallback source label.
func New(defaultSource string) *Normalizer {
	return &Normalizer{DefaultSource: defaultSource}
}

var dateFormats = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
}

// Normalize converts one parsed row. The step order is fixed: date,
// amount, sign, field defaults.
func (n *Normalizer) Normalize(row statement.ParsedRow) (NormalizedTransaction, error) {
	date, err := n.parseDate(row.Date)
	if err != nil {
		return NormalizedTransaction{}, err
	}

	amount, err := parseAmount(row.Amount)
	if err != nil {
		return NormalizedTransaction{}, err
	}

	direction := strings.ToLower(strings.TrimSpace(row.Direction))
	if direction == "" {
		direction = statement.DirectionDebit
	}
	switch direction {
	case statement.DirectionDebit:
		if amount > 0 {
			amount = -amount
		}
	case statement.DirectionCredit:
		if amount < 0 {
			amount = -amount
		}
	}

	description := strings.TrimSpace(row.Description)
	merchant := strings.TrimSpace(row.Merchant)
	if description == "" {
		description = merchant
	}
	if merchant == "" {
		merchant = description
	}

	source := firstNonEmpty(row.Source, n.DefaultSource)
	account := firstNonEmpty(row.Account, n.DefaultAccount)

	return NormalizedTransaction{
		Date:         date,
		Amount:       amount,
		Merchant:     merchant,
		Description:  description,
		Category:     strings.TrimSpace(row.Category),
		SourceSystem: source,
		AccountName:  account,
		Direction:    direction,
		Notes:        strings.TrimSpace(row.Notes),
	}, nil
}

// parseDate accepts ISO dates, US slash dates with two or four digit
// years, month-name dates, and bare MM/DD anchored to RefYear.
// Placeholder dates like 2025-11-XX are rejected outright.
func (n *Normalizer) parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, &InvalidDateError{Raw: raw, Reason: "empty"}
	}
	if strings.Contains(strings.ToUpper(s), "XX") {
		return time.Time{}, &InvalidDateError{Raw: raw, Reason: "placeholder"}
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	// MM/DD without a year.
	if parts := strings.Split(s, "/"); len(parts) == 2 {
		month, merr := strconv.Atoi(parts[0])
		day, derr := strconv.Atoi(parts[1])
		if merr == nil && derr == nil && month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			year := n.RefYear
			if year == 0 {
				year = time.Now().Year()
			}
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, &InvalidDateError{Raw: raw, Reason: "unrecognized format"}
}

// parseAmount coerces a statement amount string through integer cents
// so binary-float drift never reaches the stored value. Absent amounts
// default to zero rather than erroring.
func parseAmount(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	amount, err := money.Parse(raw)
	if err != nil {
		return 0, &InvalidAmountError{Raw: raw}
	}
	return amount.Float64(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
