package statement

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PayPal Credit (Synchrony) statements section their transaction table:
//
//	Transaction details
//	Date Reference # Description             Amount
//	Payments -$29.00
//	04/15 8521... PAYMENT - THANK YOU        -$29.00
//	Purchases and Other Debits $49.03
//	03/30 85...   PAYPAL PURCHASE            $30.77
//	ALIPAYUSINC                               <- continuation line
//	Total Fees Charged This Period $31.00
//	04/12 8533... LATE FEE                   $29.00
//
// The per-section sign convention in real scans is inconsistent, so it
// is a policy knob rather than hard-coded.
type PayPalCreditParser struct {
	policy SignPolicy
}

// SignPolicy fixes the direction each statement section resolves to.
// Sections absent from the map keep the sign the amount token carries.
type SignPolicy struct {
	Sections map[string]string
}

// DefaultSignPolicy treats purchases, fees and interest as debits and
// payments as credits.
func DefaultSignPolicy() SignPolicy {
	return SignPolicy{Sections: map[string]string{
		sectionPurchases: DirectionDebit,
		sectionFees:      DirectionDebit,
		sectionInterest:  DirectionDebit,
		sectionPayments:  DirectionCredit,
	}}
}

const (
	sectionPayments  = "payments"
	sectionPurchases = "purchases"
	sectionFees      = "fees"
	sectionInterest  = "interest"
)

func NewPayPalCreditParser(policy SignPolicy) *PayPalCreditParser {
	return &PayPalCreditParser{policy: policy}
}

func (p *PayPalCreditParser) Name() string { return "paypal-credit" }

var (
	paypalDueDateRE = regexp.MustCompile(`Payment due date\s+(\d{2})/(\d{2})/(\d{4})`)
	paypalDetailRE  = regexp.MustCompile(
		`^\s*(\d{2}/\d{2})\s+(\S+)\s+(.*\S)\s+(-?\$?\d[\d,]*\.\d{2})\s*$`)
	paypalDateStartRE = regexp.MustCompile(`^\d{2}/\d{2}`)
)

func (p *PayPalCreditParser) Matches(text string) bool {
	t := strings.ToUpper(text)
	return strings.Contains(t, "PAYPAL") &&
		strings.Contains(t, "TRANSACTION DETAILS") &&
		strings.Contains(t, "ACCOUNT NUMBER")
}

func (p *PayPalCreditParser) Parse(text string, src string) []ParsedRow {
	stmtYear, dueMonth := paypalStatementYear(text)
	note := "from " + filepath.Base(src) + " (PayPal credit detail)"

	lines := strings.Split(text, "\n")
	idx := paypalDetailStart(lines)
	if idx < 0 {
		return nil
	}

	var rows []ParsedRow
	var lastRow *ParsedRow
	section := ""

	for ; idx < len(lines); idx++ {
		line := lines[idx]
		if strings.Contains(line, "Cardholder news and information") {
			break
		}

		if sec := paypalSection(line); sec != "" {
			section = sec
			continue
		}

		m := paypalDetailRE.FindStringSubmatch(line)
		if m == nil {
			// Continuation line: merchant text wrapped under the row.
			if lastRow == nil {
				continue
			}
			stripped := strings.TrimSpace(line)
			if stripped == "" || paypalDateStartRE.MatchString(stripped) {
				continue
			}
			lastRow.Description = lastRow.Description + " " + stripped
			lastRow.Merchant = lastRow.Description
			continue
		}

		desc := squash(m[3])
		date := paypalTxnDate(m[1], stmtYear, dueMonth)

		amount, direction := p.signFor(section, m[4], desc)

		row := ParsedRow{
			Date:        date,
			Amount:      amount,
			Merchant:    desc,
			Description: desc,
			Category:    paypalCategory(section, desc),
			Source:      "PayPal Credit",
			Account:     "PayPal Credit",
			Direction:   direction,
			Notes:       note,
		}
		rows = append(rows, row)
		lastRow = &rows[len(rows)-1]
	}

	return rows
}

// signFor applies the section policy: a section pinned to debit always
// comes out negative, credit always positive. Unpinned sections keep
// whatever sign the token and hint words produce.
func (p *PayPalCreditParser) signFor(section, rawAmount, desc string) (string, string) {
	amount, ok := SignedAmount(rawAmount, desc)
	if !ok {
		return "0", DirectionDebit
	}

	switch p.policy.Sections[section] {
	case DirectionDebit:
		return amount.Abs().Neg().String(), DirectionDebit
	case DirectionCredit:
		return amount.Abs().String(), DirectionCredit
	}

	direction := DirectionDebit
	if amount.IsPositive() {
		direction = DirectionCredit
	}
	return amount.String(), direction
}

func paypalSection(line string) string {
	t := strings.ToUpper(line)
	switch {
	case strings.Contains(t, "PAYMENTS"):
		return sectionPayments
	case strings.Contains(t, "PURCHASES AND OTHER DEBITS"):
		return sectionPurchases
	case strings.Contains(t, "TOTAL FEES CHARGED THIS PERIOD") || strings.Contains(t, "FEES"):
		return sectionFees
	case strings.Contains(t, "TOTAL INTEREST CHARGED THIS PERIOD") || strings.Contains(t, "INTEREST CHARGED"):
		return sectionInterest
	}
	return ""
}

func paypalCategory(section, desc string) string {
	switch section {
	case sectionPurchases:
		return "Spending:Purchases"
	case sectionPayments:
		return "Transfer:Card Payment"
	case sectionFees:
		return "Fees:Card Fees"
	case sectionInterest:
		return "Fees:Interest"
	}
	if strings.Contains(strings.ToUpper(desc), "CASHBACK") {
		return "Rewards/Cashback"
	}
	return ""
}

// paypalDetailStart finds the first line after the table header row.
func paypalDetailStart(lines []string) int {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, "Transaction details") {
			start = i
			break
		}
	}
	if start < 0 {
		return -1
	}
	for i := start + 1; i < len(lines); i++ {
		if strings.Contains(lines[i], "Date") && strings.Contains(lines[i], "Amount") {
			return i + 1
		}
	}
	return start + 1
}

func paypalStatementYear(text string) (year, dueMonth int) {
	m := paypalDueDateRE.FindStringSubmatch(text)
	if m == nil {
		now := time.Now()
		return now.Year(), int(now.Month())
	}
	year, _ = strconv.Atoi(m[3])
	dueMonth, _ = strconv.Atoi(m[1])
	return year, dueMonth
}

// paypalTxnDate resolves MM/DD against the statement due date. December
// charges on a January due-date statement belong to the prior year.
func paypalTxnDate(mmdd string, stmtYear, dueMonth int) string {
	parts := strings.SplitN(mmdd, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	day, _ := strconv.Atoi(parts[1])

	year := stmtYear
	if dueMonth == 1 && month > dueMonth {
		year = stmtYear - 1
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
