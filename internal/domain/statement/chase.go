package statement

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Chase statement OCR layout, as produced by pdftotext -layout:
//
//	*start*transaction detail
//	Beginning Balance                             $1,234.56
//	12/16  Card Purchase ...   WALMART ...  68.02-   1,166.54
//	...
//	*end*transaction detail
//
// The statement period line ("December 15, 2023 through January 16,
// 2024") supplies the year; MM/DD dates roll into the end year when the
// month number drops.
type ChaseParser struct{}

func NewChaseParser() *ChaseParser { return &ChaseParser{} }

func (p *ChaseParser) Name() string { return "chase" }

var (
	chasePeriodRE = regexp.MustCompile(
		`([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})\s+through\s+([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})`)
	chaseTxnLineRE = regexp.MustCompile(
		`^\s*(\d{2})/(\d{2})\s+(.+?)\s+(-?\d[\d,]*\.\d{2})\s+(-?\d[\d,]*\.\d{2})\s*$`)
	chaseBareLineRE = regexp.MustCompile(
		`^\s*(.+?\S)\s+` + amountTokenPattern + `(?:\s+` + amountTokenPattern + `)?\s*$`)
	chasePayrollRE = regexp.MustCompile(
		`(\d{2})/(\d{2})\s+(.*?Direct Dep.*?PPD ID:\s*\d+)\s+(-?\d[\d,]*\.\d{2})\s+(-?\d[\d,]*\.\d{2})`)
)

func (p *ChaseParser) Matches(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "*start*transaction detail") {
		return true
	}
	// PayPal Credit statements also say "Transaction details"; leave
	// those to their own parser.
	upper := strings.ToUpper(text)
	return strings.Contains(upper, "TRANSACTION DETAIL") &&
		!strings.Contains(upper, "PAYPAL")
}

func (p *ChaseParser) Parse(text string, src string) []ParsedRow {
	startYear, endYear := chaseStatementYears(text)
	note := "from " + filepath.Base(src)

	var rows []ParsedRow
	currentYear := startYear
	if currentYear == 0 {
		currentYear = endYear
	}
	prevMonth := 0
	lastDate := ""

	for _, line := range chaseDetailLines(text) {
		if m := chaseTxnLineRE.FindStringSubmatch(line); m != nil {
			month, _ := strconv.Atoi(m[1])
			day, _ := strconv.Atoi(m[2])
			desc := squash(m[3])

			if prevMonth != 0 && month < prevMonth && endYear != 0 && currentYear == startYear {
				currentYear = endYear
			}
			prevMonth = month

			year := currentYear
			if year == 0 {
				year = time.Now().Year()
			}

			amount, ok := SignedAmount(m[4], desc+" "+m[4])
			if !ok {
				continue
			}
			date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			lastDate = date
			rows = append(rows, chaseRow(date, amount.String(), desc, "", note))
			continue
		}

		// Dateless merchant+amount lines ride on the last seen date,
		// or the statement period start. A trailing running balance may
		// follow the amount; ExtractTxnAmount picks the right token.
		if m := chaseBareLineRE.FindStringSubmatch(line); m != nil {
			desc := squash(m[1])
			if isChaseSummaryLine(desc) {
				continue
			}
			date := lastDate
			if date == "" {
				date = chasePeriodStartDate(text, startYear)
			}
			if date == "" {
				continue
			}
			_, token, ok := ExtractTxnAmount(line)
			if !ok {
				continue
			}
			amount, ok := SignedAmount(token, desc+" "+token)
			if !ok {
				continue
			}
			rows = append(rows, chaseRow(date, amount.String(), desc, "", note))
		}
	}

	// Payroll direct deposits sometimes land outside the detail block.
	for _, m := range chasePayrollRE.FindAllStringSubmatch(text, -1) {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		desc := squash(m[3])

		year := currentYear
		if year == 0 {
			year = time.Now().Year()
		}
		amount, ok := SignedAmount(m[4], desc+" "+m[4])
		if !ok {
			continue
		}
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)

		if chaseHasRow(rows, date, amount.String()) {
			continue
		}
		row := chaseRow(date, amount.String(), desc, "Income:Payroll", note+" (payroll line outside detail block)")
		rows = append(rows, row)
	}

	return rows
}

func chaseRow(date, amount, desc, category, note string) ParsedRow {
	direction := DirectionDebit
	if !strings.HasPrefix(amount, "-") {
		direction = DirectionCredit
	}
	return ParsedRow{
		Date:        date,
		Amount:      amount,
		Merchant:    desc,
		Description: desc,
		Category:    category,
		Source:      "Chase",
		Account:     "",
		Direction:   direction,
		Notes:       note,
	}
}

func chaseHasRow(rows []ParsedRow, date, amount string) bool {
	for _, r := range rows {
		if r.Date == date && r.Amount == amount {
			return true
		}
	}
	return false
}

// chaseDetailLines yields the lines inside transaction-detail blocks.
// Statements carry explicit *start*/*end* markers; screenshots only
// have a "TRANSACTION DETAIL" header line, in which case everything
// after it counts.
func chaseDetailLines(text string) []string {
	lines := strings.Split(text, "\n")

	var out []string
	inBlock := false
	sawMarker := false
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "*start*transaction detail") {
			inBlock = true
			sawMarker = true
			continue
		}
		if inBlock && strings.HasPrefix(strings.TrimSpace(strings.ToLower(line)), "*end*") {
			inBlock = false
			continue
		}
		if inBlock {
			out = append(out, line)
		}
	}
	if sawMarker {
		return out
	}

	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), "TRANSACTION DETAIL") {
			return lines[i+1:]
		}
	}
	return nil
}

func isChaseSummaryLine(desc string) bool {
	upper := strings.ToUpper(desc)
	return strings.HasPrefix(upper, "BEGINNING BALANCE") ||
		strings.HasPrefix(upper, "ENDING BALANCE") ||
		strings.HasPrefix(upper, "TOTAL")
}

func chaseStatementYears(text string) (startYear, endYear int) {
	for _, line := range strings.Split(text, "\n") {
		m := chasePeriodRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		startYear, _ = strconv.Atoi(m[3])
		endYear, _ = strconv.Atoi(m[6])
		return startYear, endYear
	}
	return 0, 0
}

func chasePeriodStartDate(text string, startYear int) string {
	if startYear == 0 {
		return ""
	}
	for _, line := range strings.Split(text, "\n") {
		m := chasePeriodRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		month := monthNumber(m[1])
		day, _ := strconv.Atoi(m[2])
		if month == 0 || day == 0 {
			return ""
		}
		return fmt.Sprintf("%04d-%02d-%02d", startYear, month, day)
	}
	return ""
}
