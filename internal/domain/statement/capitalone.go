package statement

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerlens/statement-pipeline/internal/domain/categorize"
)

// Capital One card statements carry two tables, each line shaped
// "Trans Date  Post Date  Description  Amount":
//
//	#1234: Payments, Credits and Adjustments   -> card payments
//	#1234: Transactions                        -> spending
//
// The statement period ("Dec 10, 2024 - Jan 09, 2025") supplies the
// year per month abbreviation, including the December/January seam.
type CapitalOneParser struct{}

func NewCapitalOneParser() *CapitalOneParser { return &CapitalOneParser{} }

func (p *CapitalOneParser) Name() string { return "capitalone" }

var (
	capOneAnchorRE = regexp.MustCompile(`(?i)Mastercard ending in\s+(\d{4})`)
	capOnePeriodRE = regexp.MustCompile(
		`([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})\s*-\s*([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})`)
	capOneLineRE = regexp.MustCompile(
		`^\s*([A-Za-z]{3,9})\s+(\d{1,2})\s+([A-Za-z]{3,9})\s+(\d{1,2})\s+(.+?)\s+(-?\s*\$?\d[\d,]*\.\d{2})\s*$`)
)

func (p *CapitalOneParser) Matches(text string) bool {
	return capOneAnchorRE.MatchString(text)
}

type capOnePeriod struct {
	startMonth, startYear int
	endMonth, endYear     int
}

// yearFor maps a transaction month to the statement year, bumping to
// the end year for months past the December/January seam.
func (p capOnePeriod) yearFor(month int) int {
	if month == p.startMonth {
		return p.startYear
	}
	if month == p.endMonth {
		return p.endYear
	}
	if p.startMonth != 0 && month < p.startMonth && p.endYear > p.startYear {
		return p.endYear
	}
	if p.startYear != 0 {
		return p.startYear
	}
	return time.Now().Year()
}

func (p *CapitalOneParser) Parse(text string, src string) []ParsedRow {
	account := "Capital One"
	if m := capOneAnchorRE.FindStringSubmatch(text); m != nil {
		account = "Capital One " + m[1]
	}
	period := capOneStatementPeriod(text)
	note := "from " + filepath.Base(src)

	const (
		modeNone = iota
		modePayments
		modeSpend
	)
	mode := modeNone

	var rows []ParsedRow
	for _, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)

		switch {
		case strings.Contains(s, "Payments, Credits and Adjustments"):
			mode = modePayments
			continue
		case strings.HasSuffix(s, ": Transactions") || s == "Transactions":
			mode = modeSpend
			continue
		case strings.HasPrefix(s, "Total Transactions") || strings.HasPrefix(s, "Total Fees"):
			mode = modeNone
			continue
		}
		if mode == modeNone || s == "" {
			continue
		}
		if strings.HasPrefix(s, "Trans Date") {
			continue
		}

		m := capOneLineRE.FindStringSubmatch(raw)
		if m == nil {
			continue
		}

		month := monthNumber(m[1])
		if month == 0 {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		desc := squash(m[5])

		amount, ok := ParseAmountToken(strings.ReplaceAll(m[6], " ", ""))
		if !ok {
			continue
		}

		date := fmt.Sprintf("%04d-%02d-%02d", period.yearFor(month), month, day)

		row := ParsedRow{
			Date:        date,
			Merchant:    desc,
			Description: desc,
			Source:      "Capital One",
			Account:     account,
			Notes:       note,
		}
		if mode == modePayments {
			row.Amount = amount.Abs().String()
			row.Direction = DirectionCredit
			row.Category = "Transfer:Card Payment"
		} else {
			row.Amount = amount.Abs().Neg().String()
			row.Direction = DirectionDebit
			if strings.Contains(strings.ToUpper(desc), "INTEREST CHARGE") {
				row.Category = "Fees:Interest"
			} else {
				row.Category = categorize.Guess(desc)
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func capOneStatementPeriod(text string) capOnePeriod {
	for _, line := range strings.Split(text, "\n") {
		m := capOnePeriodRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var p capOnePeriod
		p.startMonth = monthNumber(m[1])
		p.startYear, _ = strconv.Atoi(m[3])
		p.endMonth = monthNumber(m[4])
		p.endYear, _ = strconv.Atoi(m[6])
		return p
	}
	year := time.Now().Year()
	return capOnePeriod{startYear: year, endYear: year}
}
