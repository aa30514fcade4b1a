package statement

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledgerlens/statement-pipeline/internal/domain/categorize"
)

// RejectedLine records a statement line that looked like money but
// could not be turned into a row.
type RejectedLine struct {
	FileName   string
	LineNo     int
	RawText    string
	AmountText string
	Reason     string
}

var (
	genericDateRE = regexp.MustCompile(
		`^\d{4}-\d{2}-\d{2}$` + // 2025-11-29
			`|^\d{1,2}/\d{1,2}(?:/\d{2,4})?$`) // 11/29, 11/29/25, 11/29/2025
	genericAmountRE = regexp.MustCompile(`^[-+]?\$?\d[\d,]*\.\d{2}$`)
)

// GenericParser is the last-resort line scanner: first date-like token,
// last amount-like token, text between is the description. Crude and
// lossy on purpose.
type GenericParser struct {
	defaultSource string
}

// NewGenericParser creates the fallback parser. Rows with no better
// source hint get defaultSource.
func NewGenericParser(defaultSource string) *GenericParser {
	if defaultSource == "" {
		defaultSource = "OCR"
	}
	return &GenericParser{defaultSource: defaultSource}
}

func (p *GenericParser) Name() string { return "generic" }

// Matches always claims the text; the registry places this parser last.
func (p *GenericParser) Matches(text string) bool { return true }

func (p *GenericParser) Parse(text string, src string) []ParsedRow {
	rows, _ := p.ParseLines(text, src)
	return rows
}

// ParseLines parses every line and also reports lines that carry an
// amount-looking token but failed to normalize.
func (p *GenericParser) ParseLines(text string, src string) ([]ParsedRow, []RejectedLine) {
	var rows []ParsedRow
	var rejected []RejectedLine

	for i, line := range strings.Split(text, "\n") {
		row, ok := p.parseLine(line, src)
		if ok {
			rows = append(rows, row)
			continue
		}
		if strings.TrimSpace(line) == "" || !HasAmountToken(line) {
			continue
		}
		rejected = append(rejected, RejectedLine{
			FileName: filepath.Base(src),
			LineNo:   i + 1,
			RawText:  strings.TrimRight(line, "\n"),
			Reason:   "no_generic_match",
		})
	}
	return rows, rejected
}

func (p *GenericParser) parseLine(line string, src string) (ParsedRow, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return ParsedRow{}, false
	}

	tokens := strings.Fields(s)
	if len(tokens) < 3 {
		return ParsedRow{}, false
	}

	dateIdx := -1
	for i, t := range tokens {
		if genericDateRE.MatchString(t) {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return ParsedRow{}, false
	}

	amountIdx := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if genericAmountRE.MatchString(tokens[i]) {
			amountIdx = i
			break
		}
	}
	if amountIdx < 0 || amountIdx <= dateIdx {
		return ParsedRow{}, false
	}

	description := strings.Join(tokens[dateIdx+1:amountIdx], " ")
	if description == "" {
		return ParsedRow{}, false
	}

	amount, ok := SignedAmount(tokens[amountIdx], description)
	if !ok {
		return ParsedRow{}, false
	}

	direction := DirectionDebit
	if amount.IsPositive() {
		direction = DirectionCredit
	}
	if IsTransfer(description) {
		direction = DirectionTransfer
	}

	source, account := DetectSourceAndAccount(line, src, p.defaultSource)

	return ParsedRow{
		Date:        tokens[dateIdx],
		Amount:      amount.String(),
		Merchant:    squash(s),
		Description: description,
		Category:    categorize.Guess(description),
		Source:      source,
		Account:     account,
		Direction:   direction,
		Notes:       "from " + filepath.Base(src),
	}, true
}
