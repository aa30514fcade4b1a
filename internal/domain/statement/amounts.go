package statement

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountTokenPattern matches money-looking tokens as they come out of
// OCR: 68.02, $68.02, 68.02-, $68.02-, (68.02), $(68.02), -1,234.56.
const amountTokenPattern = `\$?\(?-?\d[\d,]*\.\d{2}\)?-?`

var amountTokenRE = regexp.MustCompile(amountTokenPattern)

// ParseAmountToken parses one money token into a signed decimal.
// Trailing minus, surrounding parentheses and leading minus all mean
// negative; dollar signs, commas and the unicode minus are normalized
// away. Returns ok=false for tokens that are not money.
func ParseAmountToken(token string) (decimal.Decimal, bool) {
	token = strings.TrimSpace(token)
	token = strings.ReplaceAll(token, "−", "-")

	negative := false

	if strings.HasSuffix(token, "-") {
		negative = true
		token = strings.TrimSuffix(token, "-")
	}
	if strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")") {
		negative = true
		token = token[1 : len(token)-1]
	}
	if strings.HasPrefix(token, "-") {
		negative = true
		token = strings.TrimPrefix(token, "-")
	}

	token = strings.ReplaceAll(token, "$", "")
	token = strings.ReplaceAll(token, ",", "")
	if token == "" {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, false
	}
	if negative && value.IsPositive() {
		value = value.Neg()
	}
	return value, true
}

// ExtractTxnAmount pulls the transaction amount from a tabular line of
// the shape DATE DESCRIPTION AMOUNT BALANCE. With two or more money
// tokens the second-to-last is the amount (the last is the running
// balance); with one it is the amount itself. The raw token comes back
// with its OCR sign markers intact so callers can still run it through
// SignedAmount.
func ExtractTxnAmount(line string) (decimal.Decimal, string, bool) {
	matches := amountTokenRE.FindAllString(line, -1)
	if len(matches) == 0 {
		return decimal.Zero, "", false
	}
	token := matches[len(matches)-1]
	if len(matches) >= 2 {
		token = matches[len(matches)-2]
	}
	value, ok := ParseAmountToken(token)
	return value, token, ok
}

// HasAmountToken reports whether the line contains anything that looks
// like a money value. Used to decide if a skipped line is worth
// recording as a rejection.
func HasAmountToken(line string) bool {
	return amountTokenRE.MatchString(line)
}
