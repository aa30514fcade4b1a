package statement

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/shopspring/decimal"
)

// Direction values carried on rows. Transfer marks neutral internal
// moves; the debit/credit sign invariant does not apply to it.
const (
	DirectionDebit    = "debit"
	DirectionCredit   = "credit"
	DirectionTransfer = "transfer"
)

// debitHintWords strongly suggest money leaving the account.
var debitHintWords = []string{
	"card purchase",
	"pos purchase",
	"debit card",
	"debit",
	"withdrawal",
	"atm withdrawal",
	"atm",
	"cash advance",
	"payment",
	"bill pay",
	"autopay",
	"auto pay",
	"ach debit",
	"recurring card purchase",
	"subscription",
	"online transfer to",
	"transfer to",
	"zelle to",
	"checkcard",
	"check card",
	"fee",
	"service charge",
	"overdraft fee",
	"late fee",
	"interest charged",
	"finance charge",
	"charge",
	"purchase",
}

// creditHintWords strongly suggest money coming in.
var creditHintWords = []string{
	"deposit",
	"direct dep",
	"direct deposit",
	"payroll",
	"salary",
	"wages",
	"refund",
	"rebate",
	"reversal",
	"returned item",
	"ach credit",
	"ach deposit",
	"credit",
	"interest paid",
	"interest payment",
	"int earned",
	"dividend",
	"cashback",
	"cash back",
	"reward",
	"transfer from",
	"online transfer from",
	"zelle from",
}

// transferKeywords mark internal moves that should not count as
// spending or income.
var transferKeywords = []string{
	"TRANSFER TO", "XFER TO", "TO SAVINGS", "TO CHECKING",
	"PAYMENT TO",
	"PAYPAL TRANSFER TO", "VENMO TRANSFER TO",
	"ZELLE TO",
	"CASH APP TO",
}

var (
	debitMatcher  = ahocorasick.NewStringMatcher(debitHintWords)
	creditMatcher = ahocorasick.NewStringMatcher(creditHintWords)
)

// scoreHints counts how many distinct hint words appear in the text.
func scoreHints(m *ahocorasick.Matcher, text string) int {
	return len(m.Match([]byte(text)))
}

// SignedAmount parses a money token into a signed decimal, deciding the
// sign from explicit markers first and description hint words second.
// An unsignable amount defaults to debit. Returns ok=false when the
// token is not money at all.
func SignedAmount(raw string, context string) (decimal.Decimal, bool) {
	token := strings.TrimSpace(raw)
	explicit := strings.HasPrefix(token, "-") ||
		strings.HasPrefix(token, "+") ||
		strings.HasSuffix(token, "-") ||
		(strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")"))

	value, ok := ParseAmountToken(token)
	if !ok {
		return decimal.Zero, false
	}
	if explicit {
		return value, true
	}

	ctx := strings.ToLower(squash(context))
	debitScore := scoreHints(debitMatcher, ctx)
	creditScore := scoreHints(creditMatcher, ctx)

	magnitude := value.Abs()
	if creditScore > debitScore {
		return magnitude, true
	}
	return magnitude.Neg(), true
}

// IsTransfer reports whether a description names an internal move.
func IsTransfer(description string) bool {
	upper := strings.ToUpper(description)
	for _, kw := range transferKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
