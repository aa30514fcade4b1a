// Package categorize assigns lightweight spending categories and
// semantic transaction types from merchant descriptions. Everything
// here is heuristic and safe to override later.
package categorize

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// categoryRule maps keywords to a category. Rules are checked in order;
// the first hit wins.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Transportation/Gas", []string{"GAS", "CHEVRON", "ARCO", "SHELL", "COSTCO GAS"}},
	{"Transportation/Other", []string{"UBER", "LYFT", "TAXI"}},
	{"Groceries/General Merchandise", []string{"WALMART", "WAL-MART", "TARGET", "COSTCO", "GROCERY", "GROCERIES", "ALBERTSONS"}},
	{"Food/Fast Food", []string{"MCDONALD", "CARL'S JR", "CARLS JR", "BURGER KING", "TACO BELL", "KFC", "FAST FOOD"}},
	{"Food/Coffee", []string{"STARBUCKS", "COFFEE", "CAFE"}},
	{"Food/Delivery", []string{"DOORDASH", "UBER EATS", "GRUBHUB", "POSTMATES"}},
	{"Entertainment/Streaming", []string{"SPOTIFY", "NETFLIX", "HULU", "PARAMOUNT", "DISNEY+", "MAX "}},
	{"Utilities/Phone", []string{"VERIZON", "T-MOBILE", "AT&T", "ATT MOBILITY"}},
	{"Utilities/Energy", []string{"ELECTRIC", "SDGE", "PG&E", "GAS & ELECTRIC"}},
	{"Insurance", []string{"INSURANCE", "PREMIUM"}},
	{"Transfer/Person-to-person", []string{"TRANSFER", "ZELLE", "VENMO", "P2P", "PERSON-TO-PERSON"}},
}

// fuzzyDistanceMax bounds how sloppy an OCR merchant read may be and
// still count as a keyword hit.
const fuzzyDistanceMax = 2

// Guess returns a category for a merchant description, or "" when
// nothing matches. Exact substring hits are tried first; a fuzzy pass
// then catches OCR-mangled merchant names (WALMRT, STARBUKS).
func Guess(description string) string {
	d := strings.ToUpper(description)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(d, kw) {
				return rule.category
			}
		}
	}

	for _, word := range strings.Fields(d) {
		if len(word) < 5 {
			continue
		}
		for _, rule := range categoryRules {
			for _, kw := range rule.keywords {
				if len(kw) < 5 || strings.ContainsAny(kw, " &+-'") {
					continue
				}
				rank := fuzzy.RankMatchFold(word, kw)
				if rank >= 0 && rank <= fuzzyDistanceMax {
					return rule.category
				}
			}
		}
	}

	return ""
}

// Transaction type labels for report groupings. These never affect the
// numeric sign of a transaction.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
	TypeFee      = "fee"
	TypeInterest = "interest"
	TypeRefund   = "refund"
	TypeUnknown  = "unknown"
)

// Classify labels a description with a semantic transaction type.
// More specific patterns are checked first.
func Classify(description string) string {
	text := strings.ToLower(strings.Join(strings.Fields(description), " "))

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("payroll", "direct dep", "direct deposit", "salary", "wages"):
		return TypeIncome
	case containsAny("interest paid", "interest payment", "interest income"):
		return TypeInterest
	case containsAny("fee", "service charge"):
		return TypeFee
	case containsAny("refund", "rebate", "reversal", "returned item"):
		return TypeRefund
	case containsAny("transfer to", "transfer from", "online transfer", "zelle", "venmo", "paypal"):
		return TypeTransfer
	case containsAny("card purchase", "pos purchase", "debit card", "atm", "purchase", "charge", "payment"):
		return TypeExpense
	default:
		return TypeUnknown
	}
}
