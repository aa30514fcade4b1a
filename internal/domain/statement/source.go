package statement

import (
	"path/filepath"
	"strings"
)

// knownAccountSuffixes are 4-digit account endings worth surfacing even
// when the institution itself stays unknown.
var knownAccountSuffixes = []string{"0205", "5072", "9765", "3838", "9383", "0728"}

// DetectSourceAndAccount guesses the source system (bank) and account
// name from a text line plus the source filename. Falls back to
// defaultSource when nothing matches.
func DetectSourceAndAccount(line, path, defaultSource string) (source, account string) {
	text := strings.ToUpper(filepath.Base(path) + " " + line)
	source = defaultSource

	switch {
	case strings.Contains(text, "VENMO"):
		source = "Venmo"
		if strings.Contains(text, "WALLET") {
			account = "Venmo Wallet"
		}
	case strings.Contains(text, "PAYPAL") || strings.Contains(text, "PP*"):
		source = "PayPal"
	case strings.Contains(text, "BANK OF AMERICA") || strings.Contains(text, "B OF A") || strings.Contains(text, "ADV PLUS"):
		source = "Bank of America"
		if strings.Contains(text, "0205") {
			account = "Adv Plus 0205"
		}
	case strings.Contains(text, "CHASE") || strings.Contains(text, "PREMIER PLUS"):
		source = "Chase"
		if strings.Contains(text, "9765") {
			account = "Premier Plus Ckg 9765"
		}
	case strings.Contains(text, "CAPITAL ONE"):
		source = "Capital One"
	}

	if account == "" {
		for _, suffix := range knownAccountSuffixes {
			if strings.Contains(text, suffix) {
				account = "Acct *" + suffix
				break
			}
		}
	}

	return source, account
}
