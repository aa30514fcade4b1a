package statement

import "strings"

var monthNumbers = map[string]int{
	"JANUARY": 1, "JAN": 1,
	"FEBRUARY": 2, "FEB": 2,
	"MARCH": 3, "MAR": 3,
	"APRIL": 4, "APR": 4,
	"MAY":  5,
	"JUNE": 6, "JUN": 6,
	"JULY": 7, "JUL": 7,
	"AUGUST": 8, "AUG": 8,
	"SEPTEMBER": 9, "SEP": 9, "SEPT": 9,
	"OCTOBER": 10, "OCT": 10,
	"NOVEMBER": 11, "NOV": 11,
	"DECEMBER": 12, "DEC": 12,
}

// monthNumber maps a month name or abbreviation to 1..12, or 0 when
// unrecognized.
func monthNumber(name string) int {
	return monthNumbers[strings.ToUpper(strings.TrimSpace(name))]
}
