package ocr

import (
	"strings"
	"unicode"
)

// NormalizeText cleans recognized text into a stable shape for the
// institution parsers: CRLF becomes LF, form feeds become line breaks,
// tabs become spaces, runs of spaces collapse to one, non-printable
// runes are dropped, trailing space is trimmed per line, and runs of
// blank lines collapse to a single blank line. Digits, punctuation and
// currency symbols pass through untouched.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = strings.ReplaceAll(text, "\t", " ")

	var b strings.Builder
	b.Grow(len(text))

	blankRun := 0
	for _, line := range strings.Split(text, "\n") {
		line = cleanLine(line)
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

func cleanLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	lastSpace := false
	for _, r := range line {
		if r == ' ' {
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(r)
			}
			lastSpace = true
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}
