// Package statement parses normalized OCR text into institution-agnostic
// transaction rows. Each institution gets one Parser; a priority-ordered
// Registry picks the first parser whose anchor heuristics match, with a
// generic line scanner as the fallback of last resort.
package statement

import "strings"

// ParsedRow is the raw field set one parser extracts from one line or
// block of statement text. Amount stays a string here; validation and
// sign enforcement happen in the record normalizer downstream.
type ParsedRow struct {
	Date        string
	Amount      string
	Merchant    string
	Description string
	Category    string
	Source      string
	Account     string
	Direction   string
	Notes       string
}

// Parser extracts rows from one institution's statement layout.
// Matches must be a cheap anchor-string check; Parse must never fail on
// a malformed line, it skips the line and keeps going.
type Parser interface {
	Name() string
	Matches(text string) bool
	Parse(text string, src string) []ParsedRow
}

// Registry holds parsers in priority order, most specific first.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a parser. Registration order is match priority.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// Match returns the first parser claiming the text, or nil.
func (r *Registry) Match(text string) Parser {
	for _, p := range r.parsers {
		if p.Matches(text) {
			return p
		}
	}
	return nil
}

// Parsers returns the registered parsers in priority order.
func (r *Registry) Parsers() []Parser {
	return r.parsers
}

// DefaultRegistry returns the built-in parser set: Chase, Capital One,
// PayPal Credit, then the generic fallback.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewChaseParser())
	r.Register(NewCapitalOneParser())
	r.Register(NewPayPalCreditParser(DefaultSignPolicy()))
	r.Register(NewGenericParser("OCR"))
	return r
}

// squash collapses internal whitespace runs to single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
