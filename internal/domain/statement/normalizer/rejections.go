package normalizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Rejection reasons tracked by RejectionStats.
const (
	ReasonInvalidDate   = "invalid_date"
	ReasonInvalidAmount = "invalid_amount"
	ReasonNoMatch       = "no_generic_match"
	ReasonDuplicateRow  = "duplicate_row"
)

// maxSamplesPerReason bounds how many distinct raw values are kept as
// examples for the operator summary.
const maxSamplesPerReason = 5

// RejectionStats accumulates dropped rows per reason with a bounded
// sample of distinct offending values. Safe for concurrent use.
type RejectionStats struct {
	mu      sync.Mutex
	counts  map[string]int
	samples map[string][]string
}

// NewRejectionStats returns empty stats.
func NewRejectionStats() *RejectionStats {
	return &RejectionStats{
		counts:  make(map[string]int),
		samples: make(map[string][]string),
	}
}

// Record counts one rejection and keeps the raw value as a sample if it
// is new and the sample cap has room.
func (s *RejectionStats) Record(reason, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[reason]++
	existing := s.samples[reason]
	if len(existing) >= maxSamplesPerReason {
		return
	}
	for _, v := range existing {
		if v == raw {
			return
		}
	}
	s.samples[reason] = append(existing, raw)
}

// RecordError classifies a normalization error into a reason and
// records it.
func (s *RejectionStats) RecordError(err error) {
	var dateErr *InvalidDateError
	var amountErr *InvalidAmountError
	switch {
	case errors.As(err, &dateErr):
		s.Record(ReasonInvalidDate, dateErr.Raw)
	case errors.As(err, &amountErr):
		s.Record(ReasonInvalidAmount, amountErr.Raw)
	default:
		s.Record("other", err.Error())
	}
}

// Count returns the rejection count for a reason.
func (s *RejectionStats) Count(reason string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[reason]
}

// Total returns the rejection count across all reasons.
func (s *RejectionStats) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}

// Samples returns the recorded sample values for a reason.
func (s *RejectionStats) Samples(reason string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.samples[reason]))
	copy(out, s.samples[reason])
	return out
}

// Summary renders a one-line operator summary, reasons sorted for
// stable output.
func (s *RejectionStats) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.counts) == 0 {
		return "no rejections"
	}

	reasons := make([]string, 0, len(s.counts))
	for r := range s.counts {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		part := fmt.Sprintf("%s=%d", r, s.counts[r])
		if samples := s.samples[r]; len(samples) > 0 {
			part += fmt.Sprintf(" (e.g. %q)", samples[0])
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
