package pipeline

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledgerlens/statement-pipeline/pkg/storage"
)

// ReportStore answers how many stored rows came from a given file.
type ReportStore interface {
	CountByImportSource(ctx context.Context, fileName string) (int, error)
}

// FileReport compares candidate lines seen in one cached OCR text with
// the rows that actually made it into the store.
type FileReport struct {
	FileName       string
	CandidateLines int
	StoredRows     int
}

// ImportReport is the per-file coverage report for an operator.
type ImportReport struct {
	Files           []FileReport
	TotalCandidates int
	TotalStored     int
}

var candidateLineRE = regexp.MustCompile(
	`^\s*(?:\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s+.*\d[\d,]*\.\d{2}`)

// CountCandidateLines counts lines that look like transactions: a
// leading date-like token with a money token later in the line.
// Summary rows are excluded.
func CountCandidateLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !candidateLineRE.MatchString(line) {
			continue
		}
		upper := strings.ToUpper(trimmed)
		if strings.Contains(upper, "BEGINNING BALANCE") ||
			strings.Contains(upper, "ENDING BALANCE") ||
			strings.HasPrefix(upper, "TOTAL ") {
			continue
		}
		count++
	}
	return count
}

// BuildImportReport walks the cached *_ocr.txt artifacts and pairs each
// file's candidate count with the store's row count for it.
func BuildImportReport(ctx context.Context, store storage.Store, db ReportStore) (*ImportReport, error) {
	artifacts, err := store.List(ctx, "*_ocr.txt")
	if err != nil {
		return nil, fmt.Errorf("list ocr artifacts: %w", err)
	}

	report := &ImportReport{}
	for _, info := range artifacts {
		rc, _, err := store.Get(ctx, info.Name)
		if err != nil {
			return nil, fmt.Errorf("read artifact %s: %w", info.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read artifact %s: %w", info.Name, err)
		}

		candidates := CountCandidateLines(string(data))

		stored := 0
		if db != nil {
			// Artifacts are named <stem>_ocr.txt; stored rows carry the
			// original upload name, so match on the stem.
			stored, err = db.CountByImportSource(ctx, strings.TrimSuffix(info.Name, "_ocr.txt"))
			if err != nil {
				return nil, fmt.Errorf("count rows for %s: %w", info.Name, err)
			}
		}

		report.Files = append(report.Files, FileReport{
			FileName:       info.Name,
			CandidateLines: candidates,
			StoredRows:     stored,
		})
		report.TotalCandidates += candidates
		report.TotalStored += stored
	}

	return report, nil
}
