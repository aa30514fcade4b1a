// Package export writes operator-facing reports for finished import
// runs.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerlens/statement-pipeline/internal/domain/pipeline"
)

const coverageSheet = "Import Coverage"

// WriteImportReportXLSX renders the per-file coverage report as a
// spreadsheet: candidate transaction lines seen in each cached OCR
// text next to the rows that actually reached the store.
func WriteImportReportXLSX(report *pipeline.ImportReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(coverageSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []any{"File", "Candidate Lines", "Stored Rows", "Coverage"}
	if err := f.SetSheetRow(coverageSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(coverageSheet, "A1", "D1", bold)
	}

	rowIdx := 2
	for _, fr := range report.Files {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		row := []any{fr.FileName, fr.CandidateLines, fr.StoredRows, coverage(fr.StoredRows, fr.CandidateLines)}
		if err := f.SetSheetRow(coverageSheet, cell, &row); err != nil {
			return fmt.Errorf("write row for %s: %w", fr.FileName, err)
		}
		rowIdx++
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, rowIdx)
	totals := []any{"TOTAL", report.TotalCandidates, report.TotalStored,
		coverage(report.TotalStored, report.TotalCandidates)}
	if err := f.SetSheetRow(coverageSheet, totalCell, &totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	f.SetColWidth(coverageSheet, "A", "A", 40)
	f.SetColWidth(coverageSheet, "B", "D", 16)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func coverage(stored, candidates int) string {
	if candidates == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(stored)/float64(candidates))
}
