package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerlens/statement-pipeline/internal/domain/pipeline"
)

func TestWriteImportReportXLSX(t *testing.T) {
	report := &pipeline.ImportReport{
		Files: []pipeline.FileReport{
			{FileName: "chase_jan_ocr.txt", CandidateLines: 40, StoredRows: 38},
			{FileName: "screenshot_ocr.txt", CandidateLines: 2, StoredRows: 2},
		},
		TotalCandidates: 42,
		TotalStored:     40,
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteImportReportXLSX(report, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(coverageSheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "File", get("A1"))
	assert.Equal(t, "chase_jan_ocr.txt", get("A2"))
	assert.Equal(t, "40", get("B2"))
	assert.Equal(t, "38", get("C2"))
	assert.Equal(t, "95%", get("D2"))
	assert.Equal(t, "TOTAL", get("A4"))
	assert.Equal(t, "40", get("C4"))
}

func TestWriteImportReportXLSX_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteImportReportXLSX(&pipeline.ImportReport{}, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(coverageSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", v)

	v, err = f.GetCellValue(coverageSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "n/a", v)
}
