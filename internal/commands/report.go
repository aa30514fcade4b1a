package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/statement-pipeline/internal/domain/export"
	"github.com/ledgerlens/statement-pipeline/internal/domain/pipeline"
)

func newReportCommand() *cobra.Command {
	var xlsxOut string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare cached OCR text against stored rows per file",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := setup()
			if err != nil {
				return err
			}
			defer deps.Close()

			report, err := pipeline.BuildImportReport(cmd.Context(), deps.Statements, deps.Repo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range report.Files {
				fmt.Fprintf(out, "%-50s candidates=%-5d stored=%d\n",
					f.FileName, f.CandidateLines, f.StoredRows)
			}
			fmt.Fprintf(out, "TOTAL candidates=%d stored=%d\n",
				report.TotalCandidates, report.TotalStored)

			if xlsxOut != "" {
				path := xlsxOut
				if path == "auto" {
					name := fmt.Sprintf("import_report_%s.xlsx", time.Now().Format("20060102_150405"))
					path = filepath.Join(deps.Config.Dirs.Exports, name)
				}
				if err := export.WriteImportReportXLSX(report, path); err != nil {
					return err
				}
				fmt.Fprintf(out, "report written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxOut, "xlsx", "",
		"write the report as a spreadsheet; 'auto' picks a timestamped name in the exports directory")
	return cmd
}
