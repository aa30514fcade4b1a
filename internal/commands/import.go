package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/statement-pipeline/internal/domain/ingest"
)

func newImportCommand() *cobra.Command {
	var (
		files     []string
		caponeDir string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run one import pass over the uploads directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := setup()
			if err != nil {
				return err
			}
			defer deps.Close()
			ctx := cmd.Context()

			stats, err := deps.Pipeline.Run(ctx, files)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stats.Summary())

			if caponeDir != "" {
				rows, err := ingest.ReadCapitalOneDir(caponeDir)
				if err != nil {
					return err
				}
				csvStats, err := deps.Pipeline.ImportRows(ctx, rows, "capone")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), csvStats.Summary())
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&files, "file", nil,
		"specific files to import instead of scanning the uploads directory")
	cmd.Flags().StringVar(&caponeDir, "capone-dir", "",
		"directory of Capital One CSV exports to import after the OCR pass")
	return cmd
}
