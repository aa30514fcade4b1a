package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/statement-pipeline/internal/domain/export"
)

func newExportCommand() *cobra.Command {
	var (
		out    string
		source string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored transactions as a CSV snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := setup()
			if err != nil {
				return err
			}
			defer deps.Close()

			txs, err := deps.Repo.ListTransactions(cmd.Context(), source)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				name := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102_150405"))
				path = filepath.Join(deps.Config.Dirs.Exports, name)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()

			if err := export.WriteTransactionsCSV(txs, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d transactions written to %s\n", len(txs), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "",
		"output path; empty picks a timestamped name in the exports directory")
	cmd.Flags().StringVar(&source, "source", "",
		"only export rows from one source system, e.g. \"Chase\"")
	return cmd
}
