// Package commands wires the importer CLI.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/statement-pipeline/pkg/config"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "importer",
		Short: "OCR statement import pipeline",
		Long: "Imports bank and card statements dropped into the uploads directory:\n" +
			"OCR acquisition, institution parsing, normalization, and idempotent\n" +
			"emission into Postgres.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// setup loads configuration and initializes the dependency graph
// shared by every subcommand.
func setup() (*Dependencies, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return InitDependencies(cfg, logger)
}
