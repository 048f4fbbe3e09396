package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grandlivre-dev/grandlivre/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "grandlivre",
		Short:   "OHADA double-entry ledger and financial statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "grandlivre.yaml", "path to config file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newChartCommand(&configPath))
	rootCmd.AddCommand(newEntryCommand(&configPath))
	rootCmd.AddCommand(newInvoiceCommand(&configPath))
	rootCmd.AddCommand(newConvertCommand(&configPath))
	rootCmd.AddCommand(newRateCommand(&configPath))
	rootCmd.AddCommand(newReportCommand(&configPath))

	return rootCmd
}
