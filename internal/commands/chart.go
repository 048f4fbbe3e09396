package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grandlivre-dev/grandlivre/internal/coa"
)

func newChartCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newChartExportCommand(configPath))
	cmd.AddCommand(newChartImportCommand(configPath))
	return cmd
}

func newChartExportCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the chart of accounts to accounts/chart-of-accounts.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			path, err := runChartExport(e)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d accounts to %s\n", len(e.chart.All()), path)
			return nil
		},
	}
}

func newChartImportCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load accounts/chart-of-accounts.csv into the book",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := runChartImport(cmd.Context(), e)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d accounts\n", n)
			return nil
		},
	}
}

func runChartExport(e *env) (string, error) {
	if err := e.chart.Save(e.dataDir); err != nil {
		return "", err
	}
	return filepath.Join(e.dataDir, "accounts", "chart-of-accounts.csv"), nil
}

// runChartImport upserts every account from the chart file into the store.
// Rows without a company ID are stamped with the configured company; rows
// for another company are rejected.
func runChartImport(ctx context.Context, e *env) (int, error) {
	chart, err := coa.Load(e.dataDir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, a := range chart.All() {
		if a.CompanyID == "" {
			a.CompanyID = e.cfg.Company.ID
		}
		if a.CompanyID != e.cfg.Company.ID {
			return n, fmt.Errorf("account %s belongs to company %s, not %s", a.Code, a.CompanyID, e.cfg.Company.ID)
		}
		if err := e.store.SaveAccount(ctx, &a); err != nil {
			return n, fmt.Errorf("importing account %s: %w", a.Code, err)
		}
		n++
	}
	return n, nil
}
