package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grandlivre-dev/grandlivre/internal/coa"
	"github.com/grandlivre-dev/grandlivre/internal/config"
)

func newInitCommand() *cobra.Command {
	var companyID string
	var name string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new company book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), absDir, companyID, name, currency)
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company identifier (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "CDF", "base currency")

	return cmd
}

func runInit(ctx context.Context, dir, companyID, name, currency string) error {
	dirs := []string{
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(companyID, name)
	cfg.Ledger.BaseCurrency = currency
	cfg.Database.Path = filepath.Join(dir, "grandlivre.db")
	if err := config.Save(filepath.Join(dir, "grandlivre.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, a := range coa.DefaultChart(companyID) {
		if err := st.SaveAccount(ctx, &a); err != nil {
			return fmt.Errorf("seeding account %s: %w", a.Code, err)
		}
	}
	for _, j := range coa.DefaultJournals(companyID) {
		if err := st.SaveJournal(ctx, &j); err != nil {
			return fmt.Errorf("seeding journal %s: %w", j.Code, err)
		}
	}

	fmt.Printf("Initialized book for %s (%s) at %s\n", name, companyID, dir)
	return nil
}
