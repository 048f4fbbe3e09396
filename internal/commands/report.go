package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/grandlivre-dev/grandlivre/internal/aging"
	"github.com/grandlivre-dev/grandlivre/internal/balance"
	"github.com/grandlivre-dev/grandlivre/internal/model"
	"github.com/grandlivre-dev/grandlivre/internal/statement"
	"github.com/grandlivre-dev/grandlivre/internal/store"
)

func newReportCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Derive financial statements from the posted ledger",
	}
	cmd.AddCommand(newTrialBalanceCommand(configPath))
	cmd.AddCommand(newLedgerCommand(configPath))
	cmd.AddCommand(newAgingCommand(configPath))
	cmd.AddCommand(newIncomeCommand(configPath))
	cmd.AddCommand(newCashflowCommand(configPath))
	cmd.AddCommand(newBalanceSheetCommand(configPath))
	return cmd
}

// periodFlags attaches --from/--to and returns a resolver. Defaults cover
// the current calendar year.
func periodFlags(cmd *cobra.Command) func() (time.Time, time.Time, error) {
	var from, to string
	now := time.Now()
	cmd.Flags().StringVar(&from, "from", fmt.Sprintf("%d-01-01", now.Year()), "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", fmt.Sprintf("%d-12-31", now.Year()), "period end (YYYY-MM-DD)")

	return func() (time.Time, time.Time, error) {
		f, err := parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		t, err := parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return f, t, nil
	}
}

func postedLines(cmd *cobra.Command, e *env) ([]model.PostedLine, error) {
	return e.store.PostedLines(cmd.Context(), e.cfg.Company.ID, store.LineFilter{})
}

func printWarnings(warnings []statement.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func newTrialBalanceCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Six-column trial balance",
	}
	period := periodFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(*configPath)
		if err != nil {
			return err
		}
		defer e.Close()

		from, to, err := period()
		if err != nil {
			return err
		}
		lines, err := postedLines(cmd, e)
		if err != nil {
			return err
		}

		tb := statement.TrialBalanceOver(lines, e.chart, from, to)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tACCOUNT\tOPEN DR\tOPEN CR\tPERIOD DR\tPERIOD CR\tCLOSE DR\tCLOSE CR")
		for _, row := range tb.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Code, row.Name,
				row.OpeningDebit.StringFixed(2), row.OpeningCredit.StringFixed(2),
				row.PeriodDebit.StringFixed(2), row.PeriodCredit.StringFixed(2),
				row.ClosingDebit.StringFixed(2), row.ClosingCredit.StringFixed(2))
		}
		fmt.Fprintf(w, "\tTOTAL\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tb.Totals.OpeningDebit.StringFixed(2), tb.Totals.OpeningCredit.StringFixed(2),
			tb.Totals.PeriodDebit.StringFixed(2), tb.Totals.PeriodCredit.StringFixed(2),
			tb.Totals.ClosingDebit.StringFixed(2), tb.Totals.ClosingCredit.StringFixed(2))
		w.Flush()

		if !tb.Balanced {
			fmt.Fprintln(os.Stderr, "warning: trial balance does not balance")
		}
		return nil
	}
	return cmd
}

func newLedgerCommand(configPath *string) *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "General ledger for one account with running balance",
	}
	period := periodFlags(cmd)
	cmd.Flags().StringVar(&account, "account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(*configPath)
		if err != nil {
			return err
		}
		defer e.Close()

		from, to, err := period()
		if err != nil {
			return err
		}
		lines, err := e.store.PostedLines(cmd.Context(), e.cfg.Company.ID, store.LineFilter{
			AccountIDs: []string{account},
		})
		if err != nil {
			return err
		}

		opening := balance.Accumulate(lines, balance.Before(from))[account]
		var periodLines []model.PostedLine
		window := balance.Between(from, to)
		for _, l := range lines {
			if window.Contains(l.Date) {
				periodLines = append(periodLines, l)
			}
		}
		rows := balance.Running(periodLines, opening.Net)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tMOVE\tDEBIT\tCREDIT\tBALANCE")
		fmt.Fprintf(w, "%s\topening\t\t\t%s\n", from.Format(dateFormat), opening.Net.StringFixed(2))
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.Date.Format(dateFormat), r.MoveNumber,
				r.Debit.StringFixed(2), r.Credit.StringFixed(2), r.Running.StringFixed(2))
		}
		return w.Flush()
	}
	return cmd
}

func newAgingCommand(configPath *string) *cobra.Command {
	var kind, asOf string
	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Receivable or payable aging by partner",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			asOfDate, err := parseDate(asOf)
			if err != nil {
				return err
			}
			invoices, err := e.store.ListInvoices(cmd.Context(), e.cfg.Company.ID, model.InvoiceKind(kind))
			if err != nil {
				return err
			}

			rows := aging.Bucket(invoices, asOfDate)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PARTNER\tCURRENT\t1-30\t31-60\t61-90\t>90\tTOTAL")
			grand := decimal.Zero
			for partner, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					partner,
					row.Current.StringFixed(2), row.D1To30.StringFixed(2),
					row.D31To60.StringFixed(2), row.D61To90.StringFixed(2),
					row.Over90.StringFixed(2), row.Total.StringFixed(2))
				grand = grand.Add(row.Total)
			}
			fmt.Fprintf(w, "TOTAL\t\t\t\t\t\t%s\n", grand.StringFixed(2))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "customer", "customer or supplier")
	cmd.Flags().StringVar(&asOf, "as-of", time.Now().Format(dateFormat), "reference date (YYYY-MM-DD)")
	return cmd
}

func newIncomeCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Income statement with SYSCOHADA intermediate balances",
	}
	period := periodFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(*configPath)
		if err != nil {
			return err
		}
		defer e.Close()

		from, to, err := period()
		if err != nil {
			return err
		}
		lines, err := postedLines(cmd, e)
		if err != nil {
			return err
		}

		sig := statement.IncomeStatement(lines, e.chart, from, to)
		printWarnings(sig.Warnings)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		row := func(label string, v decimal.Decimal) {
			fmt.Fprintf(w, "%s\t%s\n", label, v.StringFixed(2))
		}
		row("Marge commerciale", sig.MargeCommerciale)
		row("Valeur ajoutée", sig.ValeurAjoutee)
		row("Excédent brut d'exploitation", sig.EBE)
		row("Résultat d'exploitation", sig.ResultatExploitation)
		row("Résultat financier", sig.ResultatFinancier)
		row("Résultat des activités ordinaires", sig.ResultatActivitesOrdinaires)
		row("Résultat HAO", sig.ResultatHAO)
		row("Résultat net", sig.ResultatNet)
		return w.Flush()
	}
	return cmd
}

func newCashflowCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Cash-flow formation table, cross-checked against the income statement",
	}
	period := periodFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(*configPath)
		if err != nil {
			return err
		}
		defer e.Close()

		from, to, err := period()
		if err != nil {
			return err
		}
		lines, err := postedLines(cmd, e)
		if err != nil {
			return err
		}

		sig := statement.IncomeStatement(lines, e.chart, from, to)
		tft := statement.CashFlowTable(lines, e.chart, from, to)
		bilan := statement.BalanceSheet(lines, e.chart, to)
		printWarnings(tft.Warnings)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		row := func(label string, v decimal.Decimal) {
			fmt.Fprintf(w, "%s\t%s\n", label, v.StringFixed(2))
		}
		row("Ventes", tft.Ventes)
		row("Achats consommés", tft.AchatsConsommes)
		row("Résultat d'exploitation", tft.ResultatExploitation)
		row("CAFG", tft.CAFG)
		row("Résultat net", tft.ResultatNet)
		w.Flush()

		printWarnings(statement.CrossCheck(sig, tft, bilan))
		return nil
	}
	return cmd
}

func newBalanceSheetCommand(configPath *string) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Balance sheet as of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			asOfDate, err := parseDate(asOf)
			if err != nil {
				return err
			}
			lines, err := postedLines(cmd, e)
			if err != nil {
				return err
			}

			b := statement.BalanceSheet(lines, e.chart, asOfDate)
			printWarnings(b.Warnings)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACTIF\t")
			for _, l := range b.Assets {
				fmt.Fprintf(w, "%s %s\t%s\n", l.Code, l.Name, l.Amount.StringFixed(2))
			}
			fmt.Fprintf(w, "Total actif\t%s\n", b.TotalAssets.StringFixed(2))
			fmt.Fprintln(w, "\t")
			fmt.Fprintln(w, "PASSIF\t")
			for _, l := range b.Liabilities {
				fmt.Fprintf(w, "%s %s\t%s\n", l.Code, l.Name, l.Amount.StringFixed(2))
			}
			fmt.Fprintf(w, "Résultat net\t%s\n", b.ResultatNet.StringFixed(2))
			fmt.Fprintf(w, "Total passif\t%s\n", b.TotalLiabilities.Add(b.ResultatNet).StringFixed(2))
			w.Flush()

			if !b.Reconciled {
				fmt.Fprintln(os.Stderr, "warning: balance sheet does not reconcile")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", time.Now().Format(dateFormat), "reference date (YYYY-MM-DD)")
	return cmd
}
