package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/grandlivre-dev/grandlivre/internal/importer"
	"github.com/grandlivre-dev/grandlivre/internal/journal"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func newInvoiceCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Record, pay, and import invoices",
	}
	cmd.AddCommand(newInvoiceRecordCommand(configPath))
	cmd.AddCommand(newInvoicePayCommand(configPath))
	cmd.AddCommand(newInvoiceImportCommand(configPath))
	return cmd
}

func newInvoiceRecordCommand(configPath *string) *cobra.Command {
	var kind, number, partnerID, date, due, journalID string
	var partnerAccount, revenueAccount, vatAccount string
	var amountHT, amountVAT string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an invoice as a posted move",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			invDate, err := parseDate(date)
			if err != nil {
				return err
			}
			params := journal.InvoiceMoveParams{
				CompanyID:      e.cfg.Company.ID,
				Kind:           model.InvoiceKind(kind),
				JournalID:      journalID,
				Date:           invDate,
				Ref:            number,
				Currency:       e.cfg.Ledger.BaseCurrency,
				PartnerID:      partnerID,
				PartnerAccount: partnerAccount,
				RevenueAccount: revenueAccount,
				VATAccount:     vatAccount,
			}
			if params.AmountHT, err = decimal.NewFromString(amountHT); err != nil {
				return fmt.Errorf("invalid --amount-ht: %w", err)
			}
			params.AmountVAT = decimal.Zero
			if amountVAT != "" {
				if params.AmountVAT, err = decimal.NewFromString(amountVAT); err != nil {
					return fmt.Errorf("invalid --amount-vat: %w", err)
				}
			}
			if due != "" {
				dueDate, err := parseDate(due)
				if err != nil {
					return err
				}
				params.DueDate = &dueDate
			}

			move, err := journal.BuildInvoiceMove(params)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := e.poster.CreateDraft(ctx, move); err != nil {
				return err
			}
			posted, err := e.poster.Post(ctx, e.cfg.Company.ID, move.ID)
			if err != nil {
				return err
			}

			inv := &model.Invoice{
				ID:         uuid.Must(uuid.NewV7()).String(),
				CompanyID:  e.cfg.Company.ID,
				PartnerID:  partnerID,
				Kind:       params.Kind,
				Number:     number,
				Date:       invDate,
				DueDate:    params.DueDate,
				TotalTTC:   params.AmountHT.Add(params.AmountVAT),
				AmountPaid: decimal.Zero,
				MoveID:     posted.ID,
			}
			if err := e.store.SaveInvoice(ctx, inv); err != nil {
				return err
			}

			fmt.Printf("Recorded invoice %s as %s\n", number, posted.Number)
			return audit(e.dataDir, e.cfg.Company.ID, "post_move", "invoice "+number, posted.ID, posted.Number)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "customer", "customer or supplier")
	cmd.Flags().StringVar(&number, "number", "", "invoice number (required)")
	_ = cmd.MarkFlagRequired("number")
	cmd.Flags().StringVar(&partnerID, "partner", "", "partner id (required)")
	_ = cmd.MarkFlagRequired("partner")
	cmd.Flags().StringVar(&date, "date", "", "invoice date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&journalID, "journal", "VTE", "journal to record into")
	cmd.Flags().StringVar(&partnerAccount, "partner-account", "411000", "receivable or payable account")
	cmd.Flags().StringVar(&revenueAccount, "revenue-account", "701000", "revenue or expense account")
	cmd.Flags().StringVar(&vatAccount, "vat-account", "443000", "VAT account")
	cmd.Flags().StringVar(&amountHT, "amount-ht", "", "tax-exclusive amount (required)")
	_ = cmd.MarkFlagRequired("amount-ht")
	cmd.Flags().StringVar(&amountVAT, "amount-vat", "", "VAT amount")

	return cmd
}

func newInvoicePayCommand(configPath *string) *cobra.Command {
	var invoiceID, date, journalID, treasuryAccount, amount string

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record a payment against an invoice",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			inv, err := e.store.GetInvoice(ctx, e.cfg.Company.ID, invoiceID)
			if err != nil {
				return err
			}
			payDate, err := parseDate(date)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}

			partner, err := e.store.GetPartner(ctx, e.cfg.Company.ID, inv.PartnerID)
			partnerAccount := "411000"
			if inv.Kind == model.InvoiceSupplier {
				partnerAccount = "401000"
			}
			if err == nil && partner.AccountID != "" {
				partnerAccount = partner.AccountID
			}

			move, err := journal.BuildPaymentMove(journal.PaymentMoveParams{
				CompanyID:       e.cfg.Company.ID,
				Kind:            inv.Kind,
				JournalID:       journalID,
				Date:            payDate,
				Ref:             "payment " + inv.Number,
				Currency:        e.cfg.Ledger.BaseCurrency,
				PartnerID:       inv.PartnerID,
				PartnerAccount:  partnerAccount,
				TreasuryAccount: treasuryAccount,
				Amount:          amt,
			})
			if err != nil {
				return err
			}

			if err := e.poster.CreateDraft(ctx, move); err != nil {
				return err
			}
			posted, err := e.poster.Post(ctx, e.cfg.Company.ID, move.ID)
			if err != nil {
				return err
			}

			inv.AmountPaid = inv.AmountPaid.Add(amt)
			if err := e.store.SaveInvoice(ctx, inv); err != nil {
				return err
			}

			fmt.Printf("Paid %s on %s: %s outstanding\n", amt, inv.Number, inv.Outstanding())
			return audit(e.dataDir, e.cfg.Company.ID, "post_move", "payment "+inv.Number, posted.ID, posted.Number)
		},
	}

	cmd.Flags().StringVar(&invoiceID, "invoice", "", "invoice id (required)")
	_ = cmd.MarkFlagRequired("invoice")
	cmd.Flags().StringVar(&date, "date", "", "payment date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&journalID, "journal", "BNK", "journal to record into")
	cmd.Flags().StringVar(&treasuryAccount, "treasury-account", "521000", "bank or cash account")
	cmd.Flags().StringVar(&amount, "amount", "", "payment amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newInvoiceImportCommand(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import invoices from CSV files",
		Long:  "Imports the named files, or every CSV under <data>/import/ when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}

			paths := args
			var scanned []importer.FileInfo
			if len(paths) == 0 {
				scanned, err = importer.Scan(e.dataDir)
				if err != nil {
					return err
				}
				for _, f := range scanned {
					paths = append(paths, f.Path)
				}
			}

			total := 0
			for _, path := range paths {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				invoices, err := parser.Parse(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				for i := range invoices {
					invoices[i].ID = uuid.Must(uuid.NewV7()).String()
					invoices[i].CompanyID = e.cfg.Company.ID
					if err := e.store.SaveInvoice(ctx, &invoices[i]); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				total += len(invoices)
			}

			for _, f := range scanned {
				if err := importer.MarkProcessed(e.dataDir, f.Name); err != nil {
					return err
				}
			}

			fmt.Printf("Imported %d invoices from %d files\n", total, len(paths))
			return audit(e.dataDir, e.cfg.Company.ID, "import_invoices",
				fmt.Sprintf("%d invoices from %d files", total, len(paths)), "", "")
		},
	}

	cmd.Flags().StringVar(&format, "format", "factures", "import format")
	return cmd
}
