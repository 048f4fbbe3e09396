package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/grandlivre-dev/grandlivre/internal/fx"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func newConvertCommand(configPath *string) *cobra.Command {
	var from, to, fromAccount, toAccount, amount, date, journalID string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert treasury between currencies",
		Example: `  grandlivre convert --from USD --to CDF --amount 100 \
    --from-account 521100 --to-account 521000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			convDate, err := parseDate(date)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}

			posted, record, err := runConvert(ctx, e, fx.ConversionParams{
				CompanyID:    e.cfg.Company.ID,
				JournalID:    journalID,
				Date:         convDate,
				Ref:          fmt.Sprintf("convert %s %s to %s", amt, from, to),
				FromCurrency: from,
				ToCurrency:   to,
				FromAccount:  fromAccount,
				ToAccount:    toAccount,
				FromAmount:   amt,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Converted %s %s to %s %s at %s (%s)\n",
				record.FromAmount, from, record.ToAmount, to, record.ExchangeRate, posted.Number)
			return audit(e.dataDir, e.cfg.Company.ID, "convert_currency",
				fmt.Sprintf("%s %s to %s %s", record.FromAmount, from, record.ToAmount, to),
				posted.ID, posted.Number)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source currency (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&to, "to", "", "target currency (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&fromAccount, "from-account", "", "source treasury account (required)")
	_ = cmd.MarkFlagRequired("from-account")
	cmd.Flags().StringVar(&toAccount, "to-account", "", "target treasury account (required)")
	_ = cmd.MarkFlagRequired("to-account")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in source currency (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&date, "date", time.Now().Format(dateFormat), "conversion date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&journalID, "journal", "OD", "journal to record into")

	return cmd
}

// runConvert builds, drafts and posts a conversion move. The conversion
// record is saved before the post so a posted move is never left without
// its record; a failed post leaves the record pointing at a draft.
func runConvert(ctx context.Context, e *env, p fx.ConversionParams) (*model.Move, *model.CurrencyConversion, error) {
	move, record, err := e.converter.BuildConversionMove(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	if err := e.poster.CreateDraft(ctx, move); err != nil {
		return nil, nil, err
	}
	if err := e.store.SaveConversion(ctx, record); err != nil {
		return nil, nil, err
	}
	posted, err := e.poster.Post(ctx, p.CompanyID, move.ID)
	if err != nil {
		return nil, record, err
	}
	return posted, record, nil
}

func newRateCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Manage exchange rates",
	}

	var from, to, rate, date string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store a dated exchange rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			effective, err := parseDate(date)
			if err != nil {
				return err
			}
			r, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid --rate: %w", err)
			}
			if r.Sign() <= 0 {
				return fmt.Errorf("rate must be positive, got %s", rate)
			}

			if err := e.store.SaveRate(cmd.Context(), &model.ExchangeRate{
				CompanyID:     e.cfg.Company.ID,
				FromCurrency:  from,
				ToCurrency:    to,
				Rate:          r,
				DateEffective: effective,
			}); err != nil {
				return err
			}

			fmt.Printf("Rate %s/%s = %s effective %s\n", from, to, r, date)
			return nil
		},
	}
	setCmd.Flags().StringVar(&from, "from", "", "source currency (required)")
	_ = setCmd.MarkFlagRequired("from")
	setCmd.Flags().StringVar(&to, "to", "", "target currency (required)")
	_ = setCmd.MarkFlagRequired("to")
	setCmd.Flags().StringVar(&rate, "rate", "", "units of target per source (required)")
	_ = setCmd.MarkFlagRequired("rate")
	setCmd.Flags().StringVar(&date, "date", time.Now().Format(dateFormat), "effective date (YYYY-MM-DD)")

	cmd.AddCommand(setCmd)
	return cmd
}
