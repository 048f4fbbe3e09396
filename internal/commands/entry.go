package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/grandlivre-dev/grandlivre/internal/auditlog"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func newEntryCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and post journal entries",
	}
	cmd.AddCommand(newEntryAddCommand(configPath))
	cmd.AddCommand(newEntryPostCommand(configPath))
	return cmd
}

func newEntryAddCommand(configPath *string) *cobra.Command {
	var journalID, date, ref string
	var debits, credits []string
	var post bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a journal entry from --debit/--credit pairs",
		Example: `  grandlivre entry add --journal OD --date 2025-03-01 \
    --debit 601000=300000 --debit 445000=54000 --credit 401000=354000 --post`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			moveDate, err := parseDate(date)
			if err != nil {
				return err
			}

			var lines []model.MoveLine
			for _, spec := range debits {
				line, err := parseLineSpec(spec, true)
				if err != nil {
					return err
				}
				lines = append(lines, line)
			}
			for _, spec := range credits {
				line, err := parseLineSpec(spec, false)
				if err != nil {
					return err
				}
				lines = append(lines, line)
			}

			move := &model.Move{
				CompanyID: e.cfg.Company.ID,
				Date:      moveDate,
				JournalID: journalID,
				Ref:       ref,
				Currency:  e.cfg.Ledger.BaseCurrency,
				Lines:     lines,
			}

			ctx := cmd.Context()
			if err := e.poster.CreateDraft(ctx, move); err != nil {
				return err
			}

			if !post {
				fmt.Printf("Draft %s created (%d lines)\n", move.ID, len(move.Lines))
				return audit(e.dataDir, e.cfg.Company.ID, "create_draft", ref, move.ID, "")
			}

			posted, err := e.poster.Post(ctx, e.cfg.Company.ID, move.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Posted %s (%s)\n", posted.Number, posted.ID)
			return audit(e.dataDir, e.cfg.Company.ID, "post_move", ref, posted.ID, posted.Number)
		},
	}

	cmd.Flags().StringVar(&journalID, "journal", "OD", "journal to record into")
	cmd.Flags().StringVar(&date, "date", time.Now().Format(dateFormat), "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ref, "ref", "", "free-form reference")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().BoolVar(&post, "post", false, "post immediately after creating")

	return cmd
}

func newEntryPostCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post MOVE_ID",
		Short: "Post a draft entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			posted, err := e.poster.Post(cmd.Context(), e.cfg.Company.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Posted %s (%s)\n", posted.Number, posted.ID)
			return audit(e.dataDir, e.cfg.Company.ID, "post_move", posted.Ref, posted.ID, posted.Number)
		},
	}
	return cmd
}

// parseLineSpec parses "ACCOUNT=AMOUNT" into a one-sided move line.
func parseLineSpec(spec string, debit bool) (model.MoveLine, error) {
	account, amount, ok := strings.Cut(spec, "=")
	if !ok || account == "" {
		return model.MoveLine{}, fmt.Errorf("invalid line %q, want ACCOUNT=AMOUNT", spec)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return model.MoveLine{}, fmt.Errorf("invalid amount in %q: %w", spec, err)
	}

	line := model.MoveLine{AccountID: account}
	if debit {
		line.Debit = d
	} else {
		line.Credit = d
	}
	return line, nil
}

func audit(dataDir, companyID, action, details, moveID, number string) error {
	return auditlog.Append(dataDir, []auditlog.Entry{{
		Timestamp: time.Now().UTC(),
		CompanyID: companyID,
		Actor:     "cli",
		Action:    action,
		Details:   details,
		MoveID:    moveID,
		Number:    number,
	}})
}
