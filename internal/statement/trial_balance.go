package statement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/balance"
	"github.com/grandlivre-dev/grandlivre/internal/coa"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// TrialBalanceRow is one account's line in the 6-column trial balance:
// signed opening split, raw period totals, signed closing split.
type TrialBalanceRow struct {
	AccountID     string
	Code          string
	Name          string
	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	PeriodDebit   decimal.Decimal
	PeriodCredit  decimal.Decimal
	ClosingDebit  decimal.Decimal
	ClosingCredit decimal.Decimal
}

// TrialBalance is the 6-column trial balance over a period. Balanced checks
// sum(closing debit) == sum(closing credit), a consistency check on the
// whole ledger. Unclassified accounts are included: the trial balance shows
// everything.
type TrialBalance struct {
	Rows     []TrialBalanceRow
	Totals   TrialBalanceRow
	Balanced bool
}

// TrialBalanceOver derives the trial balance from posted lines for
// [from, to]. Accounts with all-zero columns are omitted.
func TrialBalanceOver(lines []model.PostedLine, chart *coa.Service, from, to time.Time) TrialBalance {
	opening := balance.Accumulate(lines, balance.Before(from))
	period := balance.Accumulate(lines, balance.Between(from, to))

	accountIDs := make(map[string]bool)
	for id := range opening {
		accountIDs[id] = true
	}
	for id := range period {
		accountIDs[id] = true
	}

	tb := TrialBalance{}
	for id := range accountIDs {
		open := opening[id]
		move := period[id]

		row := TrialBalanceRow{AccountID: id}
		if acct, ok := chart.Get(id); ok {
			row.Code = acct.Code
			row.Name = acct.Name
		}
		row.OpeningDebit, row.OpeningCredit = balance.Split(open.Net)
		row.PeriodDebit = move.Debit
		row.PeriodCredit = move.Credit
		row.ClosingDebit, row.ClosingCredit = balance.Split(open.Net.Add(move.Net))

		if allZero(row) {
			continue
		}
		tb.Rows = append(tb.Rows, row)
	}

	sort.Slice(tb.Rows, func(i, j int) bool {
		if tb.Rows[i].Code != tb.Rows[j].Code {
			return tb.Rows[i].Code < tb.Rows[j].Code
		}
		return tb.Rows[i].AccountID < tb.Rows[j].AccountID
	})

	for _, row := range tb.Rows {
		tb.Totals.OpeningDebit = tb.Totals.OpeningDebit.Add(row.OpeningDebit)
		tb.Totals.OpeningCredit = tb.Totals.OpeningCredit.Add(row.OpeningCredit)
		tb.Totals.PeriodDebit = tb.Totals.PeriodDebit.Add(row.PeriodDebit)
		tb.Totals.PeriodCredit = tb.Totals.PeriodCredit.Add(row.PeriodCredit)
		tb.Totals.ClosingDebit = tb.Totals.ClosingDebit.Add(row.ClosingDebit)
		tb.Totals.ClosingCredit = tb.Totals.ClosingCredit.Add(row.ClosingCredit)
	}
	tb.Balanced = tb.Totals.ClosingDebit.Equal(tb.Totals.ClosingCredit)

	return tb
}

func allZero(r TrialBalanceRow) bool {
	return r.OpeningDebit.IsZero() && r.OpeningCredit.IsZero() &&
		r.PeriodDebit.IsZero() && r.PeriodCredit.IsZero() &&
		r.ClosingDebit.IsZero() && r.ClosingCredit.IsZero()
}
