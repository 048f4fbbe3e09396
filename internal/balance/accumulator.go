package balance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// Balance is a per-account accumulation of posted lines. Net is
// debit - credit: positive nets present as debit balances, negative as
// credit balances. The accumulator is type-agnostic; callers decide which
// side is "normal" for an account.
type Balance struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
	Net    decimal.Decimal
}

// Period selects the lines entering an accumulation: strictly before a date
// (opening balances) or an inclusive date range (period movement).
type Period struct {
	from, to, before time.Time
	bounded          bool
}

// Before selects lines dated strictly before t.
func Before(t time.Time) Period {
	return Period{before: t}
}

// Between selects lines dated in [from, to] inclusive.
func Between(from, to time.Time) Period {
	return Period{from: from, to: to, bounded: true}
}

// Contains reports whether a line dated at t enters the accumulation.
func (p Period) Contains(t time.Time) bool {
	if p.bounded {
		return !t.Before(p.from) && !t.After(p.to)
	}
	return t.Before(p.before)
}

// Accumulate computes per-account balances over the selected period. It is a
// pure function of its inputs: posted lines are immutable, so calling it
// twice yields identical results.
func Accumulate(lines []model.PostedLine, period Period) map[string]Balance {
	balances := make(map[string]Balance)
	for _, line := range lines {
		if !period.Contains(line.Date) {
			continue
		}
		b := balances[line.AccountID]
		b.Debit = b.Debit.Add(line.Debit)
		b.Credit = b.Credit.Add(line.Credit)
		b.Net = b.Debit.Sub(b.Credit)
		balances[line.AccountID] = b
	}
	return balances
}

// Split presents a net as the conventional debit/credit pair: positive in
// the debit column, negative as its magnitude in the credit column.
func Split(net decimal.Decimal) (debit, credit decimal.Decimal) {
	if net.Sign() >= 0 {
		return net, decimal.Zero
	}
	return decimal.Zero, net.Neg()
}

// RunningLine is one general-ledger row: a posted line with the cumulative
// balance after applying it.
type RunningLine struct {
	model.PostedLine
	Running decimal.Decimal
}

// Running produces the general-ledger view for one account's lines: sorted
// by (date, move number) ascending with lexical tie-break on the number,
// each row carrying the cumulative net. Changing the tie-break changes
// reported running balances, so it is fixed here.
func Running(lines []model.PostedLine, opening decimal.Decimal) []RunningLine {
	sorted := append([]model.PostedLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].MoveNumber < sorted[j].MoveNumber
	})

	result := make([]RunningLine, len(sorted))
	running := opening
	for i, line := range sorted {
		running = running.Add(line.Debit).Sub(line.Credit)
		result[i] = RunningLine{PostedLine: line, Running: running}
	}
	return result
}
