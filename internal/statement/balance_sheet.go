package statement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/balance"
	"github.com/grandlivre-dev/grandlivre/internal/coa"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// BilanLine is one account's contribution to the balance sheet. Amount is a
// magnitude: net debit balances land on the asset side, net credit balances
// on the liability side.
type BilanLine struct {
	AccountID string
	Code      string
	Name      string
	Class     coa.Class
	Amount    decimal.Decimal
}

// Bilan is the balance sheet as of a date. Assets and Liabilities cover
// balance-sheet classes 1-5; result-formation classes 6-8 are folded into
// ResultatNet, which closes the accounting equation:
//
//	TotalAssets = TotalLiabilities + ResultatNet
//
// Reconciled reports whether that equation holds, which it must whenever
// every account classifies.
type Bilan struct {
	AsOf             time.Time
	Assets           []BilanLine
	Liabilities      []BilanLine
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	ResultatNet      decimal.Decimal
	Reconciled       bool
	Warnings         []Warning
}

// BalanceSheet derives the balance sheet from all posted lines up to and
// including asOf.
func BalanceSheet(lines []model.PostedLine, chart *coa.Service, asOf time.Time) Bilan {
	balances := balance.Accumulate(lines, balance.Before(asOf.AddDate(0, 0, 1)))

	b := Bilan{AsOf: asOf}
	for accountID, bal := range balances {
		if bal.Net.IsZero() {
			continue
		}

		acct, ok := chart.Get(accountID)
		if !ok {
			b.Warnings = append(b.Warnings, unclassifiedWarning(accountID, "unknown account"))
			continue
		}

		c := coa.Classify(acct.Code)
		if c.Class == coa.ClassUnclassified {
			b.Warnings = append(b.Warnings, unclassifiedWarning(acct.Code, acct.Name))
			continue
		}
		if coa.IncomeStatementGroup(c) {
			// Classes 6-8 form the result, not balance-sheet positions.
			b.ResultatNet = b.ResultatNet.Sub(bal.Net)
			continue
		}

		line := BilanLine{
			AccountID: accountID,
			Code:      acct.Code,
			Name:      acct.Name,
			Class:     c.Class,
		}
		if bal.Net.IsPositive() {
			line.Amount = bal.Net
			b.Assets = append(b.Assets, line)
			b.TotalAssets = b.TotalAssets.Add(line.Amount)
		} else {
			line.Amount = bal.Net.Neg()
			b.Liabilities = append(b.Liabilities, line)
			b.TotalLiabilities = b.TotalLiabilities.Add(line.Amount)
		}
	}

	sortBilanLines(b.Assets)
	sortBilanLines(b.Liabilities)

	b.Reconciled = b.TotalAssets.Equal(b.TotalLiabilities.Add(b.ResultatNet))
	return b
}

func sortBilanLines(lines []BilanLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Code != lines[j].Code {
			return lines[i].Code < lines[j].Code
		}
		return lines[i].AccountID < lines[j].AccountID
	})
}
