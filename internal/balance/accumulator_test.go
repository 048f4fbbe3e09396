package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func line(account string, date time.Time, number, debit, credit string) model.PostedLine {
	return model.PostedLine{
		MoveLine: model.MoveLine{
			AccountID: account,
			Debit:     dec(debit),
			Credit:    dec(credit),
		},
		Date:       date,
		MoveNumber: number,
	}
}

var fixtureLines = []model.PostedLine{
	line("521000", day(2025, 1, 10), "BNK/2025/0001", "1000", "0"),
	line("701000", day(2025, 1, 10), "BNK/2025/0001", "0", "1000"),
	line("601000", day(2025, 2, 5), "ACH/2025/0001", "400", "0"),
	line("521000", day(2025, 2, 5), "ACH/2025/0001", "0", "400"),
	line("521000", day(2025, 2, 20), "BNK/2025/0002", "250", "0"),
	line("701000", day(2025, 2, 20), "BNK/2025/0002", "0", "250"),
}

func TestAccumulate_Before(t *testing.T) {
	balances := Accumulate(fixtureLines, Before(day(2025, 2, 1)))

	require.Len(t, balances, 2, "only January accounts")
	assert.True(t, balances["521000"].Net.Equal(dec("1000")))
	assert.True(t, balances["701000"].Net.Equal(dec("-1000")))
}

func TestAccumulate_Between(t *testing.T) {
	balances := Accumulate(fixtureLines, Between(day(2025, 2, 1), day(2025, 2, 28)))

	bank := balances["521000"]
	assert.True(t, bank.Debit.Equal(dec("250")))
	assert.True(t, bank.Credit.Equal(dec("400")))
	assert.True(t, bank.Net.Equal(dec("-150")))

	assert.True(t, balances["601000"].Net.Equal(dec("400")))
}

func TestAccumulate_BetweenBoundsInclusive(t *testing.T) {
	balances := Accumulate(fixtureLines, Between(day(2025, 2, 5), day(2025, 2, 20)))
	assert.True(t, balances["601000"].Net.Equal(dec("400")), "from bound inclusive")
	assert.True(t, balances["701000"].Net.Equal(dec("-250")), "to bound inclusive")
}

func TestAccumulate_Idempotent(t *testing.T) {
	period := Between(day(2025, 1, 1), day(2025, 12, 31))
	first := Accumulate(fixtureLines, period)
	second := Accumulate(fixtureLines, period)

	require.Equal(t, len(first), len(second))
	for account, b := range first {
		assert.True(t, b.Net.Equal(second[account].Net), "account %s", account)
		assert.True(t, b.Debit.Equal(second[account].Debit), "account %s", account)
		assert.True(t, b.Credit.Equal(second[account].Credit), "account %s", account)
	}
}

func TestAccumulate_WholeLedgerBalances(t *testing.T) {
	balances := Accumulate(fixtureLines, Between(day(2025, 1, 1), day(2025, 12, 31)))
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Net)
	}
	assert.True(t, total.IsZero(), "sum of nets over a balanced ledger is zero, got %s", total)
}

func TestSplit(t *testing.T) {
	d, c := Split(dec("150"))
	assert.True(t, d.Equal(dec("150")))
	assert.True(t, c.IsZero())

	d, c = Split(dec("-150"))
	assert.True(t, d.IsZero())
	assert.True(t, c.Equal(dec("150")))

	d, c = Split(decimal.Zero)
	assert.True(t, d.IsZero())
	assert.True(t, c.IsZero())
}

func TestRunning_OrderAndCumulative(t *testing.T) {
	// Deliberately out of order; same-day lines tie-break on move number.
	lines := []model.PostedLine{
		line("521000", day(2025, 2, 20), "BNK/2025/0002", "250", "0"),
		line("521000", day(2025, 1, 10), "BNK/2025/0001", "1000", "0"),
		line("521000", day(2025, 2, 20), "ACH/2025/0009", "0", "400"),
	}

	rows := Running(lines, decimal.Zero)
	require.Len(t, rows, 3)

	assert.Equal(t, "BNK/2025/0001", rows[0].MoveNumber)
	assert.True(t, rows[0].Running.Equal(dec("1000")))

	// 2025-02-20: "ACH/2025/0009" sorts before "BNK/2025/0002" lexically.
	assert.Equal(t, "ACH/2025/0009", rows[1].MoveNumber)
	assert.True(t, rows[1].Running.Equal(dec("600")))

	assert.Equal(t, "BNK/2025/0002", rows[2].MoveNumber)
	assert.True(t, rows[2].Running.Equal(dec("850")))
}

func TestRunning_Opening(t *testing.T) {
	lines := []model.PostedLine{
		line("521000", day(2025, 3, 1), "BNK/2025/0003", "0", "100"),
	}
	rows := Running(lines, dec("500"))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Running.Equal(dec("400")))
}

func TestRunning_DoesNotMutateInput(t *testing.T) {
	lines := []model.PostedLine{
		line("521000", day(2025, 2, 20), "BNK/2025/0002", "250", "0"),
		line("521000", day(2025, 1, 10), "BNK/2025/0001", "1000", "0"),
	}
	Running(lines, decimal.Zero)
	assert.Equal(t, "BNK/2025/0002", lines[0].MoveNumber, "input order preserved")
}
