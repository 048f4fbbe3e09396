package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre-dev/grandlivre/internal/coa"
	"github.com/grandlivre-dev/grandlivre/internal/model"
	"github.com/grandlivre-dev/grandlivre/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCompany(t *testing.T, s *Store, companyID string) {
	t.Helper()
	ctx := context.Background()
	for _, a := range coa.DefaultChart(companyID) {
		require.NoError(t, s.SaveAccount(ctx, &a))
	}
	for _, j := range coa.DefaultJournals(companyID) {
		require.NoError(t, s.SaveJournal(ctx, &j))
	}
}

func draftMove(companyID, journalID string, date time.Time, lines ...model.MoveLine) *model.Move {
	return &model.Move{
		CompanyID: companyID,
		Date:      date,
		JournalID: journalID,
		State:     model.StateDraft,
		Lines:     lines,
	}
}

func dr(account, amount string) model.MoveLine {
	return model.MoveLine{AccountID: account, Debit: dec(amount), Credit: decimal.Zero}
}

func cr(account, amount string) model.MoveLine {
	return model.MoveLine{AccountID: account, Credit: dec(amount), Debit: decimal.Zero}
}

func TestAccountsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	seedCompany(t, s, "co1")
	ctx := context.Background()

	accounts, err := s.ListAccounts(ctx, "co1")
	require.NoError(t, err)
	assert.Len(t, accounts, len(coa.DefaultChart("co1")))

	a, err := s.GetAccount(ctx, "co1", "521000")
	require.NoError(t, err)
	assert.Equal(t, "Banque locale", a.Name)

	_, err = s.GetAccount(ctx, "co1", "missing")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)

	// Another company's book is invisible.
	_, err = s.GetAccount(ctx, "co2", "521000")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestPostMove_AssignsSequentialNumbers(t *testing.T) {
	s := openTestStore(t)
	seedCompany(t, s, "co1")
	ctx := context.Background()
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		m := draftMove("co1", "OD", date, dr("521000", "100"), cr("101000", "100"))
		require.NoError(t, s.CreateMove(ctx, m))

		number, err := s.PostMove(ctx, "co1", m.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"OD/2025/0001", "OD/2025/0002", "OD/2025/0003"}[i-1], number)
	}
}

func TestPostMove_SequencesAreScopedByJournalAndYear(t *testing.T) {
	s := openTestStore(t)
	seedCompany(t, s, "co1")
	ctx := context.Background()

	m1 := draftMove("co1", "OD", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		dr("521000", "100"), cr("101000", "100"))
	require.NoError(t, s.CreateMove(ctx, m1))
	n1, err := s.PostMove(ctx, "co1", m1.ID)
	require.NoError(t, err)
	assert.Equal(t, "OD/2025/0001", n1)

	m2 := draftMove("co1", "VTE", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		dr("411000", "100"), cr("701000", "100"))
	require.NoError(t, s.CreateMove(ctx, m2))
	n2, err := s.PostMove(ctx, "co1", m2.ID)
	require.NoError(t, err)
	assert.Equal(t, "VTE/2025/0001", n2)

	m3 := draftMove("co1", "OD", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		dr("521000", "100"), cr("101000", "100"))
	require.NoError(t, s.CreateMove(ctx, m3))
	n3, err := s.PostMove(ctx, "co1", m3.ID)
	require.NoError(t, err)
	assert.Equal(t, "OD/2026/0001", n3)
}

func TestPostMove_DraftOnly(t *testing.T) {
	s := openTestStore(t)
	seedCompany(t, s, "co1")
	ctx := context.Background()

	m := draftMove("co1", "OD", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		dr("521000", "100"), cr("101000", "100"))
	require.NoError(t, s.CreateMove(ctx, m))

	_, err := s.PostMove(ctx, "co1", m.ID)
	require.NoError(t, err)

	_, err = s.PostMove(ctx, "co1", m.ID)
	assert.Error(t, err)
}

func TestPostedLines_AreImmutable(t *testing.T) {
	s := openTestStore(t)
	seedCompany(t, s, "co1")
	ctx := context.Background()

	m := draftMove("co1", "OD", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		dr("521000", "100"), cr("101000", "100"))
	require.NoError(t, s.CreateMove(ctx, m))
	_, err := s.PostMove(ctx, "co1", m.ID)
	require.NoError(t, err)

	_, err = s.writer.ExecContext(ctx,
		`UPDATE move_lines SET debit = '999' WHERE move_id = ?`, m.ID)
	assert.Error(t, err, "trigger must reject line updates on posted moves")

	_, err = s.writer.ExecContext(ctx,
		`DELETE FROM move_lines WHERE move_id = ?`, m.ID)
	assert.Error(t, err, "trigger must reject line deletes on posted moves")

	_, err = s.writer.ExecContext(ctx,
		`UPDATE moves SET state = 'draft' WHERE id = ?`, m.ID)
	assert.Error(t, err, "trigger must reject un-posting")
}

func TestPostedLines_FilterAndOrder(t *testing.T) {
	s := openTestStore(t)
	seedCompany(t, s, "co1")
	ctx := context.Background()

	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	m1 := draftMove("co1", "VTE", feb, dr("411000", "590"), cr("701000", "500"), cr("443000", "90"))
	require.NoError(t, s.CreateMove(ctx, m1))
	_, err := s.PostMove(ctx, "co1", m1.ID)
	require.NoError(t, err)

	m2 := draftMove("co1", "BNK", mar, dr("521000", "590"), cr("411000", "590"))
	require.NoError(t, s.CreateMove(ctx, m2))
	_, err = s.PostMove(ctx, "co1", m2.ID)
	require.NoError(t, err)

	// Drafts never appear.
	m3 := draftMove("co1", "OD", mar, dr("601000", "10"), cr("521000", "10"))
	require.NoError(t, s.CreateMove(ctx, m3))

	all, err := s.PostedLines(ctx, "co1", store.LineFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, feb, all[0].Date)

	receivable, err := s.PostedLines(ctx, "co1", store.LineFilter{AccountIDs: []string{"411000"}})
	require.NoError(t, err)
	require.Len(t, receivable, 2)
	assert.True(t, receivable[0].Debit.Equal(dec("590")))
	assert.True(t, receivable[1].Credit.Equal(dec("590")))

	from := mar
	marchOnly, err := s.PostedLines(ctx, "co1", store.LineFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, marchOnly, 2)
}

func TestInvoicesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	inv := &model.Invoice{
		ID:         "inv-1",
		CompanyID:  "co1",
		PartnerID:  "p1",
		Kind:       model.InvoiceCustomer,
		Number:     "FAC-2025-001",
		Date:       time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		DueDate:    &due,
		TotalTTC:   dec("590000"),
		AmountPaid: dec("0"),
	}
	require.NoError(t, s.SaveInvoice(ctx, inv))

	got, err := s.GetInvoice(ctx, "co1", "inv-1")
	require.NoError(t, err)
	assert.True(t, got.TotalTTC.Equal(dec("590000")))
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	inv.AmountPaid = dec("200000")
	require.NoError(t, s.SaveInvoice(ctx, inv))
	got, err = s.GetInvoice(ctx, "co1", "inv-1")
	require.NoError(t, err)
	assert.True(t, got.Outstanding().Equal(dec("390000")))

	customers, err := s.ListInvoices(ctx, "co1", model.InvoiceCustomer)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	suppliers, err := s.ListInvoices(ctx, "co1", model.InvoiceSupplier)
	require.NoError(t, err)
	assert.Empty(t, suppliers)
}

func TestRates_LatestEffectiveWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	save := func(rate string, effective time.Time) {
		require.NoError(t, s.SaveRate(ctx, &model.ExchangeRate{
			CompanyID:     "co1",
			FromCurrency:  "USD",
			ToCurrency:    "CDF",
			Rate:          dec(rate),
			DateEffective: effective,
		}))
	}
	save("1900", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	save("2000", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	save("2100", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	rate, ok, err := s.Rate(ctx, "co1", "USD", "CDF", time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rate.Equal(dec("2000")))

	_, ok, err = s.Rate(ctx, "co1", "USD", "CDF", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Rate(ctx, "co1", "EUR", "CDF", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveConversion_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := &model.CurrencyConversion{
		CompanyID:     "co1",
		FromCurrency:  "USD",
		ToCurrency:    "CDF",
		FromAmount:    dec("100"),
		ToAmount:      dec("200000"),
		ExchangeRate:  dec("2000"),
		FromAccountID: "521100",
		ToAccountID:   "521000",
		MoveID:        "m1",
	}
	require.NoError(t, s.SaveConversion(ctx, c))
	assert.NotEmpty(t, c.ID)

	list, err := s.ListConversions(ctx, "co1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].ToAmount.Equal(dec("200000")))
}
