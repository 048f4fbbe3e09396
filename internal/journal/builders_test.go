package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func TestBuildInvoiceMove_Customer(t *testing.T) {
	due := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	move, err := BuildInvoiceMove(InvoiceMoveParams{
		CompanyID:      "co1",
		Kind:           model.InvoiceCustomer,
		JournalID:      "VTE",
		Date:           time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		DueDate:        &due,
		Currency:       "CDF",
		PartnerID:      "p1",
		PartnerAccount: "411000",
		RevenueAccount: "701000",
		VATAccount:     "443000",
		AmountHT:       dec("1000"),
		AmountVAT:      dec("160"),
	})
	require.NoError(t, err)
	require.Len(t, move.Lines, 3)

	assert.Equal(t, model.StateDraft, move.State)
	assert.True(t, move.TotalDebit().Equal(move.TotalCredit()))

	receivable := move.Lines[0]
	assert.Equal(t, "411000", receivable.AccountID)
	assert.Equal(t, "p1", receivable.PartnerID)
	assert.True(t, receivable.Debit.Equal(dec("1160")))
	require.NotNil(t, receivable.MaturityDate)
	assert.Equal(t, due, *receivable.MaturityDate)

	assert.True(t, move.Lines[1].Credit.Equal(dec("1000")))
	assert.True(t, move.Lines[2].Credit.Equal(dec("160")))
}

func TestBuildInvoiceMove_Supplier(t *testing.T) {
	move, err := BuildInvoiceMove(InvoiceMoveParams{
		CompanyID:      "co1",
		Kind:           model.InvoiceSupplier,
		JournalID:      "ACH",
		Date:           time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Currency:       "CDF",
		PartnerID:      "v1",
		PartnerAccount: "401000",
		RevenueAccount: "601000",
		AmountHT:       dec("500"),
	})
	require.NoError(t, err)
	require.Len(t, move.Lines, 2, "no VAT line when VAT is zero")

	payable := move.Lines[0]
	assert.True(t, payable.Credit.Equal(dec("500")))
	assert.True(t, move.Lines[1].Debit.Equal(dec("500")))
	assert.True(t, move.TotalDebit().Equal(move.TotalCredit()))
}

func TestBuildInvoiceMove_Errors(t *testing.T) {
	base := InvoiceMoveParams{
		Kind:           model.InvoiceCustomer,
		PartnerAccount: "411000",
		RevenueAccount: "701000",
		AmountHT:       dec("100"),
	}

	zero := base
	zero.AmountHT = dec("0")
	_, err := BuildInvoiceMove(zero)
	assert.Error(t, err)

	vatNoAccount := base
	vatNoAccount.AmountVAT = dec("16")
	_, err = BuildInvoiceMove(vatNoAccount)
	assert.Error(t, err)

	badKind := base
	badKind.Kind = "refund"
	_, err = BuildInvoiceMove(badKind)
	assert.Error(t, err)
}

func TestBuildPaymentMove(t *testing.T) {
	move, err := BuildPaymentMove(PaymentMoveParams{
		CompanyID:       "co1",
		Kind:            model.InvoiceCustomer,
		JournalID:       "BNK",
		Date:            time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		Currency:        "CDF",
		PartnerID:       "p1",
		PartnerAccount:  "411000",
		TreasuryAccount: "521000",
		Amount:          dec("1160"),
	})
	require.NoError(t, err)
	require.Len(t, move.Lines, 2)

	assert.Equal(t, "521000", move.Lines[0].AccountID)
	assert.True(t, move.Lines[0].Debit.Equal(dec("1160")))
	assert.Equal(t, "411000", move.Lines[1].AccountID)
	assert.True(t, move.Lines[1].Credit.Equal(dec("1160")))
}

func TestBuildPaymentMove_SupplierSide(t *testing.T) {
	move, err := BuildPaymentMove(PaymentMoveParams{
		Kind:            model.InvoiceSupplier,
		PartnerAccount:  "401000",
		TreasuryAccount: "521000",
		Amount:          dec("500"),
	})
	require.NoError(t, err)
	assert.True(t, move.Lines[0].Credit.Equal(dec("500")), "treasury credited")
	assert.True(t, move.Lines[1].Debit.Equal(dec("500")), "payable debited")
}
