package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// InvoiceMoveParams describes the balanced move for recording an invoice.
// For a customer invoice the partner account is debited for the tax-inclusive
// total; for a supplier invoice it is credited. VAT may be zero.
type InvoiceMoveParams struct {
	CompanyID      string
	Kind           model.InvoiceKind
	JournalID      string
	Date           time.Time
	DueDate        *time.Time
	Ref            string
	Currency       string
	PartnerID      string
	PartnerAccount string // receivable (customer) or payable (supplier)
	RevenueAccount string // revenue (customer) or expense (supplier) account
	VATAccount     string // required when AmountVAT is nonzero
	AmountHT       decimal.Decimal
	AmountVAT      decimal.Decimal
}

// BuildInvoiceMove returns the draft move recording an invoice. The caller
// hands it to the Poster; nothing is written here.
func BuildInvoiceMove(p InvoiceMoveParams) (*model.Move, error) {
	if p.AmountHT.Sign() <= 0 {
		return nil, fmt.Errorf("invoice amount must be positive, got %s", p.AmountHT)
	}
	if p.AmountVAT.Sign() < 0 {
		return nil, fmt.Errorf("invoice VAT must not be negative, got %s", p.AmountVAT)
	}
	if !p.AmountVAT.IsZero() && p.VATAccount == "" {
		return nil, fmt.Errorf("invoice has VAT %s but no VAT account", p.AmountVAT)
	}

	ttc := p.AmountHT.Add(p.AmountVAT)

	partnerLine := model.MoveLine{
		AccountID:    p.PartnerAccount,
		PartnerID:    p.PartnerID,
		Currency:     p.Currency,
		MaturityDate: p.DueDate,
	}
	revenueLine := model.MoveLine{
		AccountID: p.RevenueAccount,
		Currency:  p.Currency,
	}
	vatLine := model.MoveLine{
		AccountID: p.VATAccount,
		Currency:  p.Currency,
	}

	switch p.Kind {
	case model.InvoiceCustomer:
		partnerLine.Debit = ttc
		revenueLine.Credit = p.AmountHT
		vatLine.Credit = p.AmountVAT
	case model.InvoiceSupplier:
		partnerLine.Credit = ttc
		revenueLine.Debit = p.AmountHT
		vatLine.Debit = p.AmountVAT
	default:
		return nil, fmt.Errorf("unknown invoice kind %q", p.Kind)
	}

	lines := []model.MoveLine{partnerLine, revenueLine}
	if !p.AmountVAT.IsZero() {
		lines = append(lines, vatLine)
	}

	return &model.Move{
		CompanyID: p.CompanyID,
		Date:      p.Date,
		JournalID: p.JournalID,
		Ref:       p.Ref,
		State:     model.StateDraft,
		Currency:  p.Currency,
		Lines:     lines,
	}, nil
}

// PaymentMoveParams describes the move settling (part of) an invoice through
// a treasury account.
type PaymentMoveParams struct {
	CompanyID       string
	Kind            model.InvoiceKind
	JournalID       string
	Date            time.Time
	Ref             string
	Currency        string
	PartnerID       string
	PartnerAccount  string
	TreasuryAccount string
	Amount          decimal.Decimal
}

// BuildPaymentMove returns the draft move for a payment. A customer payment
// debits treasury and credits the receivable; a supplier payment mirrors it.
func BuildPaymentMove(p PaymentMoveParams) (*model.Move, error) {
	if p.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %s", p.Amount)
	}

	treasuryLine := model.MoveLine{
		AccountID: p.TreasuryAccount,
		Currency:  p.Currency,
	}
	partnerLine := model.MoveLine{
		AccountID: p.PartnerAccount,
		PartnerID: p.PartnerID,
		Currency:  p.Currency,
	}

	switch p.Kind {
	case model.InvoiceCustomer:
		treasuryLine.Debit = p.Amount
		partnerLine.Credit = p.Amount
	case model.InvoiceSupplier:
		treasuryLine.Credit = p.Amount
		partnerLine.Debit = p.Amount
	default:
		return nil, fmt.Errorf("unknown invoice kind %q", p.Kind)
	}

	return &model.Move{
		CompanyID: p.CompanyID,
		Date:      p.Date,
		JournalID: p.JournalID,
		Ref:       p.Ref,
		State:     model.StateDraft,
		Currency:  p.Currency,
		Lines:     []model.MoveLine{treasuryLine, partnerLine},
	}, nil
}
