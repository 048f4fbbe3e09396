package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartnerKind says which side of the business a partner sits on.
type PartnerKind string

const (
	PartnerCustomer PartnerKind = "customer"
	PartnerVendor   PartnerKind = "vendor"
	PartnerBoth     PartnerKind = "both"
)

// Partner is a customer, vendor, or both. AccountID is the receivable or
// payable account its invoice lines post to.
type Partner struct {
	ID        string
	CompanyID string
	Name      string
	Kind      PartnerKind
	AccountID string
}

// InvoiceKind distinguishes receivable from payable invoices.
type InvoiceKind string

const (
	InvoiceCustomer InvoiceKind = "customer"
	InvoiceSupplier InvoiceKind = "supplier"
)

// Invoice is the aging engine's view of an open invoice. TotalTTC is the
// tax-inclusive total; the outstanding balance is TotalTTC - AmountPaid.
type Invoice struct {
	ID         string
	CompanyID  string
	PartnerID  string
	Kind       InvoiceKind
	Number     string
	Date       time.Time
	DueDate    *time.Time // nil falls back to Date for aging
	TotalTTC   decimal.Decimal
	AmountPaid decimal.Decimal
	MoveID     string // move recorded when the invoice was posted
}

// Outstanding returns the unpaid balance.
func (i Invoice) Outstanding() decimal.Decimal {
	return i.TotalTTC.Sub(i.AmountPaid)
}
