package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// FacturesParser parses the standard invoice export:
//
//	kind,number,partner_id,date,due_date,total_ttc,amount_paid
//
// kind is "customer" or "supplier"; due_date may be empty; dates are ISO
// (2006-01-02).
type FacturesParser struct{}

const (
	facturesDateFormat = "2006-01-02"
	facturesNumFields  = 7
	facturesColKind    = 0
	facturesColNumber  = 1
	facturesColPartner = 2
	facturesColDate    = 3
	facturesColDueDate = 4
	facturesColTotal   = 5
	facturesColPaid    = 6
)

// Format returns the parser name.
func (p *FacturesParser) Format() string { return "factures" }

// Parse reads an invoice CSV and returns Invoices.
func (p *FacturesParser) Parse(r io.Reader) ([]model.Invoice, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = facturesNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading invoice CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var invoices []model.Invoice
	for i, rec := range records[1:] {
		inv, err := parseFacturesRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func parseFacturesRow(rec []string) (model.Invoice, error) {
	kind := model.InvoiceKind(rec[facturesColKind])
	if kind != model.InvoiceCustomer && kind != model.InvoiceSupplier {
		return model.Invoice{}, fmt.Errorf("unknown invoice kind %q", rec[facturesColKind])
	}

	date, err := time.Parse(facturesDateFormat, rec[facturesColDate])
	if err != nil {
		return model.Invoice{}, fmt.Errorf("parsing date %q: %w", rec[facturesColDate], err)
	}

	var dueDate *time.Time
	if rec[facturesColDueDate] != "" {
		d, err := time.Parse(facturesDateFormat, rec[facturesColDueDate])
		if err != nil {
			return model.Invoice{}, fmt.Errorf("parsing due date %q: %w", rec[facturesColDueDate], err)
		}
		dueDate = &d
	}

	total, err := decimal.NewFromString(rec[facturesColTotal])
	if err != nil {
		return model.Invoice{}, fmt.Errorf("parsing total %q: %w", rec[facturesColTotal], err)
	}
	if total.Sign() <= 0 {
		return model.Invoice{}, fmt.Errorf("invoice total must be positive, got %s", total)
	}

	paid := decimal.Zero
	if rec[facturesColPaid] != "" {
		paid, err = decimal.NewFromString(rec[facturesColPaid])
		if err != nil {
			return model.Invoice{}, fmt.Errorf("parsing amount paid %q: %w", rec[facturesColPaid], err)
		}
	}

	return model.Invoice{
		Kind:       kind,
		Number:     rec[facturesColNumber],
		PartnerID:  rec[facturesColPartner],
		Date:       date,
		DueDate:    dueDate,
		TotalTTC:   total,
		AmountPaid: paid,
	}, nil
}
