package aging

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// Row is one partner's outstanding balance split by days overdue at the
// reference date. Total always equals the sum of the five buckets.
type Row struct {
	PartnerID string
	Current   decimal.Decimal
	D1To30    decimal.Decimal
	D31To60   decimal.Decimal
	D61To90   decimal.Decimal
	Over90    decimal.Decimal
	Total     decimal.Decimal
}

// Bucket ages open invoices per partner at asOf. The same rules apply to
// customer and supplier invoices; the caller selects which set to pass.
//
// Per invoice: outstanding = TotalTTC - AmountPaid, skipped when <= 0. The
// due date falls back to the invoice date. daysOverdue = floor((asOf - due)
// / 24h); bucket boundaries are inclusive on the lower bucket: [0,30] is
// 1-30 days, (30,60] is 31-60, (60,90] is 61-90, >90 beyond. Negative days
// overdue (not yet due) count as current.
func Bucket(invoices []model.Invoice, asOf time.Time) map[string]Row {
	rows := make(map[string]Row)

	for _, inv := range invoices {
		outstanding := inv.Outstanding()
		if outstanding.Sign() <= 0 {
			continue
		}

		due := inv.Date
		if inv.DueDate != nil {
			due = *inv.DueDate
		}
		daysOverdue := int(asOf.Sub(due).Hours() / 24)
		if asOf.Before(due) {
			daysOverdue = -1
		}

		row := rows[inv.PartnerID]
		row.PartnerID = inv.PartnerID
		switch {
		case daysOverdue < 0:
			row.Current = row.Current.Add(outstanding)
		case daysOverdue <= 30:
			row.D1To30 = row.D1To30.Add(outstanding)
		case daysOverdue <= 60:
			row.D31To60 = row.D31To60.Add(outstanding)
		case daysOverdue <= 90:
			row.D61To90 = row.D61To90.Add(outstanding)
		default:
			row.Over90 = row.Over90.Add(outstanding)
		}
		row.Total = row.Total.Add(outstanding)
		rows[inv.PartnerID] = row
	}

	return rows
}
