package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
	"github.com/grandlivre-dev/grandlivre/internal/store"
)

func (s *Store) SaveAccount(ctx context.Context, a *model.Account) error {
	_, err := s.writer.ExecContext(ctx, `
		INSERT INTO accounts (id, company_id, code, name, type, parent_id, reconcilable)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_id, id) DO UPDATE SET
			code = excluded.code, name = excluded.name, type = excluded.type,
			parent_id = excluded.parent_id, reconcilable = excluded.reconcilable`,
		a.ID, a.CompanyID, a.Code, a.Name, string(a.Type), a.ParentID, boolToInt(a.Reconcilable),
	)
	if err != nil {
		return fmt.Errorf("save account %s: %w", a.Code, err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, companyID, id string) (*model.Account, error) {
	var a model.Account
	var reconcilable int
	err := s.reader.QueryRowContext(ctx, `
		SELECT id, company_id, code, name, type, parent_id, reconcilable
		FROM accounts WHERE company_id = ? AND id = ?`, companyID, id,
	).Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.ParentID, &reconcilable)
	if err == sql.ErrNoRows {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Reconcilable = reconcilable == 1
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context, companyID string) ([]model.Account, error) {
	rows, err := s.reader.QueryContext(ctx, `
		SELECT id, company_id, code, name, type, parent_id, reconcilable
		FROM accounts WHERE company_id = ? ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var reconcilable int
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.ParentID, &reconcilable); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Reconcilable = reconcilable == 1
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) SaveJournal(ctx context.Context, j *model.Journal) error {
	_, err := s.writer.ExecContext(ctx, `
		INSERT INTO journals (id, company_id, code, name, type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (company_id, id) DO UPDATE SET
			code = excluded.code, name = excluded.name, type = excluded.type`,
		j.ID, j.CompanyID, j.Code, j.Name, string(j.Type),
	)
	if err != nil {
		return fmt.Errorf("save journal %s: %w", j.Code, err)
	}
	return nil
}

func (s *Store) ListJournals(ctx context.Context, companyID string) ([]model.Journal, error) {
	rows, err := s.reader.QueryContext(ctx, `
		SELECT id, company_id, code, name, type
		FROM journals WHERE company_id = ? ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	defer rows.Close()

	var journals []model.Journal
	for rows.Next() {
		var j model.Journal
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Code, &j.Name, &j.Type); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

func (s *Store) SavePartner(ctx context.Context, p *model.Partner) error {
	_, err := s.writer.ExecContext(ctx, `
		INSERT INTO partners (id, company_id, name, kind, account_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (company_id, id) DO UPDATE SET
			name = excluded.name, kind = excluded.kind, account_id = excluded.account_id`,
		p.ID, p.CompanyID, p.Name, string(p.Kind), p.AccountID,
	)
	if err != nil {
		return fmt.Errorf("save partner %s: %w", p.Name, err)
	}
	return nil
}

func (s *Store) GetPartner(ctx context.Context, companyID, id string) (*model.Partner, error) {
	var p model.Partner
	err := s.reader.QueryRowContext(ctx, `
		SELECT id, company_id, name, kind, account_id
		FROM partners WHERE company_id = ? AND id = ?`, companyID, id,
	).Scan(&p.ID, &p.CompanyID, &p.Name, &p.Kind, &p.AccountID)
	if err == sql.ErrNoRows {
		return nil, store.ErrPartnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return &p, nil
}

func (s *Store) ListPartners(ctx context.Context, companyID string) ([]model.Partner, error) {
	rows, err := s.reader.QueryContext(ctx, `
		SELECT id, company_id, name, kind, account_id
		FROM partners WHERE company_id = ? ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []model.Partner
	for rows.Next() {
		var p model.Partner
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Kind, &p.AccountID); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (s *Store) SaveInvoice(ctx context.Context, inv *model.Invoice) error {
	_, err := s.writer.ExecContext(ctx, `
		INSERT INTO invoices (id, company_id, partner_id, kind, number, date, due_date, total_ttc, amount_paid, move_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_id, id) DO UPDATE SET
			partner_id = excluded.partner_id, kind = excluded.kind, number = excluded.number,
			date = excluded.date, due_date = excluded.due_date, total_ttc = excluded.total_ttc,
			amount_paid = excluded.amount_paid, move_id = excluded.move_id`,
		inv.ID, inv.CompanyID, inv.PartnerID, string(inv.Kind), inv.Number,
		formatTime(inv.Date), formatTimePtr(inv.DueDate),
		inv.TotalTTC.String(), inv.AmountPaid.String(), inv.MoveID,
	)
	if err != nil {
		return fmt.Errorf("save invoice %s: %w", inv.Number, err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, companyID, id string) (*model.Invoice, error) {
	row := s.reader.QueryRowContext(ctx, `
		SELECT id, company_id, partner_id, kind, number, date, due_date, total_ttc, amount_paid, move_id
		FROM invoices WHERE company_id = ? AND id = ?`, companyID, id)

	inv, err := scanInvoice(row.Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, companyID string, kind model.InvoiceKind) ([]model.Invoice, error) {
	query := `
		SELECT id, company_id, partner_id, kind, number, date, due_date, total_ttc, amount_paid, move_id
		FROM invoices WHERE company_id = ?`
	args := []any{companyID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY date, number`

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func scanInvoice(scan func(...any) error) (*model.Invoice, error) {
	var inv model.Invoice
	var date string
	var dueDate sql.NullString
	var totalTTC, amountPaid string

	if err := scan(&inv.ID, &inv.CompanyID, &inv.PartnerID, &inv.Kind, &inv.Number,
		&date, &dueDate, &totalTTC, &amountPaid, &inv.MoveID); err != nil {
		return nil, err
	}

	var err error
	if inv.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t, err := parseTime(dueDate.String)
		if err != nil {
			return nil, err
		}
		inv.DueDate = &t
	}
	if inv.TotalTTC, err = decimal.NewFromString(totalTTC); err != nil {
		return nil, err
	}
	if inv.AmountPaid, err = decimal.NewFromString(amountPaid); err != nil {
		return nil, err
	}
	return &inv, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
