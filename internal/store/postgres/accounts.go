package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
	"github.com/grandlivre-dev/grandlivre/internal/store"
)

func (s *Store) SaveAccount(ctx context.Context, a *model.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, company_id, code, name, type, parent_id, reconcilable)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, id) DO UPDATE SET
			code = excluded.code, name = excluded.name, type = excluded.type,
			parent_id = excluded.parent_id, reconcilable = excluded.reconcilable`,
		a.ID, a.CompanyID, a.Code, a.Name, string(a.Type), a.ParentID, a.Reconcilable,
	)
	if err != nil {
		return fmt.Errorf("save account %s: %w", a.Code, err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, companyID, id string) (*model.Account, error) {
	var a model.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, code, name, type, parent_id, reconcilable
		FROM accounts WHERE company_id = $1 AND id = $2`, companyID, id,
	).Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.Reconcilable)
	if err == sql.ErrNoRows {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context, companyID string) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, code, name, type, parent_id, reconcilable
		FROM accounts WHERE company_id = $1 ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.ParentID, &a.Reconcilable); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) SaveJournal(ctx context.Context, j *model.Journal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journals (id, company_id, code, name, type)
		VALUES ($1, $2, $3, $4, $5)
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
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, code, name, type
		FROM journals WHERE company_id = $1 ORDER BY code`, companyID)
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
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO partners (id, company_id, name, kind, account_id)
		VALUES ($1, $2, $3, $4, $5)
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
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, kind, account_id
		FROM partners WHERE company_id = $1 AND id = $2`, companyID, id,
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
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, name, kind, account_id
		FROM partners WHERE company_id = $1 ORDER BY name`, companyID)
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
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, company_id, partner_id, kind, number, date, due_date, total_ttc, amount_paid, move_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id, id) DO UPDATE SET
			partner_id = excluded.partner_id, kind = excluded.kind, number = excluded.number,
			date = excluded.date, due_date = excluded.due_date, total_ttc = excluded.total_ttc,
			amount_paid = excluded.amount_paid, move_id = excluded.move_id`,
		inv.ID, inv.CompanyID, inv.PartnerID, string(inv.Kind), inv.Number,
		inv.Date, inv.DueDate, inv.TotalTTC.String(), inv.AmountPaid.String(), inv.MoveID,
	)
	if err != nil {
		return fmt.Errorf("save invoice %s: %w", inv.Number, err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, companyID, id string) (*model.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, partner_id, kind, number, date, due_date, total_ttc, amount_paid, move_id
		FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id)

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
		FROM invoices WHERE company_id = $1`
	args := []any{companyID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY date, number`

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	var dueDate sql.NullTime
	var totalTTC, amountPaid string

	if err := scan(&inv.ID, &inv.CompanyID, &inv.PartnerID, &inv.Kind, &inv.Number,
		&inv.Date, &dueDate, &totalTTC, &amountPaid, &inv.MoveID); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		inv.DueDate = &t
	}

	var err error
	if inv.TotalTTC, err = decimal.NewFromString(totalTTC); err != nil {
		return nil, err
	}
	if inv.AmountPaid, err = decimal.NewFromString(amountPaid); err != nil {
		return nil, err
	}
	return &inv, nil
}
