// Package postgres is the shared-server backend, for deployments where
// several clients post into one book.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/grandlivre-dev/grandlivre/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.LedgerStore = (*Store)(nil)

// Open connects with the given DSN and applies the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id           TEXT NOT NULL,
			company_id   TEXT NOT NULL,
			code         TEXT NOT NULL,
			name         TEXT NOT NULL,
			type         TEXT NOT NULL,
			parent_id    TEXT NOT NULL DEFAULT '',
			reconcilable BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_code ON accounts(company_id, code)`,

		`CREATE TABLE IF NOT EXISTS journals (
			id         TEXT NOT NULL,
			company_id TEXT NOT NULL,
			code       TEXT NOT NULL,
			name       TEXT NOT NULL,
			type       TEXT NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS partners (
			id         TEXT NOT NULL,
			company_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			kind       TEXT NOT NULL,
			account_id TEXT NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id          TEXT NOT NULL,
			company_id  TEXT NOT NULL,
			partner_id  TEXT NOT NULL,
			kind        TEXT NOT NULL,
			number      TEXT NOT NULL,
			date        TIMESTAMPTZ NOT NULL,
			due_date    TIMESTAMPTZ,
			total_ttc   NUMERIC NOT NULL,
			amount_paid NUMERIC NOT NULL DEFAULT 0,
			move_id     TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_partner ON invoices(company_id, partner_id)`,

		`CREATE TABLE IF NOT EXISTS moves (
			id            TEXT NOT NULL,
			company_id    TEXT NOT NULL,
			number        TEXT NOT NULL DEFAULT '',
			date          TIMESTAMPTZ NOT NULL,
			journal_id    TEXT NOT NULL,
			ref           TEXT NOT NULL DEFAULT '',
			state         TEXT NOT NULL,
			currency      TEXT NOT NULL DEFAULT '',
			exchange_rate NUMERIC NOT NULL DEFAULT 0,
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_moves_journal ON moves(company_id, journal_id, date)`,

		`CREATE TABLE IF NOT EXISTS move_lines (
			id            TEXT NOT NULL,
			company_id    TEXT NOT NULL,
			move_id       TEXT NOT NULL,
			account_id    TEXT NOT NULL,
			partner_id    TEXT NOT NULL DEFAULT '',
			debit         NUMERIC NOT NULL DEFAULT 0,
			credit        NUMERIC NOT NULL DEFAULT 0,
			currency      TEXT NOT NULL DEFAULT '',
			exchange_rate NUMERIC NOT NULL DEFAULT 0,
			maturity_date TIMESTAMPTZ,
			seq           INTEGER NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_move ON move_lines(company_id, move_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_account ON move_lines(company_id, account_id)`,

		`CREATE TABLE IF NOT EXISTS sequences (
			company_id TEXT NOT NULL,
			journal_id TEXT NOT NULL,
			year       INTEGER NOT NULL,
			next_seq   INTEGER NOT NULL,
			PRIMARY KEY (company_id, journal_id, year)
		)`,

		`CREATE TABLE IF NOT EXISTS conversions (
			id              TEXT NOT NULL,
			company_id      TEXT NOT NULL,
			from_currency   TEXT NOT NULL,
			to_currency     TEXT NOT NULL,
			from_amount     NUMERIC NOT NULL,
			to_amount       NUMERIC NOT NULL,
			exchange_rate   NUMERIC NOT NULL,
			from_account_id TEXT NOT NULL,
			to_account_id   TEXT NOT NULL,
			move_id         TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS exchange_rates (
			id             TEXT NOT NULL,
			company_id     TEXT NOT NULL,
			from_currency  TEXT NOT NULL,
			to_currency    TEXT NOT NULL,
			rate           NUMERIC NOT NULL,
			date_effective TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rates_pair ON exchange_rates(company_id, from_currency, to_currency, date_effective)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:50], err)
		}
	}
	return nil
}
