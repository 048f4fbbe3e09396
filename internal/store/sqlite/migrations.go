package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id           TEXT NOT NULL,
			company_id   TEXT NOT NULL,
			code         TEXT NOT NULL,
			name         TEXT NOT NULL,
			type         TEXT NOT NULL CHECK (type IN ('asset','liability','equity','income','expense','receivable','payable')),
			parent_id    TEXT NOT NULL DEFAULT '',
			reconcilable INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_code ON accounts(company_id, code)`,

		`CREATE TABLE IF NOT EXISTS journals (
			id         TEXT NOT NULL,
			company_id TEXT NOT NULL,
			code       TEXT NOT NULL,
			name       TEXT NOT NULL,
			type       TEXT NOT NULL CHECK (type IN ('sales','purchases','cash','bank','misc')),
			PRIMARY KEY (company_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS partners (
			id         TEXT NOT NULL,
			company_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			kind       TEXT NOT NULL CHECK (kind IN ('customer','vendor','both')),
			account_id TEXT NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id          TEXT NOT NULL,
			company_id  TEXT NOT NULL,
			partner_id  TEXT NOT NULL,
			kind        TEXT NOT NULL CHECK (kind IN ('customer','supplier')),
			number      TEXT NOT NULL,
			date        TEXT NOT NULL,
			due_date    TEXT,
			total_ttc   TEXT NOT NULL,
			amount_paid TEXT NOT NULL DEFAULT '0',
			move_id     TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_partner ON invoices(company_id, partner_id)`,

		`CREATE TABLE IF NOT EXISTS moves (
			id            TEXT NOT NULL,
			company_id    TEXT NOT NULL,
			number        TEXT NOT NULL DEFAULT '',
			date          TEXT NOT NULL,
			journal_id    TEXT NOT NULL,
			ref           TEXT NOT NULL DEFAULT '',
			state         TEXT NOT NULL CHECK (state IN ('draft','posted')),
			currency      TEXT NOT NULL DEFAULT '',
			exchange_rate TEXT NOT NULL DEFAULT '0',
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_moves_journal ON moves(company_id, journal_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_moves_state ON moves(company_id, state)`,

		`CREATE TABLE IF NOT EXISTS move_lines (
			id            TEXT NOT NULL,
			company_id    TEXT NOT NULL,
			move_id       TEXT NOT NULL,
			account_id    TEXT NOT NULL,
			partner_id    TEXT NOT NULL DEFAULT '',
			debit         TEXT NOT NULL DEFAULT '0',
			credit        TEXT NOT NULL DEFAULT '0',
			currency      TEXT NOT NULL DEFAULT '',
			exchange_rate TEXT NOT NULL DEFAULT '0',
			maturity_date TEXT,
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
			from_amount     TEXT NOT NULL,
			to_amount       TEXT NOT NULL,
			exchange_rate   TEXT NOT NULL,
			from_account_id TEXT NOT NULL,
			to_account_id   TEXT NOT NULL,
			move_id         TEXT NOT NULL,
			created_at      TEXT NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS exchange_rates (
			id             TEXT NOT NULL,
			company_id     TEXT NOT NULL,
			from_currency  TEXT NOT NULL,
			to_currency    TEXT NOT NULL,
			rate           TEXT NOT NULL,
			date_effective TEXT NOT NULL,
			PRIMARY KEY (company_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rates_pair ON exchange_rates(company_id, from_currency, to_currency, date_effective)`,

		// Posted moves are immutable: their lines reject any write.
		`CREATE TRIGGER IF NOT EXISTS trg_immutable_lines_update
		BEFORE UPDATE ON move_lines
		WHEN (SELECT state FROM moves WHERE id = OLD.move_id AND company_id = OLD.company_id) = 'posted'
		BEGIN
			SELECT RAISE(ABORT, 'cannot modify lines of a posted move');
		END`,
		`CREATE TRIGGER IF NOT EXISTS trg_immutable_lines_delete
		BEFORE DELETE ON move_lines
		WHEN (SELECT state FROM moves WHERE id = OLD.move_id AND company_id = OLD.company_id) = 'posted'
		BEGIN
			SELECT RAISE(ABORT, 'cannot remove lines from a posted move');
		END`,
		`CREATE TRIGGER IF NOT EXISTS trg_immutable_lines_insert
		BEFORE INSERT ON move_lines
		WHEN (SELECT state FROM moves WHERE id = NEW.move_id AND company_id = NEW.company_id) = 'posted'
		BEGIN
			SELECT RAISE(ABORT, 'cannot add lines to a posted move');
		END`,

		// Posting an unbalanced move aborts at the database as well.
		`CREATE TRIGGER IF NOT EXISTS trg_check_balance
		BEFORE UPDATE OF state ON moves
		WHEN NEW.state = 'posted' AND OLD.state = 'draft'
		BEGIN
			SELECT CASE
				WHEN (
					SELECT ROUND(SUM(CAST(debit AS REAL)) - SUM(CAST(credit AS REAL)), 6)
					FROM move_lines
					WHERE move_id = NEW.id AND company_id = NEW.company_id
				) != 0
				THEN RAISE(ABORT, 'move lines do not balance')
			END;
		END`,
		`CREATE TRIGGER IF NOT EXISTS trg_no_unpost
		BEFORE UPDATE OF state ON moves
		WHEN OLD.state = 'posted' AND NEW.state != 'posted'
		BEGIN
			SELECT RAISE(ABORT, 'posted moves cannot return to draft');
		END`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
