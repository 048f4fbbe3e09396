package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
	"github.com/grandlivre-dev/grandlivre/internal/sequence"
	"github.com/grandlivre-dev/grandlivre/internal/store"
)

func (s *Store) CreateMove(ctx context.Context, move *model.Move) error {
	if move.ID == "" {
		move.ID = uuid.Must(uuid.NewV7()).String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO moves (id, company_id, number, date, journal_id, ref, state, currency, exchange_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		move.ID, move.CompanyID, move.Number, move.Date, move.JournalID,
		move.Ref, string(move.State), move.Currency, move.ExchangeRate.String(),
	)
	if err != nil {
		return fmt.Errorf("insert move: %w", err)
	}

	for i := range move.Lines {
		l := &move.Lines[i]
		if l.ID == "" {
			l.ID = uuid.Must(uuid.NewV7()).String()
		}
		l.MoveID = move.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO move_lines (id, company_id, move_id, account_id, partner_id, debit, credit, currency, exchange_rate, maturity_date, seq)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			l.ID, move.CompanyID, move.ID, l.AccountID, l.PartnerID,
			l.Debit.String(), l.Credit.String(), l.Currency, l.ExchangeRate.String(),
			l.MaturityDate, i,
		)
		if err != nil {
			return fmt.Errorf("insert line %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetMove(ctx context.Context, companyID, moveID string) (*model.Move, error) {
	var m model.Move
	var exchangeRate string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, number, date, journal_id, ref, state, currency, exchange_rate
		FROM moves WHERE company_id = $1 AND id = $2`, companyID, moveID,
	).Scan(&m.ID, &m.CompanyID, &m.Number, &m.Date, &m.JournalID, &m.Ref, &m.State, &m.Currency, &exchangeRate)
	if err == sql.ErrNoRows {
		return nil, store.ErrMoveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get move: %w", err)
	}

	if m.ExchangeRate, err = decimal.NewFromString(exchangeRate); err != nil {
		return nil, err
	}
	if m.Lines, err = s.linesForMove(ctx, companyID, m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

// PostMove allocates the journal-scoped number and flips the draft to posted
// in one transaction. Concurrent posters to the same journal serialize on the
// sequences row.
func (s *Store) PostMove(ctx context.Context, companyID, moveID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var journalID, state string
	var date time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT journal_id, date, state FROM moves WHERE company_id = $1 AND id = $2 FOR UPDATE`,
		companyID, moveID,
	).Scan(&journalID, &date, &state)
	if err == sql.ErrNoRows {
		return "", store.ErrMoveNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read move: %w", err)
	}
	if state != string(model.StateDraft) {
		return "", fmt.Errorf("move %s is %s, not draft", moveID, state)
	}

	var journalCode string
	err = tx.QueryRowContext(ctx, `
		SELECT code FROM journals WHERE company_id = $1 AND id = $2`,
		companyID, journalID,
	).Scan(&journalCode)
	if err == sql.ErrNoRows {
		return "", store.ErrJournalNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read journal: %w", err)
	}

	year := date.Year()
	var seq int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO sequences (company_id, journal_id, year, next_seq)
		VALUES ($1, $2, $3, 2)
		ON CONFLICT (company_id, journal_id, year)
		DO UPDATE SET next_seq = sequences.next_seq + 1
		RETURNING next_seq - 1`,
		companyID, journalID, year,
	).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("allocate sequence: %w", err)
	}

	number := sequence.FormatMoveNumber(journalCode, year, seq)
	_, err = tx.ExecContext(ctx, `
		UPDATE moves SET state = 'posted', number = $1 WHERE company_id = $2 AND id = $3`,
		number, companyID, moveID,
	)
	if err != nil {
		return "", fmt.Errorf("post move: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return number, nil
}

func (s *Store) ListMoves(ctx context.Context, companyID string, filter store.MoveFilter) ([]model.Move, error) {
	query := `
		SELECT id, company_id, number, date, journal_id, ref, state, currency, exchange_rate
		FROM moves WHERE company_id = $1`
	args := []any{companyID}

	if filter.JournalID != "" {
		args = append(args, filter.JournalID)
		query += ` AND journal_id = $` + strconv.Itoa(len(args))
	}
	if filter.State != "" {
		args = append(args, string(filter.State))
		query += ` AND state = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY date, number`
	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []model.Move
	for rows.Next() {
		var m model.Move
		var exchangeRate string
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.Number, &m.Date, &m.JournalID,
			&m.Ref, &m.State, &m.Currency, &exchangeRate); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		if m.ExchangeRate, err = decimal.NewFromString(exchangeRate); err != nil {
			return nil, err
		}
		if m.Lines, err = s.linesForMove(ctx, companyID, m.ID); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func (s *Store) PostedLines(ctx context.Context, companyID string, filter store.LineFilter) ([]model.PostedLine, error) {
	query := `
		SELECT l.id, l.move_id, l.account_id, l.partner_id, l.debit, l.credit,
		       l.currency, l.exchange_rate, l.maturity_date,
		       m.date, m.number, m.journal_id
		FROM move_lines l
		JOIN moves m ON m.id = l.move_id AND m.company_id = l.company_id
		WHERE l.company_id = $1 AND m.state = 'posted'`
	args := []any{companyID}

	if len(filter.AccountIDs) > 0 {
		placeholders := make([]string, len(filter.AccountIDs))
		for i, id := range filter.AccountIDs {
			args = append(args, id)
			placeholders[i] = "$" + strconv.Itoa(len(args))
		}
		query += ` AND l.account_id IN (` + strings.Join(placeholders, ",") + `)`
	}
	if filter.JournalID != "" {
		args = append(args, filter.JournalID)
		query += ` AND m.journal_id = $` + strconv.Itoa(len(args))
	}
	if filter.PartnerID != "" {
		args = append(args, filter.PartnerID)
		query += ` AND l.partner_id = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND m.date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND m.date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY m.date, m.number, l.seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("posted lines: %w", err)
	}
	defer rows.Close()

	var lines []model.PostedLine
	for rows.Next() {
		var pl model.PostedLine
		var debit, credit, exchangeRate string
		var maturity sql.NullTime
		if err := rows.Scan(&pl.ID, &pl.MoveID, &pl.AccountID, &pl.PartnerID,
			&debit, &credit, &pl.Currency, &exchangeRate, &maturity,
			&pl.Date, &pl.MoveNumber, &pl.JournalID); err != nil {
			return nil, fmt.Errorf("scan posted line: %w", err)
		}
		if pl.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if pl.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		if pl.ExchangeRate, err = decimal.NewFromString(exchangeRate); err != nil {
			return nil, err
		}
		if maturity.Valid {
			t := maturity.Time
			pl.MaturityDate = &t
		}
		lines = append(lines, pl)
	}
	return lines, rows.Err()
}

func (s *Store) linesForMove(ctx context.Context, companyID, moveID string) ([]model.MoveLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, move_id, account_id, partner_id, debit, credit, currency, exchange_rate, maturity_date
		FROM move_lines WHERE company_id = $1 AND move_id = $2 ORDER BY seq`,
		companyID, moveID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	defer rows.Close()

	var lines []model.MoveLine
	for rows.Next() {
		var l model.MoveLine
		var debit, credit, exchangeRate string
		var maturity sql.NullTime
		if err := rows.Scan(&l.ID, &l.MoveID, &l.AccountID, &l.PartnerID,
			&debit, &credit, &l.Currency, &exchangeRate, &maturity); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		if l.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if l.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		if l.ExchangeRate, err = decimal.NewFromString(exchangeRate); err != nil {
			return nil, err
		}
		if maturity.Valid {
			t := maturity.Time
			l.MaturityDate = &t
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
