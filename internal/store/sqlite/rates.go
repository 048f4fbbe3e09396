package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

func (s *Store) SaveConversion(ctx context.Context, c *model.CurrencyConversion) error {
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := s.writer.ExecContext(ctx, `
		INSERT INTO conversions (id, company_id, from_currency, to_currency, from_amount, to_amount, exchange_rate, from_account_id, to_account_id, move_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CompanyID, c.FromCurrency, c.ToCurrency,
		c.FromAmount.String(), c.ToAmount.String(), c.ExchangeRate.String(),
		c.FromAccountID, c.ToAccountID, c.MoveID, formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save conversion: %w", err)
	}
	return nil
}

func (s *Store) ListConversions(ctx context.Context, companyID string) ([]model.CurrencyConversion, error) {
	rows, err := s.reader.QueryContext(ctx, `
		SELECT id, company_id, from_currency, to_currency, from_amount, to_amount, exchange_rate, from_account_id, to_account_id, move_id, created_at
		FROM conversions WHERE company_id = ? ORDER BY created_at`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var conversions []model.CurrencyConversion
	for rows.Next() {
		var c model.CurrencyConversion
		var fromAmount, toAmount, rate, createdAt string
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.FromCurrency, &c.ToCurrency,
			&fromAmount, &toAmount, &rate, &c.FromAccountID, &c.ToAccountID,
			&c.MoveID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		if c.FromAmount, err = decimal.NewFromString(fromAmount); err != nil {
			return nil, err
		}
		if c.ToAmount, err = decimal.NewFromString(toAmount); err != nil {
			return nil, err
		}
		if c.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}
	return conversions, rows.Err()
}

func (s *Store) SaveRate(ctx context.Context, r *model.ExchangeRate) error {
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}

	_, err := s.writer.ExecContext(ctx, `
		INSERT INTO exchange_rates (id, company_id, from_currency, to_currency, rate, date_effective)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.CompanyID, r.FromCurrency, r.ToCurrency, r.Rate.String(), formatTime(r.DateEffective),
	)
	if err != nil {
		return fmt.Errorf("save rate: %w", err)
	}
	return nil
}

// Rate returns the most recent stored quote for the pair effective on or
// before asOf. The boolean is false when no quote exists.
func (s *Store) Rate(ctx context.Context, companyID, from, to string, asOf time.Time) (decimal.Decimal, bool, error) {
	var rate string
	err := s.reader.QueryRowContext(ctx, `
		SELECT rate FROM exchange_rates
		WHERE company_id = ? AND from_currency = ? AND to_currency = ? AND date_effective <= ?
		ORDER BY date_effective DESC LIMIT 1`,
		companyID, from, to, formatTime(asOf),
	).Scan(&rate)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get rate: %w", err)
	}

	d, err := decimal.NewFromString(rate)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}
