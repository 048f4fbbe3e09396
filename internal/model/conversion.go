package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyConversion is the audit record of a treasury currency conversion.
// It is derived, not a source of truth: every conversion corresponds 1:1 to
// a balanced move (MoveID).
type CurrencyConversion struct {
	ID            string
	CompanyID     string
	FromCurrency  string
	ToCurrency    string
	FromAmount    decimal.Decimal
	ToAmount      decimal.Decimal
	ExchangeRate  decimal.Decimal
	FromAccountID string
	ToAccountID   string
	MoveID        string
	CreatedAt     time.Time
}

// ExchangeRate is a dated quote between two currencies.
type ExchangeRate struct {
	ID            string
	CompanyID     string
	FromCurrency  string
	ToCurrency    string
	Rate          decimal.Decimal
	DateEffective time.Time
}
