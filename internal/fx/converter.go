package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// RateNotFoundError reports that no exchange rate could be resolved for a
// currency pair. There is no silent fallback rate: a conversion without a
// quote fails loudly.
type RateNotFoundError struct {
	From string
	To   string
	AsOf time.Time
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no exchange rate for %s/%s as of %s", e.From, e.To, e.AsOf.Format("2006-01-02"))
}

// RateSource resolves the most recent rate for a pair effective on or before
// asOf. Implementations return (zero, false, nil) when no quote exists.
type RateSource interface {
	Rate(ctx context.Context, companyID, from, to string, asOf time.Time) (decimal.Decimal, bool, error)
}

// Converter quotes and records treasury currency conversions. Defaults holds
// configured fallback rates keyed "FROM/TO", consulted only when the source
// has no quote.
type Converter struct {
	source   RateSource
	defaults map[string]decimal.Decimal
}

func NewConverter(source RateSource, defaults map[string]decimal.Decimal) *Converter {
	return &Converter{source: source, defaults: defaults}
}

// Quote resolves the rate for a pair: stored quotes first, then configured
// defaults, then *RateNotFoundError. A same-currency pair is always 1.
func (c *Converter) Quote(ctx context.Context, companyID, from, to string, asOf time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	if c.source != nil {
		rate, ok, err := c.source.Rate(ctx, companyID, from, to, asOf)
		if err != nil {
			return decimal.Zero, fmt.Errorf("resolving rate %s/%s: %w", from, to, err)
		}
		if ok {
			return rate, nil
		}
	}

	if rate, ok := c.defaults[from+"/"+to]; ok {
		return rate, nil
	}

	return decimal.Zero, &RateNotFoundError{From: from, To: to, AsOf: asOf}
}

// Convert applies a rate to an amount. Decimal arithmetic is exact; rounding
// is the caller's concern at presentation time.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

// ConversionParams describes a treasury conversion between two cash or bank
// accounts held in different currencies.
type ConversionParams struct {
	CompanyID    string
	JournalID    string
	Date         time.Time
	Ref          string
	FromCurrency string
	ToCurrency   string
	FromAccount  string
	ToAccount    string
	FromAmount   decimal.Decimal
}

// BuildConversionMove quotes the pair and returns the balanced two-line draft
// move plus its audit record. Both lines carry the converted (book-currency)
// amount: crediting the source account with the foreign amount instead would
// leave the move unbalanced whenever the rate differs from 1. The foreign
// amount lives on the CurrencyConversion record, and each line's Currency
// field says which currency that side is held in. The caller posts the move
// and persists the record, which is 1:1 with the move via MoveID.
func (c *Converter) BuildConversionMove(ctx context.Context, p ConversionParams) (*model.Move, *model.CurrencyConversion, error) {
	if p.FromAmount.Sign() <= 0 {
		return nil, nil, fmt.Errorf("conversion amount must be positive, got %s", p.FromAmount)
	}
	if p.FromCurrency == p.ToCurrency {
		return nil, nil, fmt.Errorf("conversion requires two currencies, got %s twice", p.FromCurrency)
	}

	rate, err := c.Quote(ctx, p.CompanyID, p.FromCurrency, p.ToCurrency, p.Date)
	if err != nil {
		return nil, nil, err
	}
	toAmount := Convert(p.FromAmount, rate)

	move := &model.Move{
		ID:           uuid.Must(uuid.NewV7()).String(),
		CompanyID:    p.CompanyID,
		Date:         p.Date,
		JournalID:    p.JournalID,
		Ref:          p.Ref,
		State:        model.StateDraft,
		Currency:     p.ToCurrency,
		ExchangeRate: rate,
		Lines: []model.MoveLine{
			{
				AccountID:    p.ToAccount,
				Debit:        toAmount,
				Credit:       decimal.Zero,
				Currency:     p.ToCurrency,
				ExchangeRate: rate,
			},
			{
				AccountID:    p.FromAccount,
				Debit:        decimal.Zero,
				Credit:       toAmount,
				Currency:     p.FromCurrency,
				ExchangeRate: rate,
			},
		},
	}
	for i := range move.Lines {
		move.Lines[i].ID = uuid.Must(uuid.NewV7()).String()
		move.Lines[i].MoveID = move.ID
	}

	record := &model.CurrencyConversion{
		ID:            uuid.Must(uuid.NewV7()).String(),
		CompanyID:     p.CompanyID,
		FromCurrency:  p.FromCurrency,
		ToCurrency:    p.ToCurrency,
		FromAmount:    p.FromAmount,
		ToAmount:      toAmount,
		ExchangeRate:  rate,
		FromAccountID: p.FromAccount,
		ToAccountID:   p.ToAccount,
		MoveID:        move.ID,
		CreatedAt:     time.Now().UTC(),
	}

	return move, record, nil
}
