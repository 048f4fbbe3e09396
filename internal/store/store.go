// Package store defines the persistence contract shared by the SQLite and
// Postgres backends. All reads and writes are scoped to a company: there is
// no ambient "current company", callers pass it explicitly.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrJournalNotFound = errors.New("journal not found")
	ErrPartnerNotFound = errors.New("partner not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrMoveNotFound    = errors.New("move not found")
)

// MoveFilter narrows ListMoves. Zero values mean "no constraint".
type MoveFilter struct {
	JournalID string
	State     model.MoveState
	From      *time.Time
	To        *time.Time
	Limit     int
}

// LineFilter narrows PostedLines. Zero values mean "no constraint"; From and
// To are inclusive.
type LineFilter struct {
	AccountIDs []string
	JournalID  string
	PartnerID  string
	From       *time.Time
	To         *time.Time
}

// LedgerStore is the full persistence surface. PostMove must atomically
// allocate the journal-scoped sequential number and flip the draft to posted;
// a posted move's lines are immutable from then on.
type LedgerStore interface {
	SaveAccount(ctx context.Context, a *model.Account) error
	GetAccount(ctx context.Context, companyID, id string) (*model.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]model.Account, error)

	SaveJournal(ctx context.Context, j *model.Journal) error
	ListJournals(ctx context.Context, companyID string) ([]model.Journal, error)

	SavePartner(ctx context.Context, p *model.Partner) error
	GetPartner(ctx context.Context, companyID, id string) (*model.Partner, error)
	ListPartners(ctx context.Context, companyID string) ([]model.Partner, error)

	SaveInvoice(ctx context.Context, inv *model.Invoice) error
	GetInvoice(ctx context.Context, companyID, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, companyID string, kind model.InvoiceKind) ([]model.Invoice, error)

	CreateMove(ctx context.Context, move *model.Move) error
	GetMove(ctx context.Context, companyID, moveID string) (*model.Move, error)
	PostMove(ctx context.Context, companyID, moveID string) (number string, err error)
	ListMoves(ctx context.Context, companyID string, filter MoveFilter) ([]model.Move, error)
	PostedLines(ctx context.Context, companyID string, filter LineFilter) ([]model.PostedLine, error)

	SaveConversion(ctx context.Context, c *model.CurrencyConversion) error
	ListConversions(ctx context.Context, companyID string) ([]model.CurrencyConversion, error)

	SaveRate(ctx context.Context, r *model.ExchangeRate) error
	Rate(ctx context.Context, companyID, from, to string, asOf time.Time) (decimal.Decimal, bool, error)

	Close() error
}
