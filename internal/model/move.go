package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveState is the lifecycle state of a journal entry. Posting is terminal:
// there is no un-post, corrections are recorded as new offsetting moves.
type MoveState string

const (
	StateDraft  MoveState = "draft"
	StatePosted MoveState = "posted"
)

// Move is a journal entry: a dated, journal-owned group of lines that must
// balance before it may be posted. Number is assigned at posting time and is
// sequential within the owning journal ("VTE/2025/0004").
type Move struct {
	ID           string
	CompanyID    string
	Number       string
	Date         time.Time
	JournalID    string
	Ref          string
	State        MoveState
	Currency     string
	ExchangeRate decimal.Decimal
	Lines        []MoveLine
}

// MoveLine is one side of a double-entry. Exactly one of Debit/Credit is
// nonzero; both are >= 0.
type MoveLine struct {
	ID           string
	MoveID       string
	AccountID    string
	PartnerID    string // empty when the line has no counterparty
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	MaturityDate *time.Time // used for aging; nil when not applicable
}

// PostedLine is a move line joined with its parent move's reporting context,
// as returned by the store for posted moves only.
type PostedLine struct {
	MoveLine
	Date       time.Time
	MoveNumber string
	JournalID  string
}

// TotalDebit sums the debit side of all lines.
func (m *Move) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (m *Move) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
