package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// Policy controls how strictly the balance invariant is enforced.
// Tolerance is the maximum allowed |sum(debit) - sum(credit)|.
type Policy struct {
	Tolerance decimal.Decimal
}

// Exact requires debits and credits to match to arbitrary precision. This is
// the default: all arithmetic is decimal, so nothing should need slack.
var Exact = Policy{}

// LegacyTolerance accepts a 0.01 discrepancy, matching books imported from
// systems that balanced in floating point.
var LegacyTolerance = Policy{Tolerance: decimal.New(1, -2)}

// ImbalanceError reports a move whose lines do not balance. It carries both
// totals so the caller can show the exact discrepancy to correct.
type ImbalanceError struct {
	MoveID string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e ImbalanceError) Error() string {
	return fmt.Sprintf("move %s out of balance: debits %s != credits %s (discrepancy %s)",
		e.MoveID, e.Debit.StringFixed(2), e.Credit.StringFixed(2), e.Discrepancy().StringFixed(2))
}

// Discrepancy returns |sum(debit) - sum(credit)|.
func (e ImbalanceError) Discrepancy() decimal.Decimal {
	return e.Debit.Sub(e.Credit).Abs()
}

// ValidationError describes a single invariant violation on a move.
type ValidationError struct {
	Invariant   int
	MoveID      string
	Description string
	Err         error // typed cause where one exists (e.g. ImbalanceError)
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.MoveID, e.Description)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// ValidateLines enforces the posting invariants on a move's lines:
//
//  1. sum(debit) == sum(credit) within the policy tolerance
//  2. exactly one of debit/credit is nonzero per line
//  3. debit and credit are never negative
//  4. every line references a known account
//  5. a move has at least two lines
func ValidateLines(moveID string, lines []model.MoveLine, accounts AccountChecker, policy Policy) []ValidationError {
	var errs []ValidationError

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(policy.Tolerance) {
		imbalance := ImbalanceError{MoveID: moveID, Debit: totalDebit, Credit: totalCredit}
		errs = append(errs, ValidationError{
			Invariant:   1,
			MoveID:      moveID,
			Description: imbalance.Error(),
			Err:         imbalance,
		})
	}

	for i, line := range lines {
		hasDebit := !line.Debit.IsZero()
		hasCredit := !line.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Invariant:   2,
				MoveID:      moveID,
				Description: fmt.Sprintf("line %d must have exactly one of debit or credit", i+1),
			})
		}

		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   3,
				MoveID:      moveID,
				Description: fmt.Sprintf("line %d has a negative amount", i+1),
			})
		}

		if !accounts.Exists(line.AccountID) {
			errs = append(errs, ValidationError{
				Invariant:   4,
				MoveID:      moveID,
				Description: fmt.Sprintf("line %d references unknown account %s", i+1, line.AccountID),
			})
		}
	}

	if len(lines) < 2 {
		errs = append(errs, ValidationError{
			Invariant:   5,
			MoveID:      moveID,
			Description: fmt.Sprintf("move has %d lines, need at least 2", len(lines)),
		})
	}

	return errs
}
