package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grandlivre-dev/grandlivre/internal/events"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// ErrAlreadyPosted is returned when posting a move that is not a draft.
// Posted moves are immutable; corrections are new offsetting moves.
var ErrAlreadyPosted = errors.New("move is already posted")

// Store is the persistence capability the poster needs. PostMove must be
// atomic: the state flip and number allocation either both happen or neither.
type Store interface {
	CreateMove(ctx context.Context, move *model.Move) error
	GetMove(ctx context.Context, companyID, moveID string) (*model.Move, error)
	PostMove(ctx context.Context, companyID, moveID string) (number string, err error)
}

// Poster is the single gateway for recording transactions: every business
// operation that creates a balanced pair (manual entry, invoice, payment,
// currency conversion) goes through it so the invariants are enforced in one
// place.
type Poster struct {
	store    Store
	accounts AccountChecker
	policy   Policy
	events   events.Publisher // nil disables publication
}

// NewPoster creates a Poster. publisher may be nil.
func NewPoster(store Store, accounts AccountChecker, policy Policy, publisher events.Publisher) *Poster {
	return &Poster{store: store, accounts: accounts, policy: policy, events: publisher}
}

// CreateDraft assigns IDs, runs the structural invariants (everything except
// balance, which is enforced at posting time), and persists the move with all
// its lines as one unit.
func (p *Poster) CreateDraft(ctx context.Context, move *model.Move) error {
	if move.ID == "" {
		move.ID = uuid.Must(uuid.NewV7()).String()
	}
	move.State = model.StateDraft
	for i := range move.Lines {
		if move.Lines[i].ID == "" {
			move.Lines[i].ID = uuid.Must(uuid.NewV7()).String()
		}
		move.Lines[i].MoveID = move.ID
	}

	var structural []ValidationError
	for _, ve := range ValidateLines(move.ID, move.Lines, p.accounts, p.policy) {
		if ve.Invariant != 1 {
			structural = append(structural, ve)
		}
	}
	if len(structural) > 0 {
		return validationFailure(structural)
	}

	return p.store.CreateMove(ctx, move)
}

// Post validates the draft's lines and transitions it to posted, assigning
// its journal-scoped sequential number. The transition is terminal.
func (p *Poster) Post(ctx context.Context, companyID, moveID string) (*model.Move, error) {
	move, err := p.store.GetMove(ctx, companyID, moveID)
	if err != nil {
		return nil, err
	}
	if move.State != model.StateDraft {
		return nil, fmt.Errorf("posting move %s: %w", move.ID, ErrAlreadyPosted)
	}

	if verrs := ValidateLines(move.ID, move.Lines, p.accounts, p.policy); len(verrs) > 0 {
		return nil, validationFailure(verrs)
	}

	number, err := p.store.PostMove(ctx, companyID, moveID)
	if err != nil {
		return nil, fmt.Errorf("posting move %s: %w", move.ID, err)
	}
	move.State = model.StatePosted
	move.Number = number

	if p.events != nil {
		evt := events.MovePosted{
			CompanyID: move.CompanyID,
			MoveID:    move.ID,
			Number:    move.Number,
			JournalID: move.JournalID,
			Date:      move.Date,
			Total:     move.TotalDebit(),
			PostedAt:  time.Now().UTC(),
		}
		if err := p.events.Publish(events.TopicMovePosted, evt); err != nil {
			// The post is durable; a failed publication must not undo it.
			return move, fmt.Errorf("move %s posted but event publication failed: %w", move.Number, err)
		}
	}

	return move, nil
}

func validationFailure(verrs []ValidationError) error {
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	// Preserve the first typed cause for errors.As callers.
	return fmt.Errorf("validation failed: %s: %w", strings.Join(msgs, "; "), firstCause(verrs))
}

func firstCause(verrs []ValidationError) error {
	for _, ve := range verrs {
		if ve.Err != nil {
			return ve.Err
		}
	}
	return verrs[0]
}
