package journal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre-dev/grandlivre/internal/events"
	"github.com/grandlivre-dev/grandlivre/internal/model"
	"github.com/grandlivre-dev/grandlivre/internal/sequence"
)

// fakeStore is an in-memory Store for poster tests.
type fakeStore struct {
	moves map[string]*model.Move
	seq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{moves: make(map[string]*model.Move)}
}

func (f *fakeStore) CreateMove(_ context.Context, move *model.Move) error {
	cp := *move
	cp.Lines = append([]model.MoveLine(nil), move.Lines...)
	f.moves[move.ID] = &cp
	return nil
}

func (f *fakeStore) GetMove(_ context.Context, _, moveID string) (*model.Move, error) {
	m, ok := f.moves[moveID]
	if !ok {
		return nil, fmt.Errorf("move %s not found", moveID)
	}
	cp := *m
	cp.Lines = append([]model.MoveLine(nil), m.Lines...)
	return &cp, nil
}

func (f *fakeStore) PostMove(_ context.Context, _, moveID string) (string, error) {
	m, ok := f.moves[moveID]
	if !ok {
		return "", fmt.Errorf("move %s not found", moveID)
	}
	if m.State != model.StateDraft {
		return "", ErrAlreadyPosted
	}
	f.seq++
	m.State = model.StatePosted
	m.Number = sequence.FormatMoveNumber("OD", m.Date.Year(), f.seq)
	return m.Number, nil
}

// capturingPublisher records published events.
type capturingPublisher struct {
	topics []string
	events []any
}

func (c *capturingPublisher) Publish(topic string, event any) error {
	c.topics = append(c.topics, topic)
	c.events = append(c.events, event)
	return nil
}

func draftMove(lines []model.MoveLine) *model.Move {
	return &model.Move{
		CompanyID: "co1",
		Date:      time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		JournalID: "OD",
		Currency:  "CDF",
		Lines:     lines,
	}
}

func TestPost_BalancedEntryPosts(t *testing.T) {
	store := newFakeStore()
	pub := &capturingPublisher{}
	poster := NewPoster(store, defaultAccounts, Exact, pub)
	ctx := context.Background()

	move := draftMove(balancedLines("521000", "701000", "1000"))
	require.NoError(t, poster.CreateDraft(ctx, move))
	require.NotEmpty(t, move.ID)
	assert.Equal(t, model.StateDraft, move.State)

	posted, err := poster.Post(ctx, "co1", move.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePosted, posted.State)
	assert.Equal(t, "OD/2025/0001", posted.Number)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TopicMovePosted, pub.topics[0])
	evt := pub.events[0].(events.MovePosted)
	assert.Equal(t, move.ID, evt.MoveID)
	assert.True(t, evt.Total.Equal(dec("1000")))
}

func TestPost_ImbalancedEntryRejected(t *testing.T) {
	store := newFakeStore()
	poster := NewPoster(store, defaultAccounts, Exact, nil)
	ctx := context.Background()

	move := draftMove([]model.MoveLine{
		{AccountID: "521000", Debit: dec("1000")},
		{AccountID: "701000", Credit: dec("999")},
	})
	// Structural invariants pass, so the draft is accepted.
	require.NoError(t, poster.CreateDraft(ctx, move))

	_, err := poster.Post(ctx, "co1", move.ID)
	require.Error(t, err)

	var imbalance ImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.True(t, imbalance.Discrepancy().Equal(dec("1")))

	// The store still holds a draft.
	stored, err := store.GetMove(ctx, "co1", move.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, stored.State)
}

func TestPost_Terminal(t *testing.T) {
	store := newFakeStore()
	poster := NewPoster(store, defaultAccounts, Exact, nil)
	ctx := context.Background()

	move := draftMove(balancedLines("521000", "701000", "500"))
	require.NoError(t, poster.CreateDraft(ctx, move))
	_, err := poster.Post(ctx, "co1", move.ID)
	require.NoError(t, err)

	_, err = poster.Post(ctx, "co1", move.ID)
	assert.ErrorIs(t, err, ErrAlreadyPosted)
}

func TestPost_SequentialNumbers(t *testing.T) {
	store := newFakeStore()
	poster := NewPoster(store, defaultAccounts, Exact, nil)
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		move := draftMove(balancedLines("521000", "701000", "100"))
		require.NoError(t, poster.CreateDraft(ctx, move))
		posted, err := poster.Post(ctx, "co1", move.ID)
		require.NoError(t, err)
		numbers = append(numbers, posted.Number)
	}
	assert.Equal(t, []string{"OD/2025/0001", "OD/2025/0002", "OD/2025/0003"}, numbers)
}

func TestCreateDraft_RejectsStructuralViolations(t *testing.T) {
	store := newFakeStore()
	poster := NewPoster(store, defaultAccounts, Exact, nil)

	move := draftMove([]model.MoveLine{
		{AccountID: "999999", Debit: dec("100")},
		{AccountID: "701000", Credit: dec("100")},
	})
	err := poster.CreateDraft(context.Background(), move)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
}

func TestCreateDraft_AssignsLineIDs(t *testing.T) {
	store := newFakeStore()
	poster := NewPoster(store, defaultAccounts, Exact, nil)

	move := draftMove(balancedLines("521000", "701000", "250"))
	require.NoError(t, poster.CreateDraft(context.Background(), move))
	for _, line := range move.Lines {
		assert.NotEmpty(t, line.ID)
		assert.Equal(t, move.ID, line.MoveID)
	}
}
