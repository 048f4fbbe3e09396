package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Publisher delivers ledger events to downstream consumers.
type Publisher interface {
	Publish(topic string, event any) error
}

// TopicMovePosted is the topic for MovePosted events.
const TopicMovePosted = "move_posted"

// MovePosted is emitted after a move transitions to posted.
type MovePosted struct {
	CompanyID string          `json:"company_id"`
	MoveID    string          `json:"move_id"`
	Number    string          `json:"number"`
	JournalID string          `json:"journal_id"`
	Date      time.Time       `json:"date"`
	Total     decimal.Decimal `json:"total"` // sum of the debit side
	PostedAt  time.Time       `json:"posted_at"`
}
