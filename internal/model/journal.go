package model

// JournalType groups moves by business origin.
type JournalType string

const (
	JournalSales     JournalType = "sales"
	JournalPurchases JournalType = "purchases"
	JournalCash      JournalType = "cash"
	JournalBank      JournalType = "bank"
	// JournalMisc holds non-commercial entries such as currency conversions.
	JournalMisc JournalType = "misc"
)

// Journal owns moves and scopes their sequential numbering.
type Journal struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Type      JournalType
}
