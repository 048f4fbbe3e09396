package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset      AccountType = "asset"
	AccountTypeLiability  AccountType = "liability"
	AccountTypeEquity     AccountType = "equity"
	AccountTypeIncome     AccountType = "income"
	AccountTypeExpense    AccountType = "expense"
	AccountTypeReceivable AccountType = "receivable"
	AccountTypePayable    AccountType = "payable"
)

// Account is one entry in a company's chart of accounts. Code follows OHADA
// numbering and is unique per company. Statutory classification is driven by
// the leading digits of Code, never by Type.
type Account struct {
	ID           string
	CompanyID    string
	Code         string
	Name         string
	Type         AccountType
	ParentID     string // empty = top-level
	Reconcilable bool
}
