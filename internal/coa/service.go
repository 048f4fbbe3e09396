package coa

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// Service provides in-memory lookup over one company's chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]model.Account, len(accounts))
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
		byCode[a.Code] = a
	}
	return &Service{accounts: accounts, byID: byID, byCode: byCode}
}

// Load reads chart-of-accounts.csv from a data directory and returns a Service.
func Load(dataDir string) (*Service, error) {
	path := filepath.Join(dataDir, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// GetByCode returns an account by its OHADA code.
func (s *Service) GetByCode(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ClassifyID classifies the account with the given ID by its code.
func (s *Service) ClassifyID(id string) (Classification, bool) {
	a, ok := s.byID[id]
	if !ok {
		return Classification{Class: ClassUnclassified, Group: GroupUnclassified}, false
	}
	return Classify(a.Code), true
}

// ByClass returns all accounts whose code classifies into the given class.
func (s *Service) ByClass(class Class) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if Classify(a.Code).Class == class {
			result = append(result, a)
		}
	}
	return result
}

// Children returns the direct children of an account in the chart tree.
func (s *Service) Children(parentID string) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.ParentID == parentID {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to <dataDir>/accounts/chart-of-accounts.csv.
func (s *Service) Save(dataDir string) error {
	dir := filepath.Join(dataDir, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
