package coa

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/grandlivre-dev/grandlivre/internal/model"
)

const (
	numFields    = 7
	colID        = 0
	colCompany   = 1
	colCode      = 2
	colName      = 3
	colType      = 4
	colParent    = 5
	colReconcile = 6
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_id", "company_id", "code", "name", "type", "parent_id", "reconcilable"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCompany] = acct.CompanyID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colParent] = acct.ParentID
	if acct.Reconcilable {
		row[colReconcile] = "true"
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var reconcilable bool
	if record[colReconcile] != "" {
		v, err := strconv.ParseBool(record[colReconcile])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing reconcilable %q: %w", record[colReconcile], err)
		}
		reconcilable = v
	}

	return model.Account{
		ID:           record[colID],
		CompanyID:    record[colCompany],
		Code:         record[colCode],
		Name:         record[colName],
		Type:         model.AccountType(record[colType]),
		ParentID:     record[colParent],
		Reconcilable: reconcilable,
	}, nil
}
