package statement

import "fmt"

// WarningKind identifies a data-integrity finding raised during statement
// derivation. Warnings never abort a derivation: statutory totals proceed,
// knowingly incomplete, rather than silently wrong.
type WarningKind string

const (
	// WarnUnclassifiedAccount flags an account whose code matches no known
	// OHADA prefix; it is excluded from the statutory statement.
	WarnUnclassifiedAccount WarningKind = "unclassified-account"
	// WarnCrossCheckMismatch flags disagreement between independently
	// derived results (SIG vs TFT, or the accounting equation).
	WarnCrossCheckMismatch WarningKind = "cross-check-mismatch"
)

// Warning is a non-fatal finding attached to a derived statement.
type Warning struct {
	Kind        WarningKind
	Description string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Description)
}

func unclassifiedWarning(code, name string) Warning {
	return Warning{
		Kind:        WarnUnclassifiedAccount,
		Description: fmt.Sprintf("account %s (%s) matches no OHADA prefix, excluded from statement", code, name),
	}
}
