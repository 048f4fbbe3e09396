package coa

import "sort"

// Class is the coarse OHADA class of an account code.
type Class string

const (
	ClassEquity       Class = "equity"       // class 1: capital, reserves, debts
	ClassFixedAssets  Class = "fixed-assets" // class 2
	ClassInventory    Class = "inventory"    // class 3
	ClassThirdParty   Class = "third-party"  // class 4
	ClassTreasury     Class = "treasury"     // class 5
	ClassExpense      Class = "expense"      // class 6
	ClassIncome       Class = "income"       // class 7
	ClassHAO          Class = "hao"          // class 8: hors activités ordinaires
	ClassUnclassified Class = "unclassified"
)

// Group is the fine-grained sub-range within a class, the granularity the
// statement cascades consume.
type Group string

const (
	GroupEquity      Group = "equity"
	GroupFixedAssets Group = "fixed-assets"
	GroupInventory   Group = "inventory"

	// Class 4 third parties.
	GroupSupplier        Group = "supplier"          // 40
	GroupCustomer        Group = "customer"          // 41
	GroupVATCollected    Group = "vat-collected"     // 443
	GroupVATDeductible   Group = "vat-deductible"    // 445
	GroupOtherThirdParty Group = "other-third-party" // remaining 4x

	// Class 5 treasury.
	GroupBank          Group = "bank"           // 52
	GroupCash          Group = "cash"           // 57
	GroupOtherTreasury Group = "other-treasury" // remaining 5x

	// Class 6 expenses.
	GroupGoodsPurchased   Group = "goods-purchased"  // 601
	GroupMaterials        Group = "materials"        // 602, 604, 605, 608
	GroupStockVariation   Group = "stock-variation"  // 603
	GroupTransport        Group = "transport"        // 61
	GroupExternalA        Group = "external-a"       // 62
	GroupExternalB        Group = "external-b"       // 63
	GroupTaxes            Group = "taxes"            // 64
	GroupOtherExpense     Group = "other-expense"    // remaining 6x (65, ...)
	GroupPersonnel        Group = "personnel"        // 66
	GroupFinancialExpense Group = "fin-expense"      // 67
	GroupDepreciation     Group = "depreciation"     // 68

	// Class 7 income.
	GroupSales             Group = "sales"             // 701
	GroupProduction        Group = "production"        // 702-704, 706
	GroupSubsidies         Group = "subsidies"         // 71
	GroupStoredProduction  Group = "stored-production" // 72, 73
	GroupOtherIncome       Group = "other-income"      // remaining 7x (75, ...)
	GroupFinancialIncome   Group = "fin-income"        // 77
	GroupProvisionReversal Group = "prov-reversal"     // 78
	GroupExpenseTransfer   Group = "expense-transfer"  // 79

	// Class 8 HAO and result allocation.
	GroupHAOIncome     Group = "hao-income"     // 81, 82, 84, 86, 88
	GroupHAOExpense    Group = "hao-expense"    // 83, 85
	GroupParticipation Group = "participation"  // 87, 89: profit-sharing + tax on profit
	GroupUnclassified  Group = "unclassified"
)

// rule maps a code prefix to its class and group. The table is the single
// source of truth for every report; longest prefix wins.
type rule struct {
	prefix string
	class  Class
	group  Group
}

var rules = []rule{
	{"1", ClassEquity, GroupEquity},
	{"2", ClassFixedAssets, GroupFixedAssets},
	{"3", ClassInventory, GroupInventory},

	{"4", ClassThirdParty, GroupOtherThirdParty},
	{"40", ClassThirdParty, GroupSupplier},
	{"41", ClassThirdParty, GroupCustomer},
	{"443", ClassThirdParty, GroupVATCollected},
	{"445", ClassThirdParty, GroupVATDeductible},

	{"5", ClassTreasury, GroupOtherTreasury},
	{"52", ClassTreasury, GroupBank},
	{"57", ClassTreasury, GroupCash},

	{"6", ClassExpense, GroupOtherExpense},
	{"601", ClassExpense, GroupGoodsPurchased},
	{"602", ClassExpense, GroupMaterials},
	{"603", ClassExpense, GroupStockVariation},
	{"604", ClassExpense, GroupMaterials},
	{"605", ClassExpense, GroupMaterials},
	{"608", ClassExpense, GroupMaterials},
	{"61", ClassExpense, GroupTransport},
	{"62", ClassExpense, GroupExternalA},
	{"63", ClassExpense, GroupExternalB},
	{"64", ClassExpense, GroupTaxes},
	{"66", ClassExpense, GroupPersonnel},
	{"67", ClassExpense, GroupFinancialExpense},
	{"68", ClassExpense, GroupDepreciation},

	{"7", ClassIncome, GroupOtherIncome},
	{"701", ClassIncome, GroupSales},
	{"702", ClassIncome, GroupProduction},
	{"703", ClassIncome, GroupProduction},
	{"704", ClassIncome, GroupProduction},
	{"706", ClassIncome, GroupProduction},
	{"71", ClassIncome, GroupSubsidies},
	{"72", ClassIncome, GroupStoredProduction},
	{"73", ClassIncome, GroupStoredProduction},
	{"77", ClassIncome, GroupFinancialIncome},
	{"78", ClassIncome, GroupProvisionReversal},
	{"79", ClassIncome, GroupExpenseTransfer},

	{"81", ClassHAO, GroupHAOIncome},
	{"82", ClassHAO, GroupHAOIncome},
	{"83", ClassHAO, GroupHAOExpense},
	{"84", ClassHAO, GroupHAOIncome},
	{"85", ClassHAO, GroupHAOExpense},
	{"86", ClassHAO, GroupHAOIncome},
	{"87", ClassHAO, GroupParticipation},
	{"88", ClassHAO, GroupHAOIncome},
	{"89", ClassHAO, GroupParticipation},
}

// byPrefix is rules sorted longest-prefix-first for matching.
var byPrefix = func() []rule {
	sorted := make([]rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].prefix) > len(sorted[j].prefix)
	})
	return sorted
}()

// Classification is the result of classifying one account code.
type Classification struct {
	Class Class
	Group Group
}

// Classify maps an account code to its OHADA class and sub-range group using
// longest-prefix match. Codes matching no prefix classify as unclassified:
// they still appear in trial balances but are excluded from statutory
// statements, with a warning.
func Classify(code string) Classification {
	for _, r := range byPrefix {
		if hasPrefix(code, r.prefix) {
			return Classification{Class: r.class, Group: r.group}
		}
	}
	return Classification{Class: ClassUnclassified, Group: GroupUnclassified}
}

func hasPrefix(code, prefix string) bool {
	return len(code) >= len(prefix) && code[:len(prefix)] == prefix
}

// IncomeStatementGroup reports whether a group belongs to the income
// statement (classes 6, 7, 8) rather than the balance sheet.
func IncomeStatementGroup(c Classification) bool {
	switch c.Class {
	case ClassExpense, ClassIncome, ClassHAO:
		return true
	default:
		return false
	}
}
