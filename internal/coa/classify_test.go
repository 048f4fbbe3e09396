package coa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code  string
		class Class
		group Group
	}{
		{"101000", ClassEquity, GroupEquity},
		{"215000", ClassFixedAssets, GroupFixedAssets},
		{"311000", ClassInventory, GroupInventory},

		{"401000", ClassThirdParty, GroupSupplier},
		{"411000", ClassThirdParty, GroupCustomer},
		{"443000", ClassThirdParty, GroupVATCollected},
		{"445000", ClassThirdParty, GroupVATDeductible},
		{"422000", ClassThirdParty, GroupOtherThirdParty},

		{"521000", ClassTreasury, GroupBank},
		{"571000", ClassTreasury, GroupCash},
		{"531000", ClassTreasury, GroupOtherTreasury},

		{"601000", ClassExpense, GroupGoodsPurchased},
		{"602000", ClassExpense, GroupMaterials},
		{"603000", ClassExpense, GroupStockVariation},
		{"605000", ClassExpense, GroupMaterials},
		{"608000", ClassExpense, GroupMaterials},
		{"611000", ClassExpense, GroupTransport},
		{"622000", ClassExpense, GroupExternalA},
		{"632000", ClassExpense, GroupExternalB},
		{"641000", ClassExpense, GroupTaxes},
		{"651000", ClassExpense, GroupOtherExpense},
		{"661000", ClassExpense, GroupPersonnel},
		{"671000", ClassExpense, GroupFinancialExpense},
		{"681000", ClassExpense, GroupDepreciation},

		{"701000", ClassIncome, GroupSales},
		{"702000", ClassIncome, GroupProduction},
		{"706000", ClassIncome, GroupProduction},
		{"711000", ClassIncome, GroupSubsidies},
		{"721000", ClassIncome, GroupStoredProduction},
		{"736000", ClassIncome, GroupStoredProduction},
		{"751000", ClassIncome, GroupOtherIncome},
		{"771000", ClassIncome, GroupFinancialIncome},
		{"781000", ClassIncome, GroupProvisionReversal},
		{"791000", ClassIncome, GroupExpenseTransfer},

		{"811000", ClassHAO, GroupHAOIncome},
		{"831000", ClassHAO, GroupHAOExpense},
		{"841000", ClassHAO, GroupHAOIncome},
		{"871000", ClassHAO, GroupParticipation},
		{"891000", ClassHAO, GroupParticipation},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Classify(tt.code)
			assert.Equal(t, tt.class, got.Class, "class for %s", tt.code)
			assert.Equal(t, tt.group, got.Group, "group for %s", tt.code)
		})
	}
}

func TestClassify_LongestPrefixWins(t *testing.T) {
	// 443 and 445 are VAT sub-cases of class 4, distinct from the generic
	// "44" third-party bucket; 440000 falls through to the class-4 default.
	assert.Equal(t, GroupVATCollected, Classify("443100").Group)
	assert.Equal(t, GroupVATDeductible, Classify("445100").Group)
	assert.Equal(t, GroupOtherThirdParty, Classify("440000").Group)
	assert.Equal(t, GroupSupplier, Classify("401100").Group)
}

func TestClassify_Unclassified(t *testing.T) {
	for _, code := range []string{"", "0", "901000", "X12", "99"} {
		got := Classify(code)
		assert.Equal(t, ClassUnclassified, got.Class, "code %q", code)
		assert.Equal(t, GroupUnclassified, got.Group, "code %q", code)
	}
}

func TestIncomeStatementGroup(t *testing.T) {
	assert.True(t, IncomeStatementGroup(Classify("601000")))
	assert.True(t, IncomeStatementGroup(Classify("701000")))
	assert.True(t, IncomeStatementGroup(Classify("841000")))
	assert.False(t, IncomeStatementGroup(Classify("411000")))
	assert.False(t, IncomeStatementGroup(Classify("521000")))
	assert.False(t, IncomeStatementGroup(Classify("901000")))
}
