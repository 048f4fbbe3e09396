package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/balance"
	"github.com/grandlivre-dev/grandlivre/internal/coa"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// SIGResult is the income statement with the SYSCOHADA intermediate
// management balances (soldes intermédiaires de gestion). Buckets hold
// magnitudes: income buckets the credit excess, expense buckets the debit
// excess. The cascade folds earlier subtotals, so the step order is fixed.
type SIGResult struct {
	// Classified buckets.
	VentesMarchandises      decimal.Decimal
	AchatsMarchandises      decimal.Decimal
	Production              decimal.Decimal
	MatieresConsommees      decimal.Decimal
	AutresChargesExternes   decimal.Decimal
	Subventions             decimal.Decimal
	ChargesPersonnel        decimal.Decimal
	ImpotsTaxes             decimal.Decimal
	AutresProduits          decimal.Decimal
	ReprisesProvisions      decimal.Decimal
	TransfertsCharges       decimal.Decimal
	AutresCharges           decimal.Decimal
	DotationsAmortissements decimal.Decimal
	ProduitsFinanciers      decimal.Decimal
	ChargesFinancieres      decimal.Decimal
	ProduitsHAO             decimal.Decimal
	ChargesHAO              decimal.Decimal
	ParticipationEtImpots   decimal.Decimal

	// Cascade.
	MargeCommerciale            decimal.Decimal
	ValeurAjoutee               decimal.Decimal
	EBE                         decimal.Decimal
	ResultatExploitation        decimal.Decimal
	ResultatFinancier           decimal.Decimal
	ResultatActivitesOrdinaires decimal.Decimal
	ResultatHAO                 decimal.Decimal
	ResultatNet                 decimal.Decimal

	Warnings []Warning
}

// IncomeStatement derives the SIG over [from, to]. Every class-6/7/8
// account is classified through the chart; unclassified accounts are
// excluded with a warning.
func IncomeStatement(lines []model.PostedLine, chart *coa.Service, from, to time.Time) SIGResult {
	balances := balance.Accumulate(lines, balance.Between(from, to))

	var r SIGResult
	for accountID, b := range balances {
		acct, ok := chart.Get(accountID)
		if !ok {
			r.Warnings = append(r.Warnings, unclassifiedWarning(accountID, "unknown account"))
			continue
		}

		c := coa.Classify(acct.Code)
		if c.Class == coa.ClassUnclassified {
			r.Warnings = append(r.Warnings, unclassifiedWarning(acct.Code, acct.Name))
			continue
		}
		if !coa.IncomeStatementGroup(c) {
			continue
		}

		expense := b.Net      // debit excess
		income := b.Net.Neg() // credit excess

		switch c.Group {
		case coa.GroupSales:
			r.VentesMarchandises = r.VentesMarchandises.Add(income)
		case coa.GroupGoodsPurchased:
			r.AchatsMarchandises = r.AchatsMarchandises.Add(expense)
		case coa.GroupProduction, coa.GroupStoredProduction:
			r.Production = r.Production.Add(income)
		case coa.GroupMaterials, coa.GroupStockVariation:
			r.MatieresConsommees = r.MatieresConsommees.Add(expense)
		case coa.GroupTransport, coa.GroupExternalA, coa.GroupExternalB:
			r.AutresChargesExternes = r.AutresChargesExternes.Add(expense)
		case coa.GroupSubsidies:
			r.Subventions = r.Subventions.Add(income)
		case coa.GroupPersonnel:
			r.ChargesPersonnel = r.ChargesPersonnel.Add(expense)
		case coa.GroupTaxes:
			r.ImpotsTaxes = r.ImpotsTaxes.Add(expense)
		case coa.GroupOtherIncome:
			r.AutresProduits = r.AutresProduits.Add(income)
		case coa.GroupProvisionReversal:
			r.ReprisesProvisions = r.ReprisesProvisions.Add(income)
		case coa.GroupExpenseTransfer:
			r.TransfertsCharges = r.TransfertsCharges.Add(income)
		case coa.GroupOtherExpense:
			r.AutresCharges = r.AutresCharges.Add(expense)
		case coa.GroupDepreciation:
			r.DotationsAmortissements = r.DotationsAmortissements.Add(expense)
		case coa.GroupFinancialIncome:
			r.ProduitsFinanciers = r.ProduitsFinanciers.Add(income)
		case coa.GroupFinancialExpense:
			r.ChargesFinancieres = r.ChargesFinancieres.Add(expense)
		case coa.GroupHAOIncome:
			r.ProduitsHAO = r.ProduitsHAO.Add(income)
		case coa.GroupHAOExpense:
			r.ChargesHAO = r.ChargesHAO.Add(expense)
		case coa.GroupParticipation:
			r.ParticipationEtImpots = r.ParticipationEtImpots.Add(expense)
		}
	}

	// The cascade. Later steps fold earlier subtotals, not raw totals.
	r.MargeCommerciale = r.VentesMarchandises.Sub(r.AchatsMarchandises)
	r.ValeurAjoutee = r.MargeCommerciale.Add(r.Production).
		Sub(r.MatieresConsommees.Add(r.AutresChargesExternes))
	r.EBE = r.ValeurAjoutee.Add(r.Subventions).
		Sub(r.ChargesPersonnel).Sub(r.ImpotsTaxes)
	r.ResultatExploitation = r.EBE.Add(r.AutresProduits).
		Add(r.ReprisesProvisions).Add(r.TransfertsCharges).
		Sub(r.AutresCharges).Sub(r.DotationsAmortissements)
	r.ResultatFinancier = r.ProduitsFinanciers.Sub(r.ChargesFinancieres)
	r.ResultatActivitesOrdinaires = r.ResultatExploitation.Add(r.ResultatFinancier)
	r.ResultatHAO = r.ProduitsHAO.Sub(r.ChargesHAO)
	r.ResultatNet = r.ResultatActivitesOrdinaires.Add(r.ResultatHAO).
		Sub(r.ParticipationEtImpots)

	return r
}
