package coa

import "github.com/grandlivre-dev/grandlivre/internal/model"

// DefaultChart returns a minimal SYSCOHADA chart of accounts for a new
// company. IDs equal codes so a fresh book is usable before any renumbering.
func DefaultChart(companyID string) []model.Account {
	mk := func(code, name string, typ model.AccountType) model.Account {
		return model.Account{ID: code, CompanyID: companyID, Code: code, Name: name, Type: typ}
	}

	accounts := []model.Account{
		mk("101000", "Capital social", model.AccountTypeEquity),
		mk("118000", "Réserves", model.AccountTypeEquity),
		mk("162000", "Emprunts auprès des établissements de crédit", model.AccountTypeLiability),
		mk("215000", "Matériel et outillage", model.AccountTypeAsset),
		mk("244000", "Matériel de bureau et informatique", model.AccountTypeAsset),
		mk("311000", "Marchandises", model.AccountTypeAsset),
		mk("401000", "Fournisseurs", model.AccountTypePayable),
		mk("411000", "Clients", model.AccountTypeReceivable),
		mk("422000", "Personnel, rémunérations dues", model.AccountTypeLiability),
		mk("443000", "État, TVA facturée", model.AccountTypeLiability),
		mk("445000", "État, TVA récupérable", model.AccountTypeAsset),
		mk("521000", "Banque locale", model.AccountTypeAsset),
		mk("521100", "Banque devises", model.AccountTypeAsset),
		mk("571000", "Caisse", model.AccountTypeAsset),
		mk("601000", "Achats de marchandises", model.AccountTypeExpense),
		mk("602000", "Achats de matières premières", model.AccountTypeExpense),
		mk("603000", "Variations des stocks", model.AccountTypeExpense),
		mk("611000", "Transports sur achats", model.AccountTypeExpense),
		mk("622000", "Locations et charges locatives", model.AccountTypeExpense),
		mk("632000", "Rémunérations d'intermédiaires et de conseils", model.AccountTypeExpense),
		mk("641000", "Impôts et taxes directs", model.AccountTypeExpense),
		mk("661000", "Rémunérations directes versées au personnel", model.AccountTypeExpense),
		mk("671000", "Intérêts des emprunts", model.AccountTypeExpense),
		mk("681000", "Dotations aux amortissements d'exploitation", model.AccountTypeExpense),
		mk("701000", "Ventes de marchandises", model.AccountTypeIncome),
		mk("706000", "Services vendus", model.AccountTypeIncome),
		mk("771000", "Intérêts de prêts", model.AccountTypeIncome),
		mk("781000", "Transferts de charges d'exploitation", model.AccountTypeIncome),
		mk("831000", "Charges HAO constatées", model.AccountTypeExpense),
		mk("841000", "Produits HAO constatés", model.AccountTypeIncome),
		mk("891000", "Impôts sur le résultat", model.AccountTypeExpense),
	}

	for i := range accounts {
		switch accounts[i].Code {
		case "401000", "411000":
			accounts[i].Reconcilable = true
		}
	}
	return accounts
}

// DefaultJournals returns the standard journal set for a new company.
func DefaultJournals(companyID string) []model.Journal {
	mk := func(code, name string, typ model.JournalType) model.Journal {
		return model.Journal{ID: code, CompanyID: companyID, Code: code, Name: name, Type: typ}
	}
	return []model.Journal{
		mk("VTE", "Journal des ventes", model.JournalSales),
		mk("ACH", "Journal des achats", model.JournalPurchases),
		mk("CSE", "Journal de caisse", model.JournalCash),
		mk("BNK", "Journal de banque", model.JournalBank),
		mk("OD", "Opérations diverses", model.JournalMisc),
	}
}
