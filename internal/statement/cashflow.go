package statement

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandlivre-dev/grandlivre/internal/balance"
	"github.com/grandlivre-dev/grandlivre/internal/coa"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// TFTResult is the cash-flow formation table. Unlike the SIG it is keyed
// directly off account-code ranges, which makes it an independent
// re-derivation: its ResultatNet must agree with the SIG's for a correctly
// classified ledger.
type TFTResult struct {
	Ventes               decimal.Decimal // 700-709
	AchatsConsommes      decimal.Decimal // 600-609
	ProduitsExploitation decimal.Decimal // 700-769, 780-799
	ChargesExploitation  decimal.Decimal // 600-669, 680-699
	ResultatExploitation decimal.Decimal
	ProduitsFinanciers   decimal.Decimal // 770-779
	ChargesFinancieres   decimal.Decimal // 670-679
	CAFG                 decimal.Decimal // capacité d'autofinancement globale
	ProduitsHAO          decimal.Decimal // 810-829, 840-849, 860-869, 880-889
	ChargesHAO           decimal.Decimal // 830-839, 850-859
	ParticipationImpots  decimal.Decimal // 870-879, 890-899
	ResultatNet          decimal.Decimal

	Warnings []Warning
}

// codeRange is an inclusive range over the first three digits of a code.
type codeRange struct{ lo, hi int }

var (
	rangesVentes        = []codeRange{{700, 709}}
	rangesAchats        = []codeRange{{600, 609}}
	rangesProduitsExpl  = []codeRange{{700, 769}, {780, 799}}
	rangesChargesExpl   = []codeRange{{600, 669}, {680, 699}}
	rangesProduitsFin   = []codeRange{{770, 779}}
	rangesChargesFin    = []codeRange{{670, 679}}
	rangesProduitsHAO   = []codeRange{{810, 829}, {840, 849}, {860, 869}, {880, 889}}
	rangesChargesHAO    = []codeRange{{830, 839}, {850, 859}}
	rangesParticipation = []codeRange{{870, 879}, {890, 899}}
)

// CashFlowTable derives the TFT over [from, to].
func CashFlowTable(lines []model.PostedLine, chart *coa.Service, from, to time.Time) TFTResult {
	balances := balance.Accumulate(lines, balance.Between(from, to))

	var r TFTResult
	for accountID, b := range balances {
		acct, ok := chart.Get(accountID)
		if !ok {
			r.Warnings = append(r.Warnings, unclassifiedWarning(accountID, "unknown account"))
			continue
		}

		prefix, ok := codePrefix(acct.Code)
		if !ok {
			r.Warnings = append(r.Warnings, unclassifiedWarning(acct.Code, acct.Name))
			continue
		}
		if prefix < 600 {
			// Balance-sheet classes: not part of result formation.
			continue
		}

		expense := b.Net
		income := b.Net.Neg()

		if inRanges(prefix, rangesVentes) {
			r.Ventes = r.Ventes.Add(income)
		}
		if inRanges(prefix, rangesAchats) {
			r.AchatsConsommes = r.AchatsConsommes.Add(expense)
		}

		switch {
		case inRanges(prefix, rangesProduitsExpl):
			r.ProduitsExploitation = r.ProduitsExploitation.Add(income)
		case inRanges(prefix, rangesChargesExpl):
			r.ChargesExploitation = r.ChargesExploitation.Add(expense)
		case inRanges(prefix, rangesProduitsFin):
			r.ProduitsFinanciers = r.ProduitsFinanciers.Add(income)
		case inRanges(prefix, rangesChargesFin):
			r.ChargesFinancieres = r.ChargesFinancieres.Add(expense)
		case inRanges(prefix, rangesProduitsHAO):
			r.ProduitsHAO = r.ProduitsHAO.Add(income)
		case inRanges(prefix, rangesChargesHAO):
			r.ChargesHAO = r.ChargesHAO.Add(expense)
		case inRanges(prefix, rangesParticipation):
			r.ParticipationImpots = r.ParticipationImpots.Add(expense)
		default:
			r.Warnings = append(r.Warnings, unclassifiedWarning(acct.Code, acct.Name))
		}
	}

	r.ResultatExploitation = r.ProduitsExploitation.Sub(r.ChargesExploitation)
	r.CAFG = r.ResultatExploitation.Add(r.ProduitsFinanciers).Sub(r.ChargesFinancieres)
	r.ResultatNet = r.CAFG.
		Add(r.ProduitsHAO).Sub(r.ChargesHAO).
		Sub(r.ParticipationImpots)

	return r
}

// codePrefix returns the numeric value of the first three digits of a code,
// right-padded with zeros for short codes ("70" reads as 700).
func codePrefix(code string) (int, bool) {
	if code == "" {
		return 0, false
	}
	p := code
	if len(p) > 3 {
		p = p[:3]
	}
	for len(p) < 3 {
		p += "0"
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, false
	}
	return n, true
}

func inRanges(prefix int, ranges []codeRange) bool {
	for _, r := range ranges {
		if prefix >= r.lo && prefix <= r.hi {
			return true
		}
	}
	return false
}
