package statement

import "fmt"

// CrossCheck compares the independently derived statements and reports any
// disagreement. The SIG and TFT compute the net result through different
// classifications, and the balance sheet closes the accounting equation; on
// a fully classified ledger all three must agree.
func CrossCheck(sig SIGResult, tft TFTResult, bilan Bilan) []Warning {
	var warnings []Warning

	if !sig.ResultatNet.Equal(tft.ResultatNet) {
		warnings = append(warnings, Warning{
			Kind: WarnCrossCheckMismatch,
			Description: fmt.Sprintf("income statement net result %s disagrees with cash-flow table net result %s",
				sig.ResultatNet, tft.ResultatNet),
		})
	}
	if !sig.ResultatNet.Equal(bilan.ResultatNet) {
		warnings = append(warnings, Warning{
			Kind: WarnCrossCheckMismatch,
			Description: fmt.Sprintf("income statement net result %s disagrees with balance sheet net result %s",
				sig.ResultatNet, bilan.ResultatNet),
		})
	}
	if !bilan.Reconciled {
		warnings = append(warnings, Warning{
			Kind: WarnCrossCheckMismatch,
			Description: fmt.Sprintf("accounting equation broken: assets %s != liabilities %s + net result %s",
				bilan.TotalAssets, bilan.TotalLiabilities, bilan.ResultatNet),
		})
	}

	return warnings
}
