package taxes

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money amounts on tax lines are rounded to two decimal places, matching the
// paisa precision GST documents are issued in.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// GSTBreakup is the computed tax for a single invoice line.
// For intra-state supplies the tax splits evenly into CGST and SGST;
// inter-state supplies carry the whole tax as IGST.
type GSTBreakup struct {
	TaxableValue decimal.Decimal // Line value before tax
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	TotalTax     decimal.Decimal
	LineTotal    decimal.Decimal // Taxable value plus tax
}

// ComputeLine calculates GST for one line.
//
// quantity * unitPrice is treated as tax-inclusive when inclusive is true,
// otherwise the rate is applied on top. interState selects IGST over CGST/SGST.
func ComputeLine(quantity, unitPrice, ratePercent decimal.Decimal, inclusive, interState bool) (GSTBreakup, error) {
	if quantity.IsNegative() || unitPrice.IsNegative() {
		return GSTBreakup{}, fmt.Errorf("quantity and unit price must not be negative")
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(hundred) {
		return GSTBreakup{}, fmt.Errorf("GST rate %s%% out of range", ratePercent.String())
	}

	gross := quantity.Mul(unitPrice)
	rate := ratePercent.Div(hundred)

	var taxable, tax decimal.Decimal
	if inclusive {
		// gross = taxable * (1 + rate)
		taxable = gross.Div(decimal.NewFromInt(1).Add(rate)).Round(moneyPlaces)
		tax = gross.Sub(taxable).Round(moneyPlaces)
	} else {
		taxable = gross.Round(moneyPlaces)
		tax = taxable.Mul(rate).Round(moneyPlaces)
	}

	b := GSTBreakup{
		TaxableValue: taxable,
		TotalTax:     tax,
		LineTotal:    taxable.Add(tax),
	}
	if interState {
		b.IGST = tax
	} else {
		// Split evenly; any odd paisa lands on SGST so the halves still sum to the tax.
		b.CGST = tax.Div(decimal.NewFromInt(2)).Round(moneyPlaces)
		b.SGST = tax.Sub(b.CGST)
	}
	return b, nil
}

// InterState reports whether a supply between the two GST state codes is
// inter-state. Unknown (empty) codes are treated as intra-state, which matches
// unregistered local trade.
func InterState(supplierStateCode, partyStateCode string) bool {
	if supplierStateCode == "" || partyStateCode == "" {
		return false
	}
	return supplierStateCode != partyStateCode
}
