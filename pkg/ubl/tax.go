package ubl

import "github.com/shopspring/decimal"

// LineExtension computes the net amount of a line: the unit price is rounded
// to 2 decimals first, then multiplied by the quantity, then the product is
// rounded to 2 decimals again. The two-step rounding matches the precision
// the e-Factura validator accepts and must not be collapsed into a single
// final rounding.
func LineExtension(l InvoiceLine) decimal.Decimal {
	return l.UnitPrice.Round(2).Mul(l.Quantity).Round(2)
}

// lineTax computes the VAT amount for an already-rounded line extension.
func lineTax(extension, percent decimal.Decimal) decimal.Decimal {
	return extension.Mul(percent).Div(oneHundred).Round(2)
}

// categoryFor selects the tax category for a line. A supplier that is not a
// VAT payer forces category "O" on every line regardless of the stated
// percent; otherwise a positive percent is standard rated and zero percent
// is zero rated.
func categoryFor(percent decimal.Decimal, supplierVATPayer bool) string {
	switch {
	case !supplierVATPayer:
		return TaxCategoryNotSubject
	case percent.IsPositive():
		return TaxCategoryStandard
	default:
		return TaxCategoryZero
	}
}

type taxKey struct {
	category string
	percent  string
}

// GroupLinesByTax partitions the lines into tax subtotal groups keyed by
// (category, percent) and accumulates taxable and tax amounts per group.
// Amounts are re-rounded to 2 decimals after each accumulation step, and
// groups are returned in first-seen key order. An empty line slice yields an
// empty result; the builder substitutes a default zero-amount subtotal.
func GroupLinesByTax(lines []InvoiceLine, supplierVATPayer bool) []TaxGroup {
	var groups []TaxGroup
	index := make(map[taxKey]int)

	for _, l := range lines {
		ext := LineExtension(l)
		tax := lineTax(ext, l.TaxPercent)
		category := categoryFor(l.TaxPercent, supplierVATPayer)

		key := taxKey{category: category, percent: l.TaxPercent.String()}
		i, seen := index[key]
		if !seen {
			g := TaxGroup{Category: category, Percent: l.TaxPercent}
			if category == TaxCategoryNotSubject {
				g.ExemptionReason = ExemptionReasonNotSubject
			}
			groups = append(groups, g)
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].TaxableAmount = groups[i].TaxableAmount.Add(ext).Round(2)
		groups[i].TaxAmount = groups[i].TaxAmount.Add(tax).Round(2)
	}
	return groups
}
