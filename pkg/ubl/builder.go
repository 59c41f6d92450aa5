package ubl

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/facturis/efactura-go/pkg/romania"
)

const dateLayout = "2006-01-02"

// BuildInvoiceXML validates the input and assembles the complete CIUS-RO
// UBL 2.1 Invoice document, returned as a UTF-8 XML string ready for upload.
// The output is deterministic: identical input produces identical bytes.
func BuildInvoiceXML(in *InvoiceInput) (string, error) {
	if err := Validate(in); err != nil {
		return "", err
	}

	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	typeCode := in.TypeCode
	if typeCode == "" {
		typeCode = TypeCommercialInvoice
	}
	dueDate := in.DueDate
	if dueDate.IsZero() {
		dueDate = in.IssueDate
	}

	groups := GroupLinesByTax(in.Lines, in.Supplier.VATPayer)
	if len(groups) == 0 {
		// Keep the TaxTotal block schema-valid for a document without lines.
		groups = []TaxGroup{{Category: TaxCategoryStandard, Percent: decimal.Zero}}
	}

	// Totals are sums of the already-rounded per-group amounts; only the
	// grand total gets one more rounding.
	var totalTaxable, totalTax decimal.Decimal
	for _, g := range groups {
		totalTaxable = totalTaxable.Add(g.TaxableAmount)
		totalTax = totalTax.Add(g.TaxAmount)
	}
	grandTotal := totalTaxable.Add(totalTax).Round(2)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	addCbc(root, "CustomizationID", CustomizationID)
	addCbc(root, "ID", in.InvoiceNumber)
	addCbc(root, "IssueDate", in.IssueDate.Format(dateLayout))
	addCbc(root, "DueDate", dueDate.Format(dateLayout))
	addCbc(root, "InvoiceTypeCode", typeCode)
	addCbc(root, "DocumentCurrencyCode", currency)

	writeParty(root, "AccountingSupplierParty", &in.Supplier)
	writeParty(root, "AccountingCustomerParty", &in.Customer)

	if in.PaymentIBAN != "" {
		pm := root.CreateElement("cac:PaymentMeans")
		addCbc(pm, "PaymentMeansCode", "30") // credit transfer
		account := pm.CreateElement("cac:PayeeFinancialAccount")
		addCbc(account, "ID", in.PaymentIBAN)
	}

	taxTotal := root.CreateElement("cac:TaxTotal")
	addAmount(taxTotal, "cbc:TaxAmount", totalTax, currency)
	for _, g := range groups {
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		addAmount(sub, "cbc:TaxableAmount", g.TaxableAmount, currency)
		addAmount(sub, "cbc:TaxAmount", g.TaxAmount, currency)
		cat := sub.CreateElement("cac:TaxCategory")
		addCbc(cat, "ID", g.Category)
		addCbc(cat, "Percent", g.Percent.String())
		if g.ExemptionReason != "" {
			addCbc(cat, "TaxExemptionReasonCode", g.ExemptionReason)
		}
		scheme := cat.CreateElement("cac:TaxScheme")
		addCbc(scheme, "ID", "VAT")
	}

	totals := root.CreateElement("cac:LegalMonetaryTotal")
	addAmount(totals, "cbc:LineExtensionAmount", totalTaxable, currency)
	addAmount(totals, "cbc:TaxExclusiveAmount", totalTaxable, currency)
	addAmount(totals, "cbc:TaxInclusiveAmount", grandTotal, currency)
	addAmount(totals, "cbc:PayableAmount", grandTotal, currency)

	for i, l := range in.Lines {
		writeLine(root, i+1, l, in.Supplier.VATPayer, currency)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	return out, nil
}

// writeParty emits an AccountingSupplierParty/AccountingCustomerParty block.
// The county goes through the sanitizer; when it resolves to Bucharest the
// city is replaced by the sanitized sector code, per the CIUS-RO rule that
// capital addresses carry the sector in CityName.
func writeParty(root *etree.Element, wrapper string, p *Party) {
	party := root.CreateElement("cac:" + wrapper).CreateElement("cac:Party")

	addr := party.CreateElement("cac:PostalAddress")
	addCbc(addr, "StreetName", p.Address.Street)

	county := romania.SanitizeCounty(p.Address.County)
	city := p.Address.City
	if romania.IsBucharest(county) {
		if sector := romania.SanitizeBucharestSector(p.Address.City); sector != "" {
			city = sector
		}
	}
	addCbc(addr, "CityName", city)
	addCbc(addr, "PostalZone", p.Address.PostalZone)
	if county != "" {
		addCbc(addr, "CountrySubentity", county)
	}
	countryCode := p.Address.CountryCode
	if countryCode == "" {
		countryCode = DefaultCountry
	}
	addCbc(addr.CreateElement("cac:Country"), "IdentificationCode", countryCode)

	if p.VATPayer {
		taxScheme := party.CreateElement("cac:PartyTaxScheme")
		addCbc(taxScheme, "CompanyID", p.CompanyID)
		addCbc(taxScheme.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}

	legal := party.CreateElement("cac:PartyLegalEntity")
	addCbc(legal, "RegistrationName", p.RegistrationName)
	addCbc(legal, "CompanyID", p.CompanyID)
}

func writeLine(root *etree.Element, num int, l InvoiceLine, supplierVATPayer bool, currency string) {
	id := l.ID
	if id == "" {
		id = strconv.Itoa(num)
	}
	unitCode := l.UnitCode
	if unitCode == "" {
		unitCode = DefaultUnitCode
	}
	extension := LineExtension(l)

	line := root.CreateElement("cac:InvoiceLine")
	addCbc(line, "ID", id)
	qty := addCbc(line, "InvoicedQuantity", l.Quantity.String())
	qty.CreateAttr("unitCode", unitCode)
	addAmount(line, "cbc:LineExtensionAmount", extension, currency)

	item := line.CreateElement("cac:Item")
	if l.Description != "" {
		addCbc(item, "Description", l.Description)
	}
	addCbc(item, "Name", l.Name)
	cat := item.CreateElement("cac:ClassifiedTaxCategory")
	addCbc(cat, "ID", categoryFor(l.TaxPercent, supplierVATPayer))
	addCbc(cat, "Percent", l.TaxPercent.String())
	addCbc(cat.CreateElement("cac:TaxScheme"), "ID", "VAT")

	price := line.CreateElement("cac:Price")
	addAmount(price, "cbc:PriceAmount", l.UnitPrice.Round(2), currency)
}

func addCbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

// addAmount renders a monetary element with exactly 2 decimal places and the
// currencyID attribute.
func addAmount(parent *etree.Element, tag string, d decimal.Decimal, currency string) {
	el := parent.CreateElement(tag)
	el.SetText(formatAmount(d))
	el.CreateAttr("currencyID", currency)
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
