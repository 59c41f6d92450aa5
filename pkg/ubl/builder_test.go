package ubl_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturis/efactura-go/pkg/ubl"
)

func build(t *testing.T, in *ubl.InvoiceInput) string {
	t.Helper()
	out, err := ubl.BuildInvoiceXML(in)
	require.NoError(t, err)
	return out
}

// parse re-reads the emitted document so assertions can address elements by
// path instead of substring position.
func parse(t *testing.T, xml string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc
}

func text(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, "missing element %s", path)
	return el.Text()
}

func TestBuildInvoiceXML_WellFormed(t *testing.T) {
	out := build(t, validInput())

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Equal(t, strings.Count(out, "<"), strings.Count(out, ">"))

	doc := parse(t, out)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, ubl.NsInvoice, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, ubl.CustomizationID, text(t, doc, "//cbc:CustomizationID"))
}

func TestBuildInvoiceXML_Deterministic(t *testing.T) {
	first := build(t, validInput())
	second := build(t, validInput())
	assert.Equal(t, first, second)
}

func TestBuildInvoiceXML_HeaderFields(t *testing.T) {
	in := validInput()
	doc := parse(t, build(t, in))

	assert.Equal(t, "FCT-2025-0001", text(t, doc, "//cbc:ID"))
	assert.Equal(t, "2025-06-15", text(t, doc, "//cbc:IssueDate"))
	// Due date defaults to the issue date.
	assert.Equal(t, "2025-06-15", text(t, doc, "//cbc:DueDate"))
	assert.Equal(t, ubl.TypeCommercialInvoice, text(t, doc, "//cbc:InvoiceTypeCode"))
	assert.Equal(t, "RON", text(t, doc, "//cbc:DocumentCurrencyCode"))
}

func TestBuildInvoiceXML_MonetaryVector(t *testing.T) {
	// Single line 2 x 150.50 at 19%: extension 301.00, tax 57.19, total 358.19.
	doc := parse(t, build(t, validInput()))

	assert.Equal(t, "301.00", text(t, doc, "//cac:LegalMonetaryTotal/cbc:LineExtensionAmount"))
	assert.Equal(t, "301.00", text(t, doc, "//cac:LegalMonetaryTotal/cbc:TaxExclusiveAmount"))
	assert.Equal(t, "358.19", text(t, doc, "//cac:LegalMonetaryTotal/cbc:TaxInclusiveAmount"))
	assert.Equal(t, "358.19", text(t, doc, "//cac:LegalMonetaryTotal/cbc:PayableAmount"))
	assert.Equal(t, "57.19", text(t, doc, "//cac:TaxTotal/cbc:TaxAmount"))
}

func TestBuildInvoiceXML_TwoRates(t *testing.T) {
	in := validInput()
	in.Lines = []ubl.InvoiceLine{
		{Name: "A", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(19)},
		{Name: "B", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(9)},
	}
	doc := parse(t, build(t, in))

	subtotals := doc.FindElements("//cac:TaxSubtotal")
	require.Len(t, subtotals, 2)
	assert.Equal(t, "200.00", text(t, doc, "//cac:LegalMonetaryTotal/cbc:LineExtensionAmount"))
	assert.Equal(t, "28.00", text(t, doc, "//cac:TaxTotal/cbc:TaxAmount"))
	assert.Equal(t, "228.00", text(t, doc, "//cac:LegalMonetaryTotal/cbc:PayableAmount"))
}

func TestBuildInvoiceXML_EmptyLines(t *testing.T) {
	in := validInput()
	in.Lines = []ubl.InvoiceLine{}
	doc := parse(t, build(t, in))

	assert.Equal(t, "0.00", text(t, doc, "//cac:TaxTotal/cbc:TaxAmount"))
	assert.Equal(t, "0.00", text(t, doc, "//cac:LegalMonetaryTotal/cbc:PayableAmount"))

	// One default standard-rated subtotal keeps the block schema-valid.
	subtotals := doc.FindElements("//cac:TaxSubtotal")
	require.Len(t, subtotals, 1)
	assert.Equal(t, "S", subtotals[0].FindElement("cac:TaxCategory/cbc:ID").Text())
	assert.Equal(t, "0", subtotals[0].FindElement("cac:TaxCategory/cbc:Percent").Text())
	assert.Empty(t, doc.FindElements("//cac:InvoiceLine"))
}

func TestBuildInvoiceXML_NonVATPayerSupplier(t *testing.T) {
	in := validInput()
	in.Supplier.VATPayer = false
	doc := parse(t, build(t, in))

	assert.Equal(t, "O", text(t, doc, "//cac:TaxSubtotal/cac:TaxCategory/cbc:ID"))
	assert.Equal(t, ubl.ExemptionReasonNotSubject, text(t, doc, "//cac:TaxCategory/cbc:TaxExemptionReasonCode"))
	assert.Equal(t, "O", text(t, doc, "//cac:InvoiceLine/cac:Item/cac:ClassifiedTaxCategory/cbc:ID"))
	// Non-VAT payers get no PartyTaxScheme block.
	assert.Nil(t, doc.FindElement("//cac:AccountingSupplierParty//cac:PartyTaxScheme"))
}

func TestBuildInvoiceXML_BucharestSectorReplacesCity(t *testing.T) {
	doc := parse(t, build(t, validInput()))

	// Customer sits in Bucharest: CityName renders the sanitized sector.
	assert.Equal(t, "SECTOR3", text(t, doc, "//cac:AccountingCustomerParty//cbc:CityName"))
	assert.Equal(t, "RO-B", text(t, doc, "//cac:AccountingCustomerParty//cbc:CountrySubentity"))
	// Supplier county normalizes to its ISO code, city untouched.
	assert.Equal(t, "Cluj-Napoca", text(t, doc, "//cac:AccountingSupplierParty//cbc:CityName"))
	assert.Equal(t, "RO-CJ", text(t, doc, "//cac:AccountingSupplierParty//cbc:CountrySubentity"))
}

func TestBuildInvoiceXML_UnresolvableCountyOmitted(t *testing.T) {
	in := validInput()
	in.Supplier.Address.County = "transilvania"
	doc := parse(t, build(t, in))

	assert.Nil(t, doc.FindElement("//cac:AccountingSupplierParty//cbc:CountrySubentity"))
	assert.Equal(t, "Cluj-Napoca", text(t, doc, "//cac:AccountingSupplierParty//cbc:CityName"))
}

func TestBuildInvoiceXML_PaymentMeans(t *testing.T) {
	in := validInput()
	doc := parse(t, build(t, in))
	assert.Nil(t, doc.FindElement("//cac:PaymentMeans"))

	in.PaymentIBAN = "RO49AAAA1B31007593840000"
	doc = parse(t, build(t, in))
	assert.Equal(t, "RO49AAAA1B31007593840000", text(t, doc, "//cac:PaymentMeans/cac:PayeeFinancialAccount/cbc:ID"))
}

func TestBuildInvoiceXML_LineNumberingAndUnits(t *testing.T) {
	in := validInput()
	in.Lines = []ubl.InvoiceLine{
		{Name: "A", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		{ID: "L-7", Name: "B", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5), UnitCode: "KGM"},
		{Name: "C", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(1)},
	}
	doc := parse(t, build(t, in))

	lines := doc.FindElements("//cac:InvoiceLine")
	require.Len(t, lines, 3)
	assert.Equal(t, "1", lines[0].FindElement("cbc:ID").Text())
	assert.Equal(t, "L-7", lines[1].FindElement("cbc:ID").Text())
	assert.Equal(t, "3", lines[2].FindElement("cbc:ID").Text())

	assert.Equal(t, "EA", lines[0].FindElement("cbc:InvoicedQuantity").SelectAttrValue("unitCode", ""))
	assert.Equal(t, "KGM", lines[1].FindElement("cbc:InvoicedQuantity").SelectAttrValue("unitCode", ""))
}

func TestBuildInvoiceXML_EscapesSpecialCharacters(t *testing.T) {
	in := validInput()
	in.Supplier.RegistrationName = "Smith & Sons <SRL>"
	in.Lines[0].Name = "Cabluri < 3m & conectori >"
	out := build(t, in)

	assert.Contains(t, out, "Smith &amp; Sons &lt;SRL&gt;")
	assert.NotContains(t, out, "Smith & Sons <SRL>")

	// Round-trip restores the original text.
	doc := parse(t, out)
	assert.Equal(t, "Smith & Sons <SRL>", text(t, doc, "//cac:AccountingSupplierParty//cbc:RegistrationName"))
	assert.Equal(t, "Cabluri < 3m & conectori >", text(t, doc, "//cac:InvoiceLine/cac:Item/cbc:Name"))
}

func TestBuildInvoiceXML_ValidationFailureProducesNoOutput(t *testing.T) {
	in := validInput()
	in.InvoiceNumber = ""
	out, err := ubl.BuildInvoiceXML(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ubl.ErrInvalidInvoice)
	assert.Empty(t, out)
}

func TestBuildInvoiceXML_CurrencyOnAmounts(t *testing.T) {
	in := validInput()
	in.Currency = "EUR"
	doc := parse(t, build(t, in))

	assert.Equal(t, "EUR", text(t, doc, "//cbc:DocumentCurrencyCode"))
	el := doc.FindElement("//cac:LegalMonetaryTotal/cbc:PayableAmount")
	require.NotNil(t, el)
	assert.Equal(t, "EUR", el.SelectAttrValue("currencyID", ""))
}
