// Package ubl generates UBL 2.1 invoice documents compliant with the
// Romanian CIUS-RO customization used by the ANAF e-Factura system.
//
// The package is pure: it validates a structured InvoiceInput, normalizes
// free-text address data, groups lines into tax subtotals and emits the
// final XML string. It performs no I/O; uploading the result belongs to
// pkg/efactura.
package ubl

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomizationID identifies the CIUS-RO 1.0.1 profile (BT-24).
const CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:efactura.mfinante.ro:CIUS-RO:1.0.1"

// UBL 2.1 namespaces for the Invoice document and its component libraries.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Invoice type codes (UNTDID 1001 subset accepted by e-Factura).
const (
	TypeCommercialInvoice = "380" // standard commercial invoice
	TypeCorrectiveInvoice = "384"
	TypeSelfBilledInvoice = "389"
	TypePaymentInfo       = "751"
)

// Tax category codes (UNTDID 5305 subset used in the TaxSubtotal blocks).
const (
	TaxCategoryStandard       = "S" // standard rated
	TaxCategoryZero           = "Z" // zero rated
	TaxCategoryNotSubject     = "O" // services outside scope of VAT
	ExemptionReasonNotSubject = "VATEX-EU-O"
)

// Defaults applied by the builder when the corresponding field is empty.
const (
	DefaultCurrency = "RON"
	DefaultUnitCode = "EA"
	DefaultCountry  = "RO"
)

// Address is a postal address inside a Party block. County is free text and
// is passed through the pkg/romania sanitizer before emission; an
// unrecognized county is omitted from the output rather than failing the
// build.
type Address struct {
	Street      string
	City        string
	PostalZone  string
	County      string
	CountryCode string // defaults to "RO"
}

// Party identifies the supplier or the customer of the invoice.
type Party struct {
	RegistrationName string
	CompanyID        string // CUI/CIF fiscal identifier
	VATPayer         bool   // drives tax category selection on every line
	Address          Address
}

// InvoiceLine is one invoiced item. Order is significant: it drives the
// emitted line IDs and display order.
type InvoiceLine struct {
	ID          string // optional; auto-numbered 1..N when empty
	Name        string
	Description string
	Quantity    decimal.Decimal
	UnitCode    string // defaults to "EA"
	UnitPrice   decimal.Decimal
	TaxPercent  decimal.Decimal // 0..100, defaults to 0
}

// InvoiceInput is the full document request consumed by BuildInvoiceXML.
type InvoiceInput struct {
	TypeCode      string // defaults to TypeCommercialInvoice
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time // zero value: defaults to IssueDate
	Currency      string    // defaults to "RON"
	Supplier      Party
	Customer      Party
	Lines         []InvoiceLine
	PaymentIBAN   string // optional; emits a PaymentMeans block when set
}

// TaxGroup is one accumulated tax subtotal, keyed by (category, percent).
// Groups are emitted in first-seen order of their key across the line
// sequence.
type TaxGroup struct {
	Category        string
	Percent         decimal.Decimal
	TaxableAmount   decimal.Decimal
	TaxAmount       decimal.Decimal
	ExemptionReason string // set only for category "O"
}
