package ubl

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInvoice wraps every validation failure raised before building.
var ErrInvalidInvoice = errors.New("invalid invoice input")

var oneHundred = decimal.NewFromInt(100)

// Validate checks the structural pre-conditions of the input and returns the
// first violation found, wrapped in ErrInvalidInvoice. Fields are checked in
// a fixed order: invoice number, issue date, supplier, customer, lines.
// It never mutates the input.
func Validate(in *InvoiceInput) error {
	if in == nil {
		return fmt.Errorf("%w: input is nil", ErrInvalidInvoice)
	}
	if in.InvoiceNumber == "" {
		return fmt.Errorf("%w: invoice number is required", ErrInvalidInvoice)
	}
	if in.IssueDate.IsZero() {
		return fmt.Errorf("%w: issue date is required", ErrInvalidInvoice)
	}
	if err := validateParty(&in.Supplier, "supplier"); err != nil {
		return err
	}
	if err := validateParty(&in.Customer, "customer"); err != nil {
		return err
	}
	if in.Lines == nil {
		return fmt.Errorf("%w: lines must be present (may be empty)", ErrInvalidInvoice)
	}
	for i := range in.Lines {
		if err := validateLine(&in.Lines[i], i+1); err != nil {
			return err
		}
	}
	return nil
}

func validateParty(p *Party, role string) error {
	if p.RegistrationName == "" {
		return fmt.Errorf("%w: %s registration name is required", ErrInvalidInvoice, role)
	}
	if p.CompanyID == "" {
		return fmt.Errorf("%w: %s company id is required", ErrInvalidInvoice, role)
	}
	return validateAddress(&p.Address, role)
}

func validateAddress(a *Address, role string) error {
	if a.Street == "" {
		return fmt.Errorf("%w: %s address street is required", ErrInvalidInvoice, role)
	}
	if a.City == "" {
		return fmt.Errorf("%w: %s address city is required", ErrInvalidInvoice, role)
	}
	if a.PostalZone == "" {
		return fmt.Errorf("%w: %s address postal zone is required", ErrInvalidInvoice, role)
	}
	return nil
}

func validateLine(l *InvoiceLine, num int) error {
	if l.Name == "" {
		return fmt.Errorf("%w: line %d: item name is required", ErrInvalidInvoice, num)
	}
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: line %d: quantity must be greater than zero", ErrInvalidInvoice, num)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: line %d: unit price must not be negative", ErrInvalidInvoice, num)
	}
	if l.TaxPercent.IsNegative() || l.TaxPercent.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: line %d: tax percent must be between 0 and 100", ErrInvalidInvoice, num)
	}
	return nil
}
