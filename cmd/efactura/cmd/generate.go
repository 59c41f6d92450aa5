package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/facturis/efactura-go/pkg/ubl"
)

// invoiceFile is the JSON shape accepted by `efactura generate`. Dates are
// plain YYYY-MM-DD; numbers may be JSON numbers or strings.
type invoiceFile struct {
	TypeCode string     `json:"type_code"`
	Number   string     `json:"number"`
	Issue    string     `json:"issue_date"`
	Due      string     `json:"due_date"`
	Currency string     `json:"currency"`
	Supplier partyFile  `json:"supplier"`
	Customer partyFile  `json:"customer"`
	Lines    []lineFile `json:"lines"`
	IBAN     string     `json:"payment_iban"`
}

type partyFile struct {
	Name     string `json:"name"`
	CIF      string `json:"cif"`
	VATPayer bool   `json:"vat_payer"`
	Address  struct {
		Street     string `json:"street"`
		City       string `json:"city"`
		PostalZone string `json:"postal_zone"`
		County     string `json:"county"`
		Country    string `json:"country"`
	} `json:"address"`
}

type lineFile struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCode    string          `json:"unit_code"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

var generateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate <input.json>",
	Short: "Generate a CIUS-RO UBL invoice XML from a JSON description",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		var f invoiceFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}

		in, err := f.toInput()
		if err != nil {
			return err
		}
		xml, err := ubl.BuildInvoiceXML(in)
		if err != nil {
			return err
		}

		if generateOutput == "" || generateOutput == "-" {
			fmt.Fprintln(c.OutOrStdout(), xml)
			return nil
		}
		if err := os.WriteFile(generateOutput, []byte(xml), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("file", generateOutput).Str("invoice", f.Number).Msg("invoice generated")
		return nil
	},
}

func (f *invoiceFile) toInput() (*ubl.InvoiceInput, error) {
	issue, err := time.Parse("2006-01-02", f.Issue)
	if err != nil {
		return nil, fmt.Errorf("issue_date: %w", err)
	}
	var due time.Time
	if f.Due != "" {
		if due, err = time.Parse("2006-01-02", f.Due); err != nil {
			return nil, fmt.Errorf("due_date: %w", err)
		}
	}

	in := &ubl.InvoiceInput{
		TypeCode:      f.TypeCode,
		InvoiceNumber: f.Number,
		IssueDate:     issue,
		DueDate:       due,
		Currency:      f.Currency,
		Supplier:      f.Supplier.toParty(),
		Customer:      f.Customer.toParty(),
		Lines:         make([]ubl.InvoiceLine, 0, len(f.Lines)),
		PaymentIBAN:   f.IBAN,
	}
	for _, l := range f.Lines {
		in.Lines = append(in.Lines, ubl.InvoiceLine{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCode:    l.UnitCode,
			UnitPrice:   l.UnitPrice,
			TaxPercent:  l.TaxPercent,
		})
	}
	return in, nil
}

func (p partyFile) toParty() ubl.Party {
	return ubl.Party{
		RegistrationName: p.Name,
		CompanyID:        p.CIF,
		VATPayer:         p.VATPayer,
		Address: ubl.Address{
			Street:      p.Address.Street,
			City:        p.Address.City,
			PostalZone:  p.Address.PostalZone,
			County:      p.Address.County,
			CountryCode: p.Address.Country,
		},
	}
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(generateCmd)
}
