package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var companyDate string

var companyCmd = &cobra.Command{
	Use:   "company <cui>",
	Short: "Look up a company in the public VAT registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		var date time.Time
		if companyDate != "" {
			var err error
			if date, err = time.Parse("2006-01-02", companyDate); err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
		}

		client, err := newClient(c)
		if err != nil {
			return err
		}
		company, err := client.LookupCompany(c.Context(), args[0], date)
		if err != nil {
			return err
		}

		out := c.OutOrStdout()
		fmt.Fprintf(out, "cui:        %s\n", company.CUI)
		fmt.Fprintf(out, "name:       %s\n", company.Name)
		fmt.Fprintf(out, "address:    %s\n", company.Address)
		fmt.Fprintf(out, "vat payer:  %t\n", company.VATPayer)
		fmt.Fprintf(out, "vat cash:   %t\n", company.VATOnCash)
		fmt.Fprintf(out, "inactive:   %t\n", company.Inactive)
		return nil
	},
}

func init() {
	companyCmd.Flags().StringVar(&companyDate, "date", "", "reference date YYYY-MM-DD (default: today)")
	rootCmd.AddCommand(companyCmd)
}
