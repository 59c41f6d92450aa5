package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facturis/efactura-go/pkg/efactura"
)

var validateStandard string

var validateCmd = &cobra.Command{
	Use:   "validate <invoice.xml>",
	Short: "Validate a document against the remote legal ruleset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		xml, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		client, err := newClient(c)
		if err != nil {
			return err
		}
		res, err := client.ValidateXML(c.Context(), xml, validateStandard)
		if err != nil {
			return err
		}

		if res.Valid() {
			fmt.Fprintln(c.OutOrStdout(), "ok")
			return nil
		}
		for _, m := range res.Messages {
			fmt.Fprintln(c.ErrOrStderr(), m)
		}
		return fmt.Errorf("document failed validation (trace %s)", res.TraceID)
	},
}

var (
	pdfOutput     string
	pdfNoValidate bool
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <invoice.xml>",
	Short: "Convert an invoice to the official PDF rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		xml, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		client, err := newClient(c)
		if err != nil {
			return err
		}
		pdf, err := client.XMLToPDF(c.Context(), xml, validateStandard, !pdfNoValidate)
		if err != nil {
			return err
		}

		out := pdfOutput
		if out == "" {
			out = args[0] + ".pdf"
		}
		if err := writeFile(out, pdf); err != nil {
			return err
		}
		log.Info().Str("file", out).Msg("pdf written")
		return nil
	},
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateStandard, "standard", efactura.ValidateInvoice, "validation ruleset: FACT1 or FCN")
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "output file (default: <input>.pdf)")
	pdfCmd.Flags().BoolVar(&pdfNoValidate, "no-validate", false, "skip validation before conversion")
	rootCmd.AddCommand(validateCmd, pdfCmd)
}
