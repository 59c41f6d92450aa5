package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/facturis/efactura-go/pkg/efactura"
)

var (
	uploadStandard   string
	uploadSelfBilled bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <invoice.xml>",
	Short: "Upload an invoice document to e-Factura",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if cifFlag == "" {
			return fmt.Errorf("--cif is required (or set EFACTURA_CIF)")
		}
		xml, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}

		client, err := newClient(c)
		if err != nil {
			return err
		}

		opts := []efactura.UploadOption{efactura.WithStandard(uploadStandard)}
		if uploadSelfBilled {
			opts = append(opts, efactura.AsSelfBilled())
		}
		res, err := client.Upload(c.Context(), xml, cifFlag, opts...)
		if err != nil {
			return err
		}
		if !res.Accepted() {
			return fmt.Errorf("upload rejected: %s", strings.Join(res.Errors, "; "))
		}

		log.Info().Str("upload_index", res.UploadIndex).Msg("document accepted for processing")
		fmt.Fprintln(c.OutOrStdout(), res.UploadIndex)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadStandard, "standard", efactura.StandardUBL, "document standard: UBL, CN, CII or RASP")
	uploadCmd.Flags().BoolVar(&uploadSelfBilled, "self-billed", false, "mark the upload as a self-billed invoice")
	rootCmd.AddCommand(uploadCmd)
}
