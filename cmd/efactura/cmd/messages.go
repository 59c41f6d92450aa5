package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var messagesDays int

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List the taxpayer's e-Factura messages",
	RunE: func(c *cobra.Command, args []string) error {
		if cifFlag == "" {
			return fmt.Errorf("--cif is required (or set EFACTURA_CIF)")
		}
		client, err := newClient(c)
		if err != nil {
			return err
		}
		list, err := client.ListMessages(c.Context(), cifFlag, messagesDays)
		if err != nil {
			return err
		}

		for _, m := range list.Messages {
			fmt.Fprintf(c.OutOrStdout(), "%s\t%s\t%s\t%s\n", m.ID, m.CreatedAt, m.Type, m.Details)
		}
		return nil
	},
}

func init() {
	messagesCmd.Flags().IntVar(&messagesDays, "days", 30, "how many days back to list (1-60)")
	rootCmd.AddCommand(messagesCmd)
}
