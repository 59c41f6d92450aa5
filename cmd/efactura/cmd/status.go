package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <upload-index>",
	Short: "Query the processing state of an uploaded document",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		client, err := newClient(c)
		if err != nil {
			return err
		}
		st, err := client.GetMessageState(c.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(c.OutOrStdout(), "state: %s\n", st.State)
		if st.DownloadID != "" {
			fmt.Fprintf(c.OutOrStdout(), "download id: %s\n", st.DownloadID)
		}
		return nil
	},
}

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <download-id>",
	Short: "Download the processed document archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		client, err := newClient(c)
		if err != nil {
			return err
		}
		zip, err := client.Download(c.Context(), args[0])
		if err != nil {
			return err
		}

		out := downloadOutput
		if out == "" {
			out = args[0] + ".zip"
		}
		if err := writeFile(out, zip); err != nil {
			return err
		}
		log.Info().Str("file", out).Int("bytes", len(zip)).Msg("archive downloaded")
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file (default: <download-id>.zip)")
	rootCmd.AddCommand(statusCmd, downloadCmd)
}
