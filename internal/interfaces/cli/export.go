package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCmd renders the inventory ledger in its regulatory CSV layout.
// Without --out the export is stored server-side and a download link printed;
// with --out the CSV is downloaded directly into a local file.
func NewExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the inventory ledger as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			if outPath != "" {
				payload, err := cliCtx.Client.DownloadLedger(cmd.Context())
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, payload, 0o644); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("ledger written to %s (%d bytes)", outPath, len(payload)))
				return nil
			}

			result, err := cliCtx.Client.ExportLedger(cmd.Context())
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stored:   %s (%d bytes)\n", result.ObjectName, result.SizeBytes)
			fmt.Fprintf(out, "Download: %s\n", result.DownloadURL)
			fmt.Fprintf(out, "Expires:  %s\n", result.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "download the CSV to this file instead of storing it server-side")
	return cmd
}
