package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// NewBatchCmd submits a CSV of CAS numbers as one asynchronous batch job.
// Expected columns: cas[,process,workplace,product,alias,percent]; a header
// row starting with "cas" is skipped.
func NewBatchCmd() *cobra.Command {
	var (
		wait         bool
		pollInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Register many substances from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			items, err := readBatchCSV(args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("%s: no items found", args[0])
			}

			resp, err := cliCtx.Client.SubmitBatch(cmd.Context(), items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s accepted: %d items\n", resp.JobID, resp.Total)

			if !wait {
				fmt.Fprintf(cmd.OutOrStdout(), "Poll with: chemreg batch status %s\n", resp.JobID)
				return nil
			}
			return pollProgress(cmd, cliCtx, resp.JobID, pollInterval)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the job completes")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 2*time.Second, "progress polling interval with --wait")

	cmd.AddCommand(newBatchStatusCmd())
	return cmd
}

func newBatchStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the progress of a batch job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			progress, err := cliCtx.Client.GetBatchProgress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, progress)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%s: %s %d/%d (succeeded %d, skipped %d, duplicates %d, failed %d, hazardous %d)\n",
				progress.JobID, progress.Status, progress.Processed, progress.Total,
				progress.Succeeded, progress.Skipped, progress.Duplicates, progress.Failed, progress.Hazmat)
			return nil
		},
	}
}

func pollProgress(cmd *cobra.Command, cliCtx *CLIContext, jobID string, interval time.Duration) error {
	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(interval):
		}

		progress, err := cliCtx.Client.GetBatchProgress(cmd.Context(), jobID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\r%d/%d processed", progress.Processed, progress.Total)
		if progress.Status == "completed" || progress.Status == "failed" {
			fmt.Fprintf(cmd.OutOrStdout(),
				"\n%s: succeeded %d, skipped %d, duplicates %d, failed %d, hazardous %d\n",
				progress.Status, progress.Succeeded, progress.Skipped,
				progress.Duplicates, progress.Failed, progress.Hazmat)
			return nil
		}
	}
}

// readBatchCSV parses batch items from one CSV file.
func readBatchCSV(path string) ([]chem.BatchItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBatchCSV(f)
}

func parseBatchCSV(r io.Reader) ([]chem.BatchItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []chem.BatchItem
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing batch CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		// A leading header row is tolerated.
		if first {
			first = false
			if strings.EqualFold(strings.TrimPrefix(record[0], "\ufeff"), "cas") {
				continue
			}
		}

		item := chem.BatchItem{CAS: chem.CASNumber(record[0])}
		if len(record) > 1 {
			item.ProcessName = record[1]
		}
		if len(record) > 2 {
			item.Workplace = record[2]
		}
		if len(record) > 3 {
			item.ProductName = record[3]
		}
		if len(record) > 4 {
			item.Alias = record[4]
		}
		if len(record) > 5 {
			item.ContentPercent = record[5]
		}
		items = append(items, item)
	}
	return items, nil
}
