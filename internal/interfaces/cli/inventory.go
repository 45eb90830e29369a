package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemReg-Ledger/pkg/client"
)

// NewInventoryCmd groups the single-row inventory operations.
func NewInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Manage the chemical inventory ledger",
	}
	cmd.AddCommand(
		newInventoryAddCmd(),
		newInventoryListCmd(),
		newInventoryDeleteCmd(),
		newInventorySummaryCmd(),
		newInventorySearchCmd(),
	)
	return cmd
}

func newInventoryAddCmd() *cobra.Command {
	var req client.AddInventoryRequest

	cmd := &cobra.Command{
		Use:   "add <cas>",
		Short: "Register a substance; its compliance profile is resolved from the registries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			req.CAS = args[0]

			row, err := cliCtx.Client.AddInventory(cmd.Context(), req)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("%s (%s) registered", row.Identity.CAS, row.Identity.NameKo))
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, row)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.ProcessName, "process", "", "process name (공정명)")
	f.StringVar(&req.Workplace, "workplace", "", "unit workplace (단위작업장소)")
	f.StringVar(&req.ProductName, "product", "", "product name (제품명)")
	f.StringVar(&req.Alias, "alias", "", "common or alternative name")
	f.StringVar(&req.ContentPercent, "percent", "", "content percentage")
	return cmd
}

// inventoryTable adapts a row list for table output.
type inventoryTable struct {
	list *client.InventoryList
}

func (t inventoryTable) TableHeaders() []string {
	return []string{"CAS", "NAME", "PROCESS", "PRODUCT", "%", "HAZARDOUS"}
}

func (t inventoryTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.list.Items))
	for _, item := range t.list.Items {
		hazardous := ""
		if item.Compliance.IsHazardous() {
			hazardous = "O"
		}
		rows = append(rows, []string{
			string(item.Identity.CAS),
			item.Identity.NameKo,
			item.ProcessName,
			item.ProductName,
			item.ContentPercent,
			hazardous,
		})
	}
	return rows
}

func newInventoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every ledger row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			list, err := cliCtx.Client.ListInventory(cmd.Context())
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, list)
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(inventoryTable{list}.TableHeaders(), inventoryTable{list}.TableRows()))
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows\n", list.Total)
			return nil
		},
	}
}

func newInventoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cas>",
		Short: "Remove a ledger row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.Client.DeleteInventory(cmd.Context(), args[0]); err != nil {
				return err
			}
			PrintSuccess(cmd, args[0]+" removed")
			return nil
		},
	}
}

func newInventorySummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate ledger counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			summary, err := cliCtx.Client.InventorySummary(cmd.Context())
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:           %d\n", summary.Total)
			fmt.Fprintf(out, "Hazardous:       %d\n", summary.Hazardous)
			fmt.Fprintf(out, "PRTR applicable: %d\n", summary.PRTRApplicable)
			fmt.Fprintf(out, "With emission:   %d\n", summary.WithEmission)
			return nil
		},
	}
}

func newInventorySearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search ledger rows by substance or product name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			resp, err := cliCtx.Client.SearchInventory(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, resp)
			}

			headers := []string{"CAS", "NAME", "PRODUCT", "SCORE"}
			rows := make([][]string, 0, len(resp.Hits))
			for _, hit := range resp.Hits {
				rows = append(rows, []string{
					hit.Document.CAS,
					hit.Document.NameKo,
					hit.Document.ProductName,
					strconv.FormatFloat(hit.Score, 'f', 2, 64),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(headers, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of hits")
	return cmd
}
