package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemReg-Ledger/pkg/client"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// NewEmissionCmd runs a tiered emission estimate for one ledger row. The
// readings come from a JSON file shaped like the API's emission request body.
func NewEmissionCmd() *cobra.Command {
	var (
		tier     string
		dataPath string
	)

	cmd := &cobra.Command{
		Use:   "emission <cas>",
		Short: "Calculate an emission estimate for a ledger row",
		Long: `Calculate a tiered emission estimate for one ledger row.

The tier selects the methodology:
  TIER1_CONTINUOUS      continuous stack measurements
  TIER2_PERIODIC        periodic self-measurements
  TIER3_MASS_BALANCE    mass balance over input/recovered/destroyed
  TIER4_EMISSION_FACTOR activity data times emission factor

Readings are read from the --data JSON file, shaped like the API request
body, e.g. {"mass_balance":[{"input":1000,"recovered":400,"destroyed":500}]}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			if !chem.Tier(tier).Valid() {
				return fmt.Errorf("unknown tier %q", tier)
			}

			var req client.EmissionRequest
			if dataPath != "" {
				payload, err := os.ReadFile(dataPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(payload, &req); err != nil {
					return fmt.Errorf("parsing %s: %w", dataPath, err)
				}
			}
			req.Method = chem.Tier(tier)

			estimate, err := cliCtx.Client.CalculateEmission(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, estimate)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f kg/year (%s)\n", args[0], estimate.AmountKg, estimate.Method)
			return nil
		},
	}

	cmd.Flags().StringVar(&tier, "tier", string(chem.TierMassBalance), "estimation tier")
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON file with the tier's readings")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
