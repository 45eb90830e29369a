package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemReg-Ledger/pkg/client"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// NewLookupCmd resolves one CAS number against both registries and prints
// the merged compliance record.
func NewLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <cas>",
		Short: "Resolve a CAS number against the KOSHA and KECO registries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			resp, err := cliCtx.Client.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !resp.Found {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: not registered in any registry\n", args[0])
				for _, src := range resp.Result.Sources {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", src.Source, src.Reason)
				}
				return nil
			}

			if cliCtx.OutputFormat == "text" {
				printLookupText(cmd, resp.Result)
				return nil
			}
			return PrintResult(cmd, resp)
		},
	}
}

// printLookupText renders the interesting fields of a merged record, skipping
// anything the registries left unknown.
func printLookupText(cmd *cobra.Command, result *client.LookupResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "CAS:      %s\n", result.CAS)
	if result.Identity.NameKo != "" {
		fmt.Fprintf(out, "Name:     %s", result.Identity.NameKo)
		if result.Identity.NameEn != "" {
			fmt.Fprintf(out, " (%s)", result.Identity.NameEn)
		}
		fmt.Fprintln(out)
	}
	if result.Identity.KENumber != "" {
		fmt.Fprintf(out, "KE No:    %s\n", result.Identity.KENumber)
	}
	for _, src := range result.Sources {
		status := "found"
		if !src.Found {
			status = "not found"
			if src.Reason != "" {
				status += " (" + src.Reason + ")"
			}
		}
		fmt.Fprintf(out, "Source:   %s: %s\n", src.Source, status)
	}

	rec := &result.Compliance
	flags := []struct {
		label string
		value string
	}{
		{"작업환경측정", rec.WorkEnvMonitoring},
		{"특수건강진단", rec.SpecialHealthExam},
		{"관리대상유해물질", rec.ControlledSubstance},
		{"특별관리물질", rec.SpecialControl},
		{"유독물질", rec.ToxicSubstance},
		{"사고대비물질", rec.AccidentPrecaution},
		{"PRTR", rec.PRTRApplicable},
		{"노출기준(TWA)", rec.ExposureTWA},
		{"위험물류별", rec.HazmatClass},
	}
	for _, f := range flags {
		if !chem.IsUnknown(f.value) {
			fmt.Fprintf(out, "%-12s %s\n", f.label+":", f.value)
		}
	}
}
