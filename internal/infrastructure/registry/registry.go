// Package registry defines the external chemical-registry lookup contract
// shared by the KOSHA and KECO clients.
package registry

import (
	"context"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Result is the outcome of one registry lookup. Network errors, malformed
// bodies, and zero-result replies all collapse to Found=false with a
// human-readable reason; the pipeline must tolerate missing data for any CAS
// number and keep going. The underlying cause is logged by the client for
// diagnostics but deliberately not exposed: the source data cannot
// distinguish "registry down" from "not registered", and inventing that
// distinction here would be a lie.
type Result struct {
	Found    bool            `json:"found"`
	Reason   string          `json:"reason,omitempty"`
	Source   chem.Source     `json:"source"`
	Identity chem.Identity   `json:"identity,omitempty"`
	Raw      *chem.RawRecord `json:"raw,omitempty"`
}

// NotFound builds a negative result.
func NotFound(source chem.Source, cas chem.CASNumber, reason string) Result {
	return Result{
		Found:    false,
		Reason:   reason,
		Source:   source,
		Identity: chem.Identity{CAS: cas},
	}
}

// Client is one external chemical registry. Lookup performs exactly one
// outbound query per call: no retries, no back-off.
type Client interface {
	Source() chem.Source
	Lookup(ctx context.Context, cas chem.CASNumber) Result
}
