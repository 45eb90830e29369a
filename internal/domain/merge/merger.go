// Package merge combines per-registry compliance records and the PRTR
// classification into one canonical record per chemical.
package merge

import (
	"github.com/turtacn/ChemReg-Ledger/internal/domain/prtr"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Records merges source records in the given order, then overlays the PRTR
// classification. For every field the first non-unknown value wins; an
// explicit value is never overwritten by a later source's explicit value,
// even when the two disagree. The two registries do conflict on overlapping
// fields, and flip-flopping between them is worse than a stable answer.
func Records(classification prtr.Classification, sources ...chem.ComplianceRecord) chem.ComplianceRecord {
	merged := chem.NewComplianceRecord()
	for i := range sources {
		merged.MergeFrom(&sources[i])
	}
	classification.Apply(&merged)
	return merged
}
