// Package prtr answers whether a chemical is subject to the pollutant
// release and transfer register survey, from a static table bundled with the
// system. There is no live API for this lookup.
package prtr

import (
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Classification is the lookup result. Substances absent from the table get
// the unknown marker in every field.
type Classification struct {
	Applicable string `json:"applicable"`
	Group      string `json:"group"`
	Threshold  string `json:"threshold"`
	Name       string `json:"name,omitempty"`
}

// NotApplicable is the result for substances absent from the table.
func NotApplicable() Classification {
	return Classification{
		Applicable: chem.Unknown,
		Group:      chem.Unknown,
		Threshold:  chem.Unknown,
	}
}

// Classify looks up a CAS number in the bundled survey table. It never fails;
// unknown substances return the unknown marker for all fields.
func Classify(cas chem.CASNumber) Classification {
	entry, ok := substances[string(cas.Normalize())]
	if !ok {
		return NotApplicable()
	}
	return Classification{
		Applicable: chem.Applicable,
		Group:      entry.group,
		Threshold:  entry.threshold,
		Name:       entry.name,
	}
}

// Apply copies the classification into a compliance record's PRTR fields,
// honoring first-non-unknown-wins.
func (c Classification) Apply(rec *chem.ComplianceRecord) {
	if chem.IsUnknown(rec.PRTRApplicable) && !chem.IsUnknown(c.Applicable) {
		rec.PRTRApplicable = c.Applicable
	}
	if chem.IsUnknown(rec.PRTRGroup) && !chem.IsUnknown(c.Group) {
		rec.PRTRGroup = c.Group
	}
	if chem.IsUnknown(rec.PRTRThreshold) && !chem.IsUnknown(c.Threshold) {
		rec.PRTRThreshold = c.Threshold
	}
}
