// Package chem defines the shared chemical-compliance data model: substance
// identity, raw registry records, the canonical compliance record, inventory
// rows, and emission estimates.  These types are used across all layers and
// carry no behavior beyond validation and sentinel handling.
package chem

import (
	"fmt"
	"regexp"
	"strings"
)

// casPattern matches a CAS registry number: 2-7 digits, 2 digits, 1 check digit.
var casPattern = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)

// CASNumber is a CAS registry number, the canonical key for a substance.
type CASNumber string

func (c CASNumber) String() string {
	return string(c)
}

// Normalize trims surrounding whitespace. Registry exports routinely pad the
// CAS column with spaces or tabs.
func (c CASNumber) Normalize() CASNumber {
	return CASNumber(strings.TrimSpace(string(c)))
}

// Validate reports whether the CAS number has the standard N{2,7}-NN-N shape.
// The check-digit algorithm is deliberately not enforced: the registries
// themselves list a handful of substances under historically wrong check
// digits.
func (c CASNumber) Validate() error {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return fmt.Errorf("CAS number cannot be empty")
	}
	if !casPattern.MatchString(s) {
		return fmt.Errorf("invalid CAS number format: %q", s)
	}
	return nil
}

// Source identifies which external registry produced a record.
type Source string

const (
	// SourceKOSHA is the occupational-safety MSDS registry.
	SourceKOSHA Source = "kosha"
	// SourceKECO is the environmental-substances registry.
	SourceKECO Source = "keco"
)

// Identity is the resolved identity of one substance. Immutable once resolved
// from a registry.
type Identity struct {
	CAS      CASNumber `json:"cas"`
	NameKo   string    `json:"name_ko,omitempty"`
	NameEn   string    `json:"name_en,omitempty"`
	KENumber string    `json:"ke_number,omitempty"`
	UNNumber string    `json:"un_number,omitempty"`
}
