package prtr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

func TestClassify_KnownSubstance(t *testing.T) {
	c := Classify(chem.CASNumber("108-88-3"))
	assert.Equal(t, "O", c.Applicable)
	assert.Equal(t, "1그룹", c.Group)
	assert.Equal(t, "1,000kg/년", c.Threshold)
	assert.Equal(t, "톨루엔", c.Name)
}

func TestClassify_CarcinogenGroup(t *testing.T) {
	c := Classify(chem.CASNumber("71-43-2"))
	assert.Equal(t, "2그룹", c.Group)
	assert.Equal(t, "100kg/년", c.Threshold)
}

func TestClassify_AbsentReturnsUnknownNeverFails(t *testing.T) {
	for _, cas := range []string{"9999-99-9", "", "not-a-cas"} {
		c := Classify(chem.CASNumber(cas))
		assert.Equal(t, chem.Unknown, c.Applicable)
		assert.Equal(t, chem.Unknown, c.Group)
		assert.Equal(t, chem.Unknown, c.Threshold)
	}
}

func TestClassify_NormalizesInput(t *testing.T) {
	c := Classify(chem.CASNumber("  108-88-3 "))
	assert.Equal(t, "O", c.Applicable)
}

func TestApply_FirstNonUnknownWins(t *testing.T) {
	rec := chem.NewComplianceRecord()
	rec.PRTRGroup = "기존값"

	Classify(chem.CASNumber("108-88-3")).Apply(&rec)
	assert.Equal(t, "O", rec.PRTRApplicable)
	assert.Equal(t, "기존값", rec.PRTRGroup)
	assert.Equal(t, "1,000kg/년", rec.PRTRThreshold)
}

func TestApply_AbsentLeavesRecordUntouched(t *testing.T) {
	rec := chem.NewComplianceRecord()
	Classify(chem.CASNumber("9999-99-9")).Apply(&rec)
	assert.Equal(t, chem.Unknown, rec.PRTRApplicable)
}
