package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

func TestExtractPercent(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"톨루엔 및 이를 85% 이상 함유한 혼합물", "85%이상"},
		{"1% 이상 함유한 혼합물", "1%이상"},
		{"25% 미만", "25%미만"},
		{"0.5 % 초과", "0.5%초과"},
		{"단순 85% 함유", "85%"},
		{"함량 표시 없음", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPercent(tt.text))
		})
	}
}

func TestKECO_ClassificationFlags(t *testing.T) {
	raw := &chem.RawRecord{}
	raw.Append(SectionKECOClassification, "유독물질", "톨루엔 및 이를 85% 이상 함유한 혼합물")
	raw.Append(SectionKECOClassification, "사고대비물질", "")
	raw.Append(SectionKECOClassification, "기존화학물질", "")

	rec := NewKECOExtractor().Extract(raw)
	assert.Equal(t, "O(85%이상)", rec.ToxicSubstance)
	assert.Equal(t, "O", rec.AccidentPrecaution)
	assert.Equal(t, "O", rec.ExistingChemical)
	assert.Equal(t, chem.Unknown, rec.RestrictedSubstance)
	assert.Equal(t, chem.Unknown, rec.ProhibitedSubstance)
}

func TestKECO_ExactLabelMatching(t *testing.T) {
	// 등록대상기존화학물질 must not also set 기존화학물질.
	raw := &chem.RawRecord{}
	raw.Append(SectionKECOClassification, "등록대상기존화학물질", "")

	rec := NewKECOExtractor().Extract(raw)
	assert.Equal(t, "O", rec.RegisteredExisting)
	assert.Equal(t, chem.Unknown, rec.ExistingChemical)
}

func TestKECO_ContentRegulationSummary(t *testing.T) {
	raw := &chem.RawRecord{}
	raw.Append(SectionKECOClassification, "유독물질", "85% 이상")
	raw.Append(SectionKECODetail, "유독물질 함량정보", "톨루엔 및 이를 85% 이상 함유한 혼합물")
	raw.Append(SectionKECODetail, "사고대비물질 함량정보", "85% 이상 함유한 혼합물")
	raw.Append(SectionKECODetail, "유독물질 예외정보", "제외: 25% 미만")
	raw.Append(SectionKECODetail, "제한물질 함량정보", "세 번째 항목은 버려진다")

	rec := NewKECOExtractor().Extract(raw)
	assert.Equal(t,
		"유독물질 함량정보: 톨루엔 및 이를 85% 이상 함유한 혼합물; 사고대비물질 함량정보: 85% 이상 함유한 혼합물",
		rec.ContentRegulation)
}

func TestKECO_NoEntries(t *testing.T) {
	rec := NewKECOExtractor().Extract(&chem.RawRecord{})
	assert.Equal(t, chem.Unknown, rec.ToxicSubstance)
	assert.Equal(t, chem.Unknown, rec.ContentRegulation)
}

func TestKECO_MassProducedGoesToDetails(t *testing.T) {
	raw := &chem.RawRecord{}
	raw.Append(SectionKECOClassification, "대량생산화학물질", "")

	rec := NewKECOExtractor().Extract(raw)
	assert.Equal(t, "O", rec.Details["mass_produced"])
}
