package extraction

import (
	"regexp"
	"strings"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Content-percentage patterns, e.g. "톨루엔 및 이를 85% 이상 함유한 혼합물".
// The qualified form is preferred; a bare percentage is the fallback.
var (
	percentQualRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%\s*(이상|이하|초과|미만)`)
	percentBareRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%`)
)

// ExtractPercent lifts a content percentage out of free text, rendered as
// "85%이상" or "85%". Empty when no percentage is present.
func ExtractPercent(text string) string {
	if m := percentQualRe.FindStringSubmatch(text); m != nil {
		return m[1] + "%" + m[2]
	}
	if m := percentBareRe.FindStringSubmatch(text); m != nil {
		return m[1] + "%"
	}
	return ""
}

// percentFlag renders a classification presence as "O", annotated with the
// content percentage when one is stated: "O(85%이상)".
func percentFlag(value string) string {
	if p := ExtractPercent(value); p != "" {
		return chem.Applicable + "(" + p + ")"
	}
	return chem.Applicable
}

// kecoRules maps the nine KECO substance classifications onto the canonical
// record. Classification entries carry the category name as label and the
// content clause as value; labels match exactly so that 기존화학물질 does not
// swallow 등록대상기존화학물질.
var kecoRules = []Rule{
	{Kind: Presence, Field: "toxic_substance", Section: SectionKECOClassification,
		LabelAny: []string{"유독물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, Field: "restricted_substance", Section: SectionKECOClassification,
		LabelAny: []string{"제한물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, Field: "prohibited_substance", Section: SectionKECOClassification,
		LabelAny: []string{"금지물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, Field: "permitted_substance", Section: SectionKECOClassification,
		LabelAny: []string{"허가물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, Field: "accident_precaution", Section: SectionKECOClassification,
		LabelAny: []string{"사고대비물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, Field: "existing_chemical", Section: SectionKECOClassification,
		LabelAny: []string{"기존화학물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, Field: "registered_existing", Section: SectionKECOClassification,
		LabelAny: []string{"등록대상기존화학물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, Field: "priority_control", Section: SectionKECOClassification,
		LabelAny: []string{"중점관리물질"}, LabelExact: true, Render: percentFlag},
	{Kind: Presence, DetailKey: "mass_produced", Section: SectionKECOClassification,
		LabelAny: []string{"대량생산화학물질"}, LabelExact: true, Render: percentFlag},
}

// contentRegulationSummary joins the first two content-information details
// ("유독물질 함량정보: ...") into the ledger's 함량 및 규제정보 column.
func contentRegulationSummary(raw *chem.RawRecord, rec *chem.ComplianceRecord) {
	if raw == nil || !chem.IsUnknown(rec.ContentRegulation) {
		return
	}
	var parts []string
	for _, e := range raw.Entries {
		if e.Section != SectionKECODetail {
			continue
		}
		label := Normalize(e.Label)
		value := Normalize(e.Value)
		if !strings.Contains(label, "함량") || IsSentinel(value) {
			continue
		}
		parts = append(parts, label+": "+value)
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) > 0 {
		rec.ContentRegulation = strings.Join(parts, "; ")
	}
}

// NewKECOExtractor returns the extractor for KECO raw records.
func NewKECOExtractor() *Extractor {
	return New(kecoRules, contentRegulationSummary)
}
