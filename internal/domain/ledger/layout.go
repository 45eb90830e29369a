// Package ledger renders the company inventory into the fixed-layout
// regulatory form. The column order and count, and the two-row header, are a
// compatibility contract with downstream spreadsheet consumers and must not
// change.
package ledger

import (
	"strings"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// ColumnCount is the fixed width of the form: seven identity columns plus
// four toxicity, four labor-law, three hazardous-materials, and nine
// environmental-law columns.
const ColumnCount = 27

// Umbrella group headers of row one.
const (
	GroupToxicity      = "독성정보"
	GroupLaborLaw      = "법적규제 대상여부"
	GroupHazmat        = "위험물"
	GroupEnvironmental = "환경부 법적규제 대상여부"
)

// HeaderRows returns the two header rows. Row one carries the identity
// headers and the four umbrella group headers at the first column of their
// span; row two carries the sub-headers.
func HeaderRows() [][]string {
	row1 := make([]string, ColumnCount)
	copy(row1, []string{"공정명", "단위작업장소", "제품명", "화학물질명", "관용명/이명", "CAS No", "함유량(%)"})
	row1[7] = GroupToxicity       // spans H-K
	row1[11] = GroupLaborLaw      // spans L-O
	row1[15] = GroupHazmat        // spans P-R
	row1[18] = GroupEnvironmental // spans S-AA

	row2 := []string{
		"", "", "", "", "", "", "",
		"발암성", "변이성", "생식독성", "노출기준(TWA)",
		"작업환경측정", "특수건강진단", "관리대상유해물질", "특별관리물질",
		"위험물류별", "지정수량", "위험등급",
		"기존", "급성·만성·생태", "사고대비", "제한/금지/허가",
		"중점", "잔류", "함량 및 규제정보", "등록대상기존화학물질", "기존물질여부",
	}
	return [][]string{row1, row2}
}

// orX renders a flag column whose blank state is a confirmed-looking "X" in
// the legacy form rather than the unknown dash.
func orX(v string) string {
	if chem.IsUnknown(v) {
		return chem.NotApplicable
	}
	return v
}

func orDash(v string) string {
	if chem.IsUnknown(v) {
		return chem.Unknown
	}
	return v
}

// restrictionSummary joins the restricted/prohibited/permitted captures into
// the combined 제한/금지/허가 column.
func restrictionSummary(rec *chem.ComplianceRecord) string {
	var parts []string
	if v := rec.RestrictedSubstance; !chem.IsUnknown(v) {
		parts = append(parts, "제한("+v+")")
	}
	if v := rec.ProhibitedSubstance; !chem.IsUnknown(v) {
		parts = append(parts, "금지("+v+")")
	}
	if v := rec.PermittedSubstance; !chem.IsUnknown(v) {
		parts = append(parts, "허가("+v+")")
	}
	if len(parts) == 0 {
		return chem.Unknown
	}
	return strings.Join(parts, ", ")
}

// existingFlag collapses an annotated existing-chemical value into the 기존
// flag column.
func existingFlag(v string) string {
	if chem.IsUnknown(v) {
		return chem.Unknown
	}
	return chem.Applicable
}

// Row renders one inventory row into the fixed column order.
func Row(r *chem.InventoryRow) []string {
	rec := &r.Compliance
	return []string{
		r.ProcessName,
		r.Workplace,
		r.ProductName,
		r.Identity.NameKo,
		r.Alias,
		string(r.Identity.CAS),
		r.ContentPercent,

		orDash(rec.Carcinogen),
		orDash(rec.Mutagen),
		orDash(rec.ReproductiveToxin),
		orDash(rec.ExposureTWA),

		orX(rec.WorkEnvMonitoring),
		orX(rec.SpecialHealthExam),
		orX(rec.ControlledSubstance),
		orX(rec.SpecialControl),

		orDash(rec.HazmatClass),
		orDash(rec.HazmatQuantity),
		orDash(rec.HazmatGrade),

		existingFlag(rec.ExistingChemical),
		orX(rec.ToxicSubstance),
		orX(rec.AccidentPrecaution),
		restrictionSummary(rec),
		orDash(rec.PriorityControl),
		orDash(rec.Details["persistent_pollutant"]),
		orDash(rec.ContentRegulation),
		orDash(rec.RegisteredExisting),
		orDash(rec.ExistingChemical),
	}
}
