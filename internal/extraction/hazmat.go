package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Hazardous-materials details arrive as free text like
// "제4류 인화성액체 제1석유류, 지정수량 400ℓ, 위험등급 II".

var (
	hazmatClassRe = regexp.MustCompile(`제\s*([1-6])\s*류(\s*[^\s,;:()]+)?`)
	hazmatQtyRe   = regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]+)?)\s*(L|ℓ|리터|kg|㎏|킬로그램)`)
	hazmatGradeRe = regexp.MustCompile(`(?:위험등급|등급)\s*[:：]?\s*(Ⅰ|Ⅱ|Ⅲ|I{1,3}|[1-3])`)
)

// foldUnit collapses the unit spellings the registry mixes freely.
func foldUnit(unit string) string {
	switch unit {
	case "L", "ℓ", "리터":
		return "L"
	case "kg", "㎏", "킬로그램":
		return "kg"
	}
	return unit
}

func foldGrade(g string) string {
	switch g {
	case "Ⅰ", "I", "1":
		return "I"
	case "Ⅱ", "II", "2":
		return "II"
	case "Ⅲ", "III", "3":
		return "III"
	}
	return g
}

// gradeFromQuantity infers a three-level grade from designated-quantity
// bands. Only consulted when no explicit grade is stated; it must never
// override one.
func gradeFromQuantity(qty float64) string {
	switch {
	case qty <= 50:
		return "I"
	case qty <= 500:
		return "II"
	default:
		return "III"
	}
}

// applyHazmat parses one hazardous-materials detail into the three hazmat
// fields. Each field keeps its first extracted value.
func applyHazmat(value string, rec *chem.ComplianceRecord) {
	if chem.IsUnknown(rec.HazmatClass) {
		if m := hazmatClassRe.FindStringSubmatch(value); m != nil {
			class := "제" + m[1] + "류"
			if name := strings.TrimSpace(m[2]); name != "" {
				class += " " + name
			}
			rec.HazmatClass = truncateRunes(class, 50)
		} else {
			rec.HazmatClass = truncateRunes(value, 50)
		}
	}

	var qty float64
	var haveQty bool
	if m := hazmatQtyRe.FindStringSubmatch(value); m != nil {
		number := strings.ReplaceAll(m[1], ",", "")
		if f, err := strconv.ParseFloat(number, 64); err == nil {
			qty, haveQty = f, true
		}
		if chem.IsUnknown(rec.HazmatQuantity) {
			rec.HazmatQuantity = number + foldUnit(m[2])
		}
	}

	if chem.IsUnknown(rec.HazmatGrade) {
		if m := hazmatGradeRe.FindStringSubmatch(value); m != nil {
			rec.HazmatGrade = foldGrade(m[1])
		} else if haveQty {
			rec.HazmatGrade = gradeFromQuantity(qty)
		}
	}
}
