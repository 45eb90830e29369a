package extraction

import (
	"regexp"
	"strings"
)

// Exposure-limit patterns over 노출기준 details, e.g.
// "TWA: 50ppm, STEL: 100ppm". The bare concentration fallback only fires
// while TWA is still unknown.
var (
	twaRe     = regexp.MustCompile(`(?i)TWA[:\s]*([^,;\n]+)`)
	stelRe    = regexp.MustCompile(`(?i)STEL[:\s]*([^,;\n]+)`)
	ceilingRe = regexp.MustCompile(`(?i)ceiling[:\s]*([^,;\n]+)`)
	concRe    = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?\s*(?:ppm|mg/m3|mg/㎥))`)
)

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// iarcCarcinogen maps an IARC listing to the ledger's carcinogen rendering.
func iarcCarcinogen(value string) string {
	v := stripSpaces(value)
	switch {
	case strings.Contains(v, "2A"):
		return "2A군(추정)"
	case strings.Contains(v, "2B"):
		return "2B군(가능)"
	case strings.Contains(v, "1"):
		return "1군(확인)"
	}
	return truncateRunes(value, 20)
}

// ghsCarcinogen maps a GHS 발암성 classification to a group rendering.
func ghsCarcinogen(value string) string {
	v := stripSpaces(value)
	switch {
	case strings.Contains(v, "구분1"), strings.Contains(v, "1A"), strings.Contains(v, "1B"):
		return "1군"
	case strings.Contains(v, "구분2"):
		return "2군"
	}
	return truncateRunes(value, 20)
}

// ghsBinary renders mutagenicity and reproductive-toxicity classifications:
// category 1 confirmed, category 2 suspected.
func ghsBinary(value string) string {
	v := stripSpaces(value)
	switch {
	case strings.Contains(v, "구분1"):
		return "O"
	case strings.Contains(v, "구분2"):
		return "△"
	}
	return truncateRunes(value, 20)
}

// koshaRules is the declarative field table for KOSHA MSDS sections.
var koshaRules = []Rule{
	// Exposure limits (section 8).
	{Kind: Regex, Field: "exposure_twa", Section: SectionKOSHAExposure,
		LabelAny: []string{"국내", "노출기준", "고용노동부"},
		Pattern:  twaRe, Fallback: concRe, MaxRunes: 50},
	{Kind: Regex, Field: "exposure_stel", Section: SectionKOSHAExposure,
		LabelAny: []string{"국내", "노출기준", "고용노동부"},
		Pattern:  stelRe, MaxRunes: 50},
	{Kind: Regex, Field: "exposure_ceiling", Section: SectionKOSHAExposure,
		LabelAny: []string{"국내", "노출기준", "고용노동부"},
		Pattern:  ceilingRe, MaxRunes: 50},

	// Occupational-safety law flags (section 15).
	{Kind: Flag, Field: "work_env_monitoring", Section: SectionKOSHALegal,
		LabelAny: []string{"산업안전보건법", "산안법"},
		ValueAny: []string{"작업환경측정", "측정대상"}},
	{Kind: Flag, Field: "special_health_exam", Section: SectionKOSHALegal,
		LabelAny: []string{"산업안전보건법", "산안법"},
		ValueAny: []string{"특수건강진단", "건강진단"}},
	{Kind: Flag, Field: "controlled_substance", Section: SectionKOSHALegal,
		LabelAny: []string{"산업안전보건법", "산안법"},
		ValueAny: []string{"관리대상"}},
	{Kind: Flag, Field: "special_control", Section: SectionKOSHALegal,
		LabelAny: []string{"산업안전보건법", "산안법"},
		ValueAny: []string{"특별관리"}},
	{Kind: Flag, Field: "exposure_standard", Section: SectionKOSHALegal,
		LabelAny: []string{"산업안전보건법", "산안법"},
		ValueAny: []string{"허용기준"}},
	{Kind: Flag, Field: "process_safety", Section: SectionKOSHALegal,
		LabelAny: []string{"산업안전보건법", "산안법"},
		ValueAny: []string{"PSM", "공정안전"}},

	// Chemical-control law captures (section 15).
	{Kind: TakeValue, Field: "toxic_substance", Section: SectionKOSHALegal,
		LabelAny: []string{"화관법", "유해화학물질"},
		ValueAny: []string{"유독"}, MaxRunes: 50},
	{Kind: TakeValue, Field: "permitted_substance", Section: SectionKOSHALegal,
		LabelAny: []string{"화관법", "유해화학물질"},
		ValueAny: []string{"허가"}, MaxRunes: 50},
	{Kind: TakeValue, Field: "restricted_substance", Section: SectionKOSHALegal,
		LabelAny: []string{"화관법", "유해화학물질"},
		ValueAny: []string{"제한"}, MaxRunes: 50},
	{Kind: TakeValue, Field: "prohibited_substance", Section: SectionKOSHALegal,
		LabelAny: []string{"화관법", "유해화학물질"},
		ValueAny: []string{"금지"}, MaxRunes: 50},
	{Kind: TakeValue, Field: "accident_precaution", Section: SectionKOSHALegal,
		LabelAny: []string{"화관법", "유해화학물질"},
		ValueAny: []string{"사고대비"}, MaxRunes: 50},

	// Hazardous-materials safety law (section 15).
	{Kind: Hazmat, Section: SectionKOSHALegal, LabelAny: []string{"위험물"}},

	// Waste-management law (section 15).
	{Kind: TakeValue, DetailKey: "designated_waste", Section: SectionKOSHALegal,
		LabelAny: []string{"폐기물"}, MaxRunes: 50},

	// Toxicity (section 11). IARC listings and GHS classifications both feed
	// the carcinogen column; whichever entry the registry emits first wins.
	{Kind: TakeValue, Field: "carcinogen", Section: SectionKOSHAToxicity,
		LabelAny: []string{"IARC", "iarc"}, Render: iarcCarcinogen},
	{Kind: TakeValue, Field: "carcinogen", Section: SectionKOSHAToxicity,
		LabelAny: []string{"발암성"}, Render: ghsCarcinogen},
	{Kind: TakeValue, Field: "mutagen", Section: SectionKOSHAToxicity,
		LabelAny: []string{"변이원성", "변이", "돌연변이"}, Render: ghsBinary},
	{Kind: TakeValue, Field: "reproductive_toxin", Section: SectionKOSHAToxicity,
		LabelAny: []string{"생식독성"}, Render: ghsBinary},
	{Kind: TakeValue, DetailKey: "acgih", Section: SectionKOSHAToxicity,
		LabelAny: []string{"ACGIH", "acgih"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "ntp", Section: SectionKOSHAToxicity,
		LabelAny: []string{"NTP", "ntp"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "acute_oral_toxicity", Section: SectionKOSHAToxicity,
		LabelAny: []string{"급성 경구", "경구독성"}, MaxRunes: 100},
	{Kind: TakeValue, DetailKey: "acute_dermal_toxicity", Section: SectionKOSHAToxicity,
		LabelAny: []string{"급성 경피", "경피독성"}, MaxRunes: 100},
	{Kind: TakeValue, DetailKey: "acute_inhalation_toxicity", Section: SectionKOSHAToxicity,
		LabelAny: []string{"급성 흡입", "흡입독성"}, MaxRunes: 100},

	// GHS hazard communication (section 2).
	{Kind: TakeValue, DetailKey: "ghs_classification", Section: SectionKOSHAHazard,
		LabelAny: []string{"유해·위험성 분류", "유해위험성 분류"}, MaxRunes: 200},
	{Kind: TakeValue, DetailKey: "signal_word", Section: SectionKOSHAHazard,
		LabelAny: []string{"신호어"}, MaxRunes: 20},
	{Kind: TakeValue, DetailKey: "hazard_statements", Section: SectionKOSHAHazard,
		LabelAny: []string{"유해·위험 문구", "H문구"}, MaxRunes: 200},
	{Kind: TakeValue, DetailKey: "precautionary_statements", Section: SectionKOSHAHazard,
		LabelAny: []string{"예방조치문구", "P문구"}, MaxRunes: 200},
	{Kind: TakeValue, DetailKey: "pictograms", Section: SectionKOSHAHazard,
		LabelAny: []string{"그림문자"}, MaxRunes: 100},

	// Physical properties (section 9).
	{Kind: TakeValue, DetailKey: "appearance", Section: SectionKOSHAPhysical,
		LabelAny: []string{"외관", "성상"}, MaxRunes: 50},
	{Kind: TakeValue, DetailKey: "odor", Section: SectionKOSHAPhysical,
		LabelAny: []string{"냄새"}, MaxRunes: 50},
	{Kind: TakeValue, DetailKey: "melting_point", Section: SectionKOSHAPhysical,
		LabelAny: []string{"녹는점", "융점"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "boiling_point", Section: SectionKOSHAPhysical,
		LabelAny: []string{"끓는점", "비점"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "flash_point", Section: SectionKOSHAPhysical,
		LabelAny: []string{"인화점"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "explosion_limit", Section: SectionKOSHAPhysical,
		LabelAny: []string{"폭발"}, MaxRunes: 50},
	{Kind: TakeValue, DetailKey: "vapor_pressure", Section: SectionKOSHAPhysical,
		LabelAny: []string{"증기압"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "specific_gravity", Section: SectionKOSHAPhysical,
		LabelAny: []string{"비중", "밀도"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "solubility", Section: SectionKOSHAPhysical,
		LabelAny: []string{"용해"}, MaxRunes: 50},
	{Kind: TakeValue, DetailKey: "autoignition_point", Section: SectionKOSHAPhysical,
		LabelAny: []string{"자연발화"}, MaxRunes: 30},
	{Kind: TakeValue, DetailKey: "molecular_weight", Section: SectionKOSHAPhysical,
		LabelAny: []string{"분자량"}, MaxRunes: 30},

	// Ecological information (section 12).
	{Kind: TakeValue, DetailKey: "aquatic_toxicity", Section: SectionKOSHAEcology,
		LabelAny: []string{"수생"}, MaxRunes: 100},
	{Kind: TakeValue, DetailKey: "fish_toxicity", Section: SectionKOSHAEcology,
		LabelAny: []string{"어류"}, MaxRunes: 100},
	{Kind: TakeValue, DetailKey: "persistence", Section: SectionKOSHAEcology,
		LabelAny: []string{"잔류"}, MaxRunes: 100},
	{Kind: TakeValue, DetailKey: "degradability", Section: SectionKOSHAEcology,
		LabelAny: []string{"분해"}, MaxRunes: 100},
	{Kind: TakeValue, DetailKey: "bioaccumulation", Section: SectionKOSHAEcology,
		LabelAny: []string{"생물농축"}, MaxRunes: 100},
}

// NewKOSHAExtractor returns the extractor for KOSHA MSDS raw records.
func NewKOSHAExtractor() *Extractor {
	return New(koshaRules)
}
