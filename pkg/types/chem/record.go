package chem

import "strings"

// Canonical field markers. The registries do not reliably distinguish
// "checked, not applicable" from "not checked", so Unknown is a first-class
// value and is never coerced to NotApplicable.
const (
	// Unknown marks a field for which no data was obtained.
	Unknown = "-"
	// Applicable marks a confirmed positive regulatory flag.
	Applicable = "O"
	// NotApplicable marks a confirmed negative.
	NotApplicable = "X"
	// Partial marks a weaker classification (GHS category 2 findings).
	Partial = "△"
)

// IsUnknown reports whether v is the unknown sentinel or empty.
func IsUnknown(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == Unknown
}

// RawEntry is one label/value pair from a registry reply. Section records
// which endpoint of the registry family produced the entry; labels are only
// meaningful within their section.
type RawEntry struct {
	Section string `json:"section,omitempty"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// RawRecord is the opaque, ordered label→text mapping returned by one
// registry for one CAS number. It preserves insertion order so that the
// first-match-wins extraction policy is reproducible. Ephemeral: fetched per
// query, never persisted.
type RawRecord struct {
	Entries []RawEntry `json:"entries"`
}

// Append adds one entry, preserving order.
func (r *RawRecord) Append(section, label, value string) {
	r.Entries = append(r.Entries, RawEntry{Section: section, Label: label, Value: value})
}

// Len returns the number of entries.
func (r *RawRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

// First returns the value of the first entry whose label contains fragment,
// optionally restricted to a section (empty section matches all). The second
// return is false when no entry matches.
func (r *RawRecord) First(section, fragment string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, e := range r.Entries {
		if section != "" && e.Section != section {
			continue
		}
		if strings.Contains(e.Label, fragment) {
			return e.Value, true
		}
	}
	return "", false
}

// ComplianceRecord is the normalized compliance payload for one chemical.
// Every field defaults to Unknown; string-typed throughout because values mix
// flags ("O"), annotated flags ("O(85%이상)"), and free text lifted from the
// registries.
type ComplianceRecord struct {
	// Toxicity
	Carcinogen        string `json:"carcinogen"`
	Mutagen           string `json:"mutagen"`
	ReproductiveToxin string `json:"reproductive_toxin"`
	ExposureTWA       string `json:"exposure_twa"`
	ExposureSTEL      string `json:"exposure_stel,omitempty"`
	ExposureCeiling   string `json:"exposure_ceiling,omitempty"`

	// Occupational-safety law flags
	WorkEnvMonitoring   string `json:"work_env_monitoring"`
	SpecialHealthExam   string `json:"special_health_exam"`
	ControlledSubstance string `json:"controlled_substance"`
	SpecialControl      string `json:"special_control"`
	ExposureStandard    string `json:"exposure_standard"`
	ProcessSafety       string `json:"process_safety"`

	// Hazardous-materials classification
	HazmatClass    string `json:"hazmat_class"`
	HazmatQuantity string `json:"hazmat_quantity"`
	HazmatGrade    string `json:"hazmat_grade"`

	// Environmental law flags
	ExistingChemical    string `json:"existing_chemical"`
	ToxicSubstance      string `json:"toxic_substance"`
	PermittedSubstance  string `json:"permitted_substance"`
	RestrictedSubstance string `json:"restricted_substance"`
	ProhibitedSubstance string `json:"prohibited_substance"`
	AccidentPrecaution  string `json:"accident_precaution"`
	PriorityControl     string `json:"priority_control"`
	RegisteredExisting  string `json:"registered_existing"`
	ContentRegulation   string `json:"content_regulation"`

	// PRTR
	PRTRApplicable string `json:"prtr_applicable"`
	PRTRGroup      string `json:"prtr_group"`
	PRTRThreshold  string `json:"prtr_threshold"`

	// Details carries supplementary extracted sections (GHS classification,
	// signal word, physical properties, ...) that do not map to ledger
	// columns. Keys are section-qualified field names.
	Details map[string]string `json:"details,omitempty"`
}

// NewComplianceRecord returns a record with every field set to Unknown.
func NewComplianceRecord() ComplianceRecord {
	r := ComplianceRecord{Details: map[string]string{}}
	for _, p := range r.fieldPtrs() {
		*p.ptr = Unknown
	}
	return r
}

// fieldPtr pairs a stable field name with the address of the field.
type fieldPtr struct {
	name string
	ptr  *string
}

// fieldPtrs enumerates the mergeable flat fields in ledger order. The merger
// and the ledger renderer both iterate this list so that column order and
// merge coverage cannot drift apart.
func (r *ComplianceRecord) fieldPtrs() []fieldPtr {
	return []fieldPtr{
		{"carcinogen", &r.Carcinogen},
		{"mutagen", &r.Mutagen},
		{"reproductive_toxin", &r.ReproductiveToxin},
		{"exposure_twa", &r.ExposureTWA},
		{"exposure_stel", &r.ExposureSTEL},
		{"exposure_ceiling", &r.ExposureCeiling},
		{"work_env_monitoring", &r.WorkEnvMonitoring},
		{"special_health_exam", &r.SpecialHealthExam},
		{"controlled_substance", &r.ControlledSubstance},
		{"special_control", &r.SpecialControl},
		{"exposure_standard", &r.ExposureStandard},
		{"process_safety", &r.ProcessSafety},
		{"hazmat_class", &r.HazmatClass},
		{"hazmat_quantity", &r.HazmatQuantity},
		{"hazmat_grade", &r.HazmatGrade},
		{"existing_chemical", &r.ExistingChemical},
		{"toxic_substance", &r.ToxicSubstance},
		{"permitted_substance", &r.PermittedSubstance},
		{"restricted_substance", &r.RestrictedSubstance},
		{"prohibited_substance", &r.ProhibitedSubstance},
		{"accident_precaution", &r.AccidentPrecaution},
		{"priority_control", &r.PriorityControl},
		{"registered_existing", &r.RegisteredExisting},
		{"content_regulation", &r.ContentRegulation},
		{"prtr_applicable", &r.PRTRApplicable},
		{"prtr_group", &r.PRTRGroup},
		{"prtr_threshold", &r.PRTRThreshold},
	}
}

// FieldNames returns the flat field names in ledger order.
func (r *ComplianceRecord) FieldNames() []string {
	ptrs := r.fieldPtrs()
	names := make([]string, len(ptrs))
	for i, p := range ptrs {
		names[i] = p.name
	}
	return names
}

// Field returns the value of the named flat field, or Unknown if the name is
// not part of the flat schema.
func (r *ComplianceRecord) Field(name string) string {
	for _, p := range r.fieldPtrs() {
		if p.name == name {
			return *p.ptr
		}
	}
	return Unknown
}

// SetField sets the named flat field. Unrecognized names are ignored.
func (r *ComplianceRecord) SetField(name, value string) {
	for _, p := range r.fieldPtrs() {
		if p.name == name {
			*p.ptr = value
			return
		}
	}
}

// MergeFrom copies every non-unknown field of src into r where r's value is
// still Unknown. First non-unknown value wins: an explicit value already in r
// is never overwritten, even by a conflicting explicit value in src.
func (r *ComplianceRecord) MergeFrom(src *ComplianceRecord) {
	if src == nil {
		return
	}
	dstPtrs := r.fieldPtrs()
	srcPtrs := src.fieldPtrs()
	for i := range dstPtrs {
		if IsUnknown(*dstPtrs[i].ptr) && !IsUnknown(*srcPtrs[i].ptr) {
			*dstPtrs[i].ptr = *srcPtrs[i].ptr
		}
	}
	for k, v := range src.Details {
		if r.Details == nil {
			r.Details = map[string]string{}
		}
		if _, ok := r.Details[k]; !ok {
			r.Details[k] = v
		}
	}
}

// IsHazardous reports whether any regulatory flag is confirmed positive.
// Used for the batch "hazardous" count.
func (r *ComplianceRecord) IsHazardous() bool {
	for _, p := range r.fieldPtrs() {
		switch p.name {
		case "existing_chemical", "exposure_twa", "exposure_stel", "exposure_ceiling",
			"prtr_group", "prtr_threshold", "hazmat_quantity", "hazmat_grade":
			continue
		}
		if v := *p.ptr; !IsUnknown(v) && v != NotApplicable {
			return true
		}
	}
	return false
}
