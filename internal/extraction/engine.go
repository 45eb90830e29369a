// Package extraction turns raw registry replies into canonical compliance
// records. A single rule engine is driven by per-registry declarative tables,
// so new label variants are added as data, not code.
package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// Section names attached to RawRecord entries by the registry clients.
// Labels are only meaningful within their section.
const (
	SectionKOSHAList     = "chemlist"
	SectionKOSHAHazard   = "chemdetail02"
	SectionKOSHAExposure = "chemdetail08"
	SectionKOSHAPhysical = "chemdetail09"
	SectionKOSHAToxicity = "chemdetail11"
	SectionKOSHAEcology  = "chemdetail12"
	SectionKOSHALegal    = "chemdetail15"

	SectionKECOClassification = "classification"
	SectionKECODetail         = "detail"
)

// noDataSentinels are the source-language markers for "no data". A value
// equal to one of these is normalized to the unknown marker, never to a
// confirmed negative.
var noDataSentinels = map[string]struct{}{
	"자료없음": {},
	"해당없음": {},
	"-":    {},
	"":     {},
}

// Normalize NFC-normalizes and trims a label or value. Registry payloads mix
// precomposed and decomposed Hangul depending on the upstream editor.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// IsSentinel reports whether the normalized value carries no data.
func IsSentinel(v string) bool {
	_, ok := noDataSentinels[v]
	return ok
}

// Kind selects how a matched rule produces its output value.
type Kind int

const (
	// Flag sets the target to "O" when the value contains a keyword.
	Flag Kind = iota
	// TakeValue stores the (truncated) value text itself.
	TakeValue
	// Regex stores the first capture group of Pattern, falling back to
	// Fallback while the target is still unknown.
	Regex
	// Presence sets the target from the label's existence alone; the value
	// may be empty or a sentinel. Used for KECO classification entries.
	Presence
	// Hazmat parses a hazardous-materials detail into class, designated
	// quantity, and grade in one step.
	Hazmat
)

// Rule is one declarative extraction instruction. Exactly one of Field or
// DetailKey names the target.
type Rule struct {
	Kind      Kind
	Field     string
	DetailKey string

	Section    string
	LabelAny   []string
	LabelExact bool
	ValueAny   []string

	Pattern  *regexp.Regexp
	Fallback *regexp.Regexp
	MaxRunes int

	// Render overrides the default output with a value-derived rendering
	// (percent annotations, toxicity group mapping).
	Render func(value string) string
}

func (r *Rule) labelMatches(label string) bool {
	for _, frag := range r.LabelAny {
		if r.LabelExact {
			if label == frag {
				return true
			}
		} else if strings.Contains(label, frag) {
			return true
		}
	}
	return false
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// PostFunc runs after the rule pass, for composite fields that join multiple
// entries (e.g. the content-regulation summary).
type PostFunc func(raw *chem.RawRecord, rec *chem.ComplianceRecord)

// Extractor applies a rule table to raw records. It holds no mutable state;
// extracting the same record twice yields identical results.
type Extractor struct {
	rules []Rule
	post  []PostFunc
}

// New builds an extractor from a rule table.
func New(rules []Rule, post ...PostFunc) *Extractor {
	return &Extractor{rules: rules, post: post}
}

// Extract produces a canonical compliance record from one raw registry
// record. Entries are processed in insertion order; for every target field
// the first matching entry wins and later entries are ignored.
func (e *Extractor) Extract(raw *chem.RawRecord) chem.ComplianceRecord {
	rec := chem.NewComplianceRecord()
	if raw == nil {
		return rec
	}
	for _, entry := range raw.Entries {
		label := Normalize(entry.Label)
		value := Normalize(entry.Value)
		for i := range e.rules {
			r := &e.rules[i]
			if r.Section != "" && r.Section != entry.Section {
				continue
			}
			if !r.labelMatches(label) {
				continue
			}
			if r.Kind != Presence && IsSentinel(value) {
				continue
			}
			e.apply(r, value, &rec)
		}
	}
	for _, post := range e.post {
		post(raw, &rec)
	}
	return rec
}

func (e *Extractor) apply(r *Rule, value string, rec *chem.ComplianceRecord) {
	if r.Kind == Hazmat {
		applyHazmat(value, rec)
		return
	}

	// First match wins.
	if r.Field != "" {
		if !chem.IsUnknown(rec.Field(r.Field)) {
			return
		}
	} else if r.DetailKey != "" {
		if _, ok := rec.Details[r.DetailKey]; ok {
			return
		}
	}

	var out string
	switch r.Kind {
	case Flag:
		if !containsAny(value, r.ValueAny) {
			return
		}
		out = chem.Applicable
	case TakeValue:
		if len(r.ValueAny) > 0 && !containsAny(value, r.ValueAny) {
			return
		}
		out = truncateRunes(value, r.MaxRunes)
	case Regex:
		if m := r.Pattern.FindStringSubmatch(value); m != nil {
			out = strings.TrimSpace(m[1])
		} else if r.Fallback != nil {
			if m := r.Fallback.FindStringSubmatch(value); m != nil {
				out = strings.TrimSpace(m[1])
			}
		}
		if out == "" {
			return
		}
		out = truncateRunes(out, r.MaxRunes)
	case Presence:
		out = chem.Applicable
	}

	if r.Render != nil {
		out = r.Render(value)
		if out == "" {
			return
		}
	}

	if r.Field != "" {
		rec.SetField(r.Field, out)
		return
	}
	if r.DetailKey != "" {
		if rec.Details == nil {
			rec.Details = map[string]string{}
		}
		rec.Details[r.DetailKey] = out
	}
}
