package workflow

import (
	"html"
	"strings"

	"HereToHelp/internal/lib/validate"
)

// Predicate reports whether a sanitized value satisfies a rule.
type Predicate struct {
	Name string
	// Tag is a go-playground/validator tag evaluated against the value.
	Tag string
}

var (
	Required   = Predicate{Name: "required", Tag: "required"}
	Numeric    = Predicate{Name: "numeric", Tag: "numeric"}
	Email      = Predicate{Name: "email", Tag: "email"}
	PostcodeGB = Predicate{Name: "postcode", Tag: "postcode_iso3166_alpha2=GB"}
)

func (p Predicate) check(values []string) bool {
	if p.Tag == "required" {
		for _, v := range values {
			if v != "" {
				return true
			}
		}
		return false
	}
	for _, v := range values {
		if err := validate.Var(v, p.Tag); err != nil {
			return false
		}
	}
	return true
}

// Sanitizer pre-processes a raw value before the predicate runs.
type Sanitizer func(string) string

var (
	Trim   Sanitizer = strings.TrimSpace
	// Escape stores HTML entities in the record itself, so the submitted
	// payload carries the escaped text (O'Brien is sent as O&#39;Brien).
	// Later round-trips decode without sanitizing and never escape twice.
	Escape Sanitizer = html.EscapeString
	Upper  Sanitizer = strings.ToUpper
)

// FieldRule validates one field. Several rules may target the same field.
type FieldRule struct {
	Field   string
	Message string
	Check   Predicate
	Prepare []Sanitizer
	// DependsOn names a field that must be non-empty for the rule to run.
	DependsOn string
}

// Rule starts a rule for a field with its human-readable message.
func Rule(field, message string, check Predicate, prepare ...Sanitizer) FieldRule {
	return FieldRule{
		Field:   field,
		Message: message,
		Check:   check,
		Prepare: prepare,
	}
}

// When makes the rule conditional on another field being supplied.
func (r FieldRule) When(field string) FieldRule {
	r.DependsOn = field
	return r
}

func (r FieldRule) sanitize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, fn := range r.Prepare {
			v = fn(v)
		}
		out = append(out, v)
	}
	return out
}
