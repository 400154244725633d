package workflow

import (
	"net/url"
	"strings"
)

// ValidationResult holds every violated message per field and the sanitized
// values of the step's own fields.
type ValidationResult struct {
	Errors map[string][]string
	Values url.Values
}

// Valid reports whether no rule failed.
func (v ValidationResult) Valid() bool {
	return len(v.Errors) == 0
}

// Fields lists the fields with errors in rule order.
func (v ValidationResult) Fields(step *Step) []string {
	var fields []string
	seen := make(map[string]bool)
	for _, r := range step.Rules {
		if _, ok := v.Errors[r.Field]; ok && !seen[r.Field] {
			seen[r.Field] = true
			fields = append(fields, r.Field)
		}
	}
	return fields
}

// Validate applies every rule of the step to the raw answers. Rules are not
// short-circuited, so a field can collect several messages.
func Validate(step *Step, raw url.Values) ValidationResult {
	result := ValidationResult{
		Errors: make(map[string][]string),
		Values: make(url.Values),
	}

	for _, f := range step.Fields {
		if vs, ok := raw[f.Name]; ok {
			result.Values[f.Name] = append([]string(nil), vs...)
		}
	}

	sanitized := make(map[string]bool)
	for _, rule := range step.Rules {
		values := rule.sanitize(raw[rule.Field])

		// the first rule of a field decides the stored representation
		if !sanitized[rule.Field] && len(values) > 0 {
			result.Values[rule.Field] = values
		}
		sanitized[rule.Field] = true

		if rule.DependsOn != "" && strings.TrimSpace(raw.Get(rule.DependsOn)) == "" {
			continue
		}
		if !rule.Check.check(values) {
			result.Errors[rule.Field] = append(result.Errors[rule.Field], rule.Message)
		}
	}

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result
}
