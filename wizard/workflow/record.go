package workflow

import (
	"net/url"
	"sort"
	"strings"
)

// Record is the accumulated set of typed answers of one journey.
// Values are string, bool or []string.
type Record map[string]any

// Has reports whether the field was set by any step.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// GetString retrieves a string value; lists are joined with ", ".
func (r Record) GetString(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return ""
}

// GetBool retrieves a boolean value, false when absent.
func (r Record) GetBool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		return parseBoolean(v)
	}
	return false
}

// GetList retrieves a multi-select value. A scalar is a one-element set.
func (r Record) GetList(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// Contains reports set membership on a multi-select field.
func (r Record) Contains(key, token string) bool {
	for _, v := range r.GetList(key) {
		if v == token {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy with copied lists.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

// Values encodes the record for the client round-trip (hidden inputs or a
// query string). Keys are emitted in sorted order.
func (r Record) Values(exclude ...string) url.Values {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	out := make(url.Values, len(r))
	for _, k := range r.Keys() {
		if skip[k] {
			continue
		}
		switch v := r[k].(type) {
		case []string:
			out[k] = append([]string(nil), v...)
		default:
			out.Set(k, r.GetString(k))
		}
	}
	return out
}

// Keys returns the field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge folds the validated answers of one step into the previous record.
// Only the step's own fields are written, so earlier answers survive.
func Merge(previous Record, step *Step, validated url.Values) Record {
	next := previous.Clone()
	for _, f := range step.Fields {
		next[f.Name] = coerce(f.Kind, validated[f.Name])
	}
	return next
}

// Decode rebuilds the record carried by the client from the known fields,
// skipping the fields of the step being submitted. Fields not present stay absent.
func Decode(w Workflow, form url.Values, current *Step) Record {
	own := make(map[string]bool)
	if current != nil {
		for _, f := range current.Fields {
			own[f.Name] = true
		}
	}

	record := make(Record)
	for _, step := range w.Steps() {
		for _, f := range step.Fields {
			if own[f.Name] {
				continue
			}
			values, ok := form[f.Name]
			if !ok {
				continue
			}
			record[f.Name] = coerce(f.Kind, values)
		}
	}
	return record
}

func coerce(kind FieldKind, values []string) any {
	switch kind {
	case KindFlag:
		for _, v := range values {
			if v != "" && v != "false" {
				return true
			}
		}
		return false
	case KindBoolean:
		if len(values) == 0 {
			return false
		}
		return parseBoolean(values[0])
	case KindMulti:
		return normalizeList(values)
	default:
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}
}

// normalizeList keeps selection order, dropping blanks and repeats.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func parseBoolean(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "no", "0", "off":
		return false
	}
	return true
}
