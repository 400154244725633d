package workflow

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Mapping rule kinds.
const (
	MapText         = "text"
	MapOnBehalfText = "on_behalf_text"
	MapFlag         = "flag"
	MapEquals       = "equals"
	MapContains     = "contains"
	MapConst        = "const"
	MapJoin         = "join"
	MapTimestamp    = "timestamp"
)

// MappingRule produces one output field of the final submission.
type MappingRule struct {
	Name    string   `yaml:"name"`
	Rule    string   `yaml:"rule"`
	Source  string   `yaml:"source,omitempty"`
	Sources []string `yaml:"sources,omitempty"`
	Value   any      `yaml:"value,omitempty"`
}

// Mapping is the table that turns a record into the external wire schema.
type Mapping struct {
	// OnBehalf is the record field telling whether someone asks for another person.
	OnBehalf    string `yaml:"on_behalf"`
	NotifyEmail struct {
		OnBehalf string `yaml:"on_behalf"`
		Self     string `yaml:"self"`
	} `yaml:"notify_email"`
	FirstName string        `yaml:"first_name"`
	Fields    []MappingRule `yaml:"fields"`

	Now func() time.Time `yaml:"-"`
}

// ParseMapping decodes a yaml mapping table and checks it covers schema exactly.
func ParseMapping(data []byte, schema []string) (*Mapping, error) {
	var m Mapping
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if err := m.Check(schema); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadMapping reads the mapping table from a file.
func LoadMapping(path string, schema []string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return ParseMapping(data, schema)
}

// Check verifies every rule is well formed and the output names match schema.
func (m *Mapping) Check(schema []string) error {
	names := make(map[string]bool, len(m.Fields))
	for _, f := range m.Fields {
		if f.Name == "" {
			return fmt.Errorf("mapping rule without name")
		}
		if names[f.Name] {
			return fmt.Errorf("mapping field %q declared twice", f.Name)
		}
		names[f.Name] = true

		switch f.Rule {
		case MapText, MapJoin, MapFlag:
			if len(f.sources()) == 0 {
				return fmt.Errorf("mapping field %q: %s needs a source", f.Name, f.Rule)
			}
		case MapOnBehalfText:
			if len(f.sources()) == 0 {
				return fmt.Errorf("mapping field %q: %s needs a source", f.Name, f.Rule)
			}
			if m.OnBehalf == "" {
				return fmt.Errorf("mapping field %q: on_behalf field not configured", f.Name)
			}
		case MapEquals, MapContains:
			if f.Source == "" {
				return fmt.Errorf("mapping field %q: %s needs a source", f.Name, f.Rule)
			}
			if _, ok := f.Value.(string); !ok {
				return fmt.Errorf("mapping field %q: %s needs a string value", f.Name, f.Rule)
			}
		case MapConst:
			switch f.Value.(type) {
			case bool, string, int:
			default:
				return fmt.Errorf("mapping field %q: const needs a bool, string or int value", f.Name)
			}
		case MapTimestamp:
		default:
			return fmt.Errorf("mapping field %q: unknown rule %q", f.Name, f.Rule)
		}
	}

	var missing []string
	for _, s := range schema {
		if !names[s] {
			missing = append(missing, s)
		}
		delete(names, s)
	}
	if len(missing) > 0 {
		return fmt.Errorf("mapping does not cover fields: %s", strings.Join(missing, ", "))
	}
	if len(schema) > 0 && len(names) > 0 {
		extra := make([]string, 0, len(names))
		for n := range names {
			extra = append(extra, n)
		}
		return fmt.Errorf("mapping declares unknown fields: %s", strings.Join(extra, ", "))
	}
	return nil
}

func (f MappingRule) sources() []string {
	if f.Source != "" {
		return append([]string{f.Source}, f.Sources...)
	}
	return f.Sources
}

// Apply evaluates a single rule; exported so each rule can be tested alone.
func (m *Mapping) Apply(f MappingRule, record Record, now time.Time) any {
	switch f.Rule {
	case MapText:
		return firstText(record, f.sources())
	case MapOnBehalfText:
		if !record.GetBool(m.OnBehalf) {
			return ""
		}
		return firstText(record, f.sources())
	case MapFlag:
		return record.GetBool(f.sources()[0])
	case MapEquals:
		return record.GetString(f.Source) == f.Value.(string)
	case MapContains:
		return record.Contains(f.Source, f.Value.(string))
	case MapConst:
		return f.Value
	case MapJoin:
		return strings.Join(record.GetList(f.sources()[0]), ", ")
	case MapTimestamp:
		return now
	}
	return nil
}

// ToFinalSubmission builds the external payload from the accumulated record.
// Absent fields fall back to the rule defaults.
func (m *Mapping) ToFinalSubmission(record Record) FinalSubmission {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	ts := now().UTC()

	payload := Payload{}
	for _, f := range m.Fields {
		payload = append(payload, PayloadField{Key: f.Name, Value: m.Apply(f, record, ts)})
	}

	return FinalSubmission{
		Reference:   uuid.NewString(),
		Payload:     payload,
		NotifyEmail: m.NotifyAddress(record),
		FirstName:   record.GetString(m.FirstName),
		CreatedAt:   ts,
	}
}

// NotifyAddress picks the confirmation email: the on-behalf email when the
// request is on behalf of someone, then the resident's own, else "".
func (m *Mapping) NotifyAddress(record Record) string {
	if record.GetBool(m.OnBehalf) {
		if email := strings.TrimSpace(record.GetString(m.NotifyEmail.OnBehalf)); email != "" {
			return email
		}
	}
	return strings.TrimSpace(record.GetString(m.NotifyEmail.Self))
}

func firstText(record Record, sources []string) string {
	for _, s := range sources {
		if v := record.GetString(s); v != "" {
			return v
		}
	}
	return ""
}

// FinalSubmission is the mapper output sent to the case-management API.
type FinalSubmission struct {
	Reference   string
	Payload     Payload
	NotifyEmail string
	FirstName   string
	CreatedAt   time.Time
}

// PayloadField is one key of the wire document.
type PayloadField struct {
	Key   string
	Value any
}

// Payload is a JSON object that keeps the mapping table's field order.
type Payload []PayloadField

// Get returns the value of a key, nil when absent.
func (p Payload) Get(key string) any {
	for _, f := range p {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
