package workflow

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_Apply(t *testing.T) {
	m := newTestWorkflow().Mapping()
	now := time.Date(2020, 4, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		rule   MappingRule
		record Record
		want   any
	}{
		{"text first non-empty source", MappingRule{Rule: MapText, Sources: []string{"postcode", "lookup"}}, Record{"postcode": "", "lookup": "E8 1EA"}, "E8 1EA"},
		{"text absent defaults to empty", MappingRule{Rule: MapText, Source: "missing"}, Record{}, ""},
		{"on behalf text when on behalf", MappingRule{Rule: MapOnBehalfText, Source: "their_email"}, Record{"for_someone": true, "their_email": "x@y.com"}, "x@y.com"},
		{"on behalf text dropped otherwise", MappingRule{Rule: MapOnBehalfText, Source: "their_email"}, Record{"for_someone": false, "their_email": "x@y.com"}, ""},
		{"flag", MappingRule{Rule: MapFlag, Source: "agreed"}, Record{"agreed": true}, true},
		{"flag absent", MappingRule{Rule: MapFlag, Source: "agreed"}, Record{}, false},
		{"equals", MappingRule{Rule: MapEquals, Source: "pharmacy", Value: "yes"}, Record{"pharmacy": "yes"}, true},
		{"contains", MappingRule{Rule: MapContains, Source: "needs", Value: "food"}, Record{"needs": []string{"medicine", "food"}}, true},
		{"contains scalar", MappingRule{Rule: MapContains, Source: "needs", Value: "food"}, Record{"needs": "food"}, true},
		{"const false ignores record", MappingRule{Rule: MapConst, Value: false}, Record{"needs": []string{"medicine"}}, false},
		{"join", MappingRule{Rule: MapJoin, Source: "needs"}, Record{"needs": []string{"food", "medicine"}}, "food, medicine"},
		{"join absent", MappingRule{Rule: MapJoin, Source: "needs"}, Record{}, ""},
		{"timestamp", MappingRule{Rule: MapTimestamp}, Record{}, now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Apply(tt.rule, tt.record, now))
		})
	}
}

func TestMapping_NotifyAddress(t *testing.T) {
	m := newTestWorkflow().Mapping()

	assert.Equal(t, "a@b.com", m.NotifyAddress(Record{"for_someone": false, "email": "a@b.com"}))
	assert.Equal(t, "x@y.com", m.NotifyAddress(Record{"for_someone": true, "their_email": "x@y.com", "email": "a@b.com"}))
	assert.Equal(t, "a@b.com", m.NotifyAddress(Record{"for_someone": true, "their_email": " ", "email": "a@b.com"}))
	assert.Equal(t, "", m.NotifyAddress(Record{}))
}

func TestMapping_ToFinalSubmission(t *testing.T) {
	m := newTestWorkflow().Mapping()
	m.Now = func() time.Time { return time.Date(2020, 4, 1, 10, 0, 0, 0, time.UTC) }

	sub := m.ToFinalSubmission(Record{
		"for_someone": false,
		"their_email": "ignored@y.com",
		"email":       "a@b.com",
		"name":        "Ada",
		"lookup":      "E8 1EA",
		"needs":       []string{"food", "medicine"},
	})

	assert.NotEmpty(t, sub.Reference)
	assert.Equal(t, "a@b.com", sub.NotifyEmail)
	assert.Equal(t, "Ada", sub.FirstName)

	data, err := json.Marshal(sub.Payload)
	require.NoError(t, err)
	assert.Equal(t,
		`{"for_someone":false,"their_email":"","postcode":"E8 1EA","needs_food":true,"needs":"food, medicine","agreed":false}`,
		string(data))
}

func TestParseMapping(t *testing.T) {
	yml := []byte(`
on_behalf: is_on_behalf
notify_email:
  on_behalf: on_behalf_email_address
  self: email
first_name: first_name
fields:
  - name: is_on_behalf
    rule: flag
    source: is_on_behalf
  - name: help_with_accessing_medicine
    rule: const
    value: false
  - name: help_with_accessing_food
    rule: contains
    source: what_coronavirus_help
    value: accessing food
`)
	schema := []string{"is_on_behalf", "help_with_accessing_medicine", "help_with_accessing_food"}

	m, err := ParseMapping(yml, schema)
	require.NoError(t, err)
	assert.Equal(t, "is_on_behalf", m.OnBehalf)
	assert.Len(t, m.Fields, 3)
	assert.Equal(t, false, m.Fields[1].Value)

	_, err = ParseMapping(yml, append(schema, "consent_to_share"))
	assert.ErrorContains(t, err, "does not cover fields: consent_to_share")

	_, err = ParseMapping(yml, schema[:2])
	assert.ErrorContains(t, err, "unknown fields: help_with_accessing_food")
}

func TestMapping_CheckRejectsBadRules(t *testing.T) {
	bad := []MappingRule{
		{Name: "a", Rule: "sum", Source: "x"},
		{Name: "a", Rule: MapText},
		{Name: "a", Rule: MapContains, Source: "x"},
		{Name: "a", Rule: MapConst},
		{Rule: MapTimestamp},
	}
	for _, rule := range bad {
		m := &Mapping{Fields: []MappingRule{rule}}
		assert.Error(t, m.Check(nil), "%+v", rule)
	}

	m := &Mapping{Fields: []MappingRule{{Name: "a", Rule: MapTimestamp}, {Name: "a", Rule: MapTimestamp}}}
	assert.ErrorContains(t, m.Check(nil), "declared twice")
}
