package workflow

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	w := newTestWorkflow()
	two, _ := w.GetStep("two")
	three, _ := w.GetStep("three")

	tests := []struct {
		name   string
		step   *Step
		form   url.Values
		errors map[string][]string
	}{
		{
			name:   "missing required field",
			step:   two,
			form:   url.Values{},
			errors: map[string][]string{"lookup": {"Enter a real postcode"}},
		},
		{
			name:   "blank after trim skips dependent postcode rule",
			step:   two,
			form:   url.Values{"lookup": {"   "}},
			errors: map[string][]string{"lookup": {"Enter a real postcode"}},
		},
		{
			name:   "malformed postcode",
			step:   two,
			form:   url.Values{"lookup": {"not a postcode"}},
			errors: map[string][]string{"lookup": {"Enter a real postcode"}},
		},
		{
			name: "valid postcode",
			step: two,
			form: url.Values{"lookup": {" E8 1EA "}},
		},
		{
			name: "lower case postcode is accepted",
			step: two,
			form: url.Values{"lookup": {"e8 1ea"}},
		},
		{
			name: "optional numeric skipped when empty",
			step: three,
			form: url.Values{"needs": {"food"}},
		},
		{
			name:   "all failing rules reported",
			step:   three,
			form:   url.Values{"age": {"ten"}},
			errors: map[string][]string{"needs": {"Select what you need"}, "age": {"Enter a number"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.step, tt.form)
			if tt.errors == nil {
				assert.True(t, res.Valid(), "unexpected errors: %v", res.Errors)
				return
			}
			assert.Equal(t, tt.errors, res.Errors)
		})
	}
}

func TestValidate_SanitizedValues(t *testing.T) {
	w := newTestWorkflow()
	two, _ := w.GetStep("two")

	res := Validate(two, url.Values{
		"lookup":   {"  E8 1EA "},
		"postcode": {"E8 1EA"},
		"area":     {"LOCAL"},
		"unknown":  {"dropped"},
	})
	require.True(t, res.Valid())

	assert.Equal(t, "E8 1EA", res.Values.Get("lookup"))
	assert.Equal(t, "LOCAL", res.Values.Get("area"))
	assert.NotContains(t, res.Values, "unknown")
}

func TestValidate_EscapesMarkup(t *testing.T) {
	w := newTestWorkflow()
	two, _ := w.GetStep("two")

	res := Validate(two, url.Values{"lookup": {"<b>E8</b>"}})
	assert.Equal(t, "&lt;b&gt;E8&lt;/b&gt;", res.Values.Get("lookup"))
	assert.False(t, res.Valid())
}

func TestValidationResult_Fields(t *testing.T) {
	w := newTestWorkflow()
	three, _ := w.GetStep("three")

	res := Validate(three, url.Values{"age": {"x"}})
	assert.Equal(t, []string{"needs", "age"}, res.Fields(three))
}

func TestEscapedValueIsNotEscapedTwice(t *testing.T) {
	w := newTestWorkflow()
	two, _ := w.GetStep("two")

	res := Validate(two, url.Values{"lookup": {"O'Brien & Co"}})
	record := Merge(Record{}, two, res.Values)
	assert.Equal(t, "O&#39;Brien &amp; Co", record.GetString("lookup"))

	carried := Decode(w, record.Values(), nil)
	assert.Equal(t, "O&#39;Brien &amp; Co", carried.GetString("lookup"))
}
