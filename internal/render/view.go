package render

import (
	"HereToHelp/wizard/workflow"
	"html/template"
	"net/url"
	"sort"
)

// Early exit explanations by reason.
var exitMessages = map[string]string{
	"1-1": "You need permission from the person you’re asking help for before you fill in this form. Ask them to contact us, or ask for their permission and start again.",
	"2":   "This service is only for people who live in the area we cover. Contact your own council for help.",
}

var defaultYesNo = []workflow.Option{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}

var funcs = template.FuncMap{
	"isKind": func(f fieldView, kind string) bool { return f.KindName == kind },
}

type fieldView struct {
	workflow.Field
	KindName string
	Value    string
	Selected map[string]bool
	Errors   []string
}

type hiddenInput struct {
	Name  string
	Value string
}

type fieldError struct {
	Field   string
	Message string
}

type view struct {
	Page       string
	Title      string
	Action     string
	Fields     []fieldView
	Hidden     []hiddenInput
	Errors     []fieldError
	Message    string
	Globals    map[string]any
	Query      url.Values
	EndJourney bool
	MessageID  string
	ExitText   string
	Complete   bool
	Reference  string
}

func kindName(k workflow.FieldKind) string {
	switch k {
	case workflow.KindChoice:
		return "choice"
	case workflow.KindBoolean:
		return "boolean"
	case workflow.KindFlag:
		return "flag"
	case workflow.KindMulti:
		return "multi"
	}
	return "text"
}

func newView(page string, data workflow.PageData) view {
	v := view{
		Page:     page,
		Globals:  data.Globals,
		Query:    data.Query,
		Message:  data.Query.Get("error"),
		Complete: data.Complete,
	}
	if v.Globals == nil {
		v.Globals = map[string]any{}
	}

	switch o := data.Outcome.(type) {
	case workflow.EarlyExit:
		v.EndJourney = true
		v.MessageID = o.Reason
		v.ExitText = exitMessages[o.Reason]
	case workflow.Completed:
		v.Complete = true
		v.Reference = o.Submission.Reference
	}

	if data.Step == nil {
		return v
	}

	step := data.Step
	v.Title = step.Title
	v.Action = "/" + string(step.ID)

	own := make(map[string]bool, len(step.Fields))
	for _, f := range step.Fields {
		own[f.Name] = true
		v.Fields = append(v.Fields, fieldFor(f, data))
		for _, msg := range data.Errors[f.Name] {
			v.Errors = append(v.Errors, fieldError{Field: f.Name, Message: msg})
		}
	}

	values := data.Record.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		if !own[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, value := range values[k] {
			v.Hidden = append(v.Hidden, hiddenInput{Name: k, Value: value})
		}
	}
	return v
}

// fieldFor pre-fills a field from the raw query first and the record second.
func fieldFor(f workflow.Field, data workflow.PageData) fieldView {
	fv := fieldView{
		Field:    f,
		KindName: kindName(f.Kind),
		Selected: make(map[string]bool),
		Errors:   data.Errors[f.Name],
	}
	if f.Kind == workflow.KindBoolean && len(fv.Options) == 0 {
		fv.Options = defaultYesNo
	}

	raw, fromQuery := data.Query[f.Name]
	switch {
	case fromQuery:
		if len(raw) > 0 {
			fv.Value = raw[0]
		}
		for _, r := range raw {
			fv.Selected[r] = true
		}
	case data.Record.Has(f.Name):
		fv.Value = data.Record.GetString(f.Name)
		for _, r := range data.Record.GetList(f.Name) {
			fv.Selected[r] = true
		}
	}

	switch f.Kind {
	case workflow.KindBoolean:
		if fv.Value == "" {
			break
		}
		answer := workflow.Record{f.Name: fv.Value}.GetBool(f.Name)
		for _, o := range fv.Options {
			fv.Selected[o.Value] = workflow.Record{f.Name: o.Value}.GetBool(f.Name) == answer
		}
	case workflow.KindFlag:
		fv.Selected["true"] = workflow.Record{f.Name: fv.Value}.GetBool(f.Name)
	}
	return fv
}
