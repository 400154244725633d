package workflow

import (
	"errors"
	"net/url"
)

// StepID is a unique identifier for a step within a workflow.
type StepID string

// WorkflowID is a unique identifier for a workflow.
type WorkflowID string

var (
	ErrStepNotFound = errors.New("step not found")
	ErrPageNotFound = errors.New("page not found")
)

// FieldKind controls how a raw form value is coerced into the record.
type FieldKind int

const (
	// KindText is free text; absent becomes "".
	KindText FieldKind = iota
	// KindChoice is a single radio/select value; absent becomes "".
	KindChoice
	// KindBoolean is a yes/no radio; only negative tokens and absence are false.
	KindBoolean
	// KindFlag is a checkbox; presence is true.
	KindFlag
	// KindMulti is a multi-select checkbox group.
	KindMulti
)

// Option is one selectable value of a choice or multi-select field.
type Option struct {
	Value string
	Label string
}

// Field describes one input collected by a step.
type Field struct {
	Name    string
	Kind    FieldKind
	Label   string
	Hint    string
	Options []Option
	// Hidden fields are filled by client-side scripts, e.g. the address lookup.
	Hidden bool
}

// Step is the immutable definition of one page of the wizard.
type Step struct {
	ID StepID
	// Page is the template name rendered for this step and the target of
	// validation redirects. Defaults to the step ID.
	Page     string
	Title    string
	Fields   []Field
	Rules    []FieldRule
	Branches []Branch
	Default  Transition
}

// PageName returns the page rendered for the step.
func (s *Step) PageName() string {
	if s.Page != "" {
		return s.Page
	}
	return string(s.ID)
}

// Field returns the declared field by name.
func (s *Step) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Workflow defines a complete wizard journey.
type Workflow interface {
	// ID returns the unique identifier for this workflow.
	ID() WorkflowID

	// InitialStep returns the first step of the workflow.
	InitialStep() StepID

	// GetStep returns a step by its ID.
	GetStep(id StepID) (*Step, bool)

	// StepForPage returns the step rendered by a page name.
	StepForPage(page string) (*Step, bool)

	// Steps returns all steps in declaration order.
	Steps() []*Step

	// Mapping returns the table used to build the final submission.
	Mapping() *Mapping
}

// Renderer produces a page for the wizard.
type Renderer interface {
	Render(page string, data PageData) ([]byte, error)
}

// PageData is the context handed to the renderer.
type PageData struct {
	Step     *Step
	Record   Record
	Query    url.Values
	Errors   map[string][]string
	Globals  map[string]any
	Outcome  Outcome
	Complete bool
}
