package workflow

import "fmt"

// TransitionKind tells what a branch leads to.
type TransitionKind int

const (
	ToStep TransitionKind = iota
	ToEarlyExit
	ToComplete
)

// Transition is the target of a branch.
type Transition struct {
	Kind   TransitionKind
	Step   StepID
	Reason string
}

func GoTo(id StepID) Transition {
	return Transition{Kind: ToStep, Step: id}
}

func ExitEarly(reason string) Transition {
	return Transition{Kind: ToEarlyExit, Reason: reason}
}

func Finish() Transition {
	return Transition{Kind: ToComplete}
}

func (t Transition) String() string {
	switch t.Kind {
	case ToEarlyExit:
		return "early-exit:" + t.Reason
	case ToComplete:
		return "complete"
	}
	return string(t.Step)
}

// Condition is evaluated against the accumulated record.
type Condition struct {
	Name  string
	match func(Record) bool
}

func (c Condition) Match(r Record) bool {
	return c.match(r)
}

// Branch is one row of a step's decision table.
type Branch struct {
	When Condition
	Then Transition
}

func IsFalse(field string) Condition {
	return Condition{
		Name:  field + " is false",
		match: func(r Record) bool { return !r.GetBool(field) },
	}
}

func IsTrue(field string) Condition {
	return Condition{
		Name:  field + " is true",
		match: func(r Record) bool { return r.GetBool(field) },
	}
}

func Equals(field, value string) Condition {
	return Condition{
		Name:  fmt.Sprintf("%s == %q", field, value),
		match: func(r Record) bool { return r.GetString(field) == value },
	}
}

func NotEquals(field, value string) Condition {
	return Condition{
		Name:  fmt.Sprintf("%s != %q", field, value),
		match: func(r Record) bool { return r.GetString(field) != value },
	}
}

// Contains matches a multi-select field that includes token.
func Contains(field, token string) Condition {
	return Condition{
		Name:  fmt.Sprintf("%s contains %q", field, token),
		match: func(r Record) bool { return r.Contains(field, token) },
	}
}

func Not(c Condition) Condition {
	return Condition{
		Name:  "not " + c.Name,
		match: func(r Record) bool { return !c.match(r) },
	}
}

// NextStep walks the decision table in order; the first matching branch wins
// and the step default applies when none matches.
func NextStep(step *Step, record Record) Transition {
	for _, b := range step.Branches {
		if b.When.Match(record) {
			return b.Then
		}
	}
	return step.Default
}
