package workflow

import (
	"fmt"
	"log/slog"
	"net/url"
)

// Outcome is the result of a valid step submission:
// Continue, EarlyExit or Completed.
type Outcome interface {
	isOutcome()
}

// Continue shows the next step.
type Continue struct {
	Next *Step
}

// EarlyExit ends the journey before all steps are answered.
type EarlyExit struct {
	Reason string
}

// Completed carries the mapped submission of a finished journey.
type Completed struct {
	Submission FinalSubmission
}

func (Continue) isOutcome()  {}
func (EarlyExit) isOutcome() {}
func (Completed) isOutcome() {}

// StepResult represents the outcome of handling one step submission.
type StepResult struct {
	Step       *Step
	Record     Record
	Validation ValidationResult
	// Outcome is nil when validation failed.
	Outcome Outcome
}

// WorkflowEngine validates, accumulates and resolves step submissions.
type WorkflowEngine struct {
	workflows map[WorkflowID]Workflow
	log       *slog.Logger
}

// NewWorkflowEngine creates a new workflow engine.
func NewWorkflowEngine(log *slog.Logger) *WorkflowEngine {
	return &WorkflowEngine{
		workflows: make(map[WorkflowID]Workflow),
		log:       log,
	}
}

// RegisterWorkflow adds a workflow to the engine after checking its table.
func (e *WorkflowEngine) RegisterWorkflow(w Workflow) error {
	if err := CheckWorkflow(w); err != nil {
		return fmt.Errorf("workflow %s: %w", w.ID(), err)
	}
	e.workflows[w.ID()] = w
	e.log.Info("registered workflow",
		slog.String("workflow_id", string(w.ID())),
		slog.Int("steps", len(w.Steps())),
	)
	return nil
}

// Workflow returns a registered workflow.
func (e *WorkflowEngine) Workflow(id WorkflowID) (Workflow, bool) {
	w, ok := e.workflows[id]
	return w, ok
}

// HandleStep processes the form posted for one step: validate, merge the
// answers into the record carried by the form, and resolve what comes next.
func (e *WorkflowEngine) HandleStep(workflowID WorkflowID, stepID StepID, form url.Values) (StepResult, error) {
	w, ok := e.workflows[workflowID]
	if !ok {
		return StepResult{}, fmt.Errorf("workflow not found: %s", workflowID)
	}
	step, ok := w.GetStep(stepID)
	if !ok {
		return StepResult{}, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}

	previous := Decode(w, form, step)
	result := StepResult{
		Step:       step,
		Validation: Validate(step, form),
		Record:     previous,
	}
	if !result.Validation.Valid() {
		e.log.Debug("step validation failed",
			slog.String("step_id", string(stepID)),
			slog.Any("fields", result.Validation.Fields(step)),
		)
		return result, nil
	}

	result.Record = Merge(previous, step, result.Validation.Values)
	transition := NextStep(step, result.Record)

	switch transition.Kind {
	case ToEarlyExit:
		result.Outcome = EarlyExit{Reason: transition.Reason}
	case ToComplete:
		result.Outcome = Completed{Submission: w.Mapping().ToFinalSubmission(result.Record)}
	default:
		next, ok := w.GetStep(transition.Step)
		if !ok {
			return result, fmt.Errorf("%w: next step %s", ErrStepNotFound, transition.Step)
		}
		result.Outcome = Continue{Next: next}
	}

	e.log.Debug("transitioning",
		slog.String("step_id", string(stepID)),
		slog.String("to", transition.String()),
	)
	return result, nil
}

// CheckWorkflow verifies every transition points at a declared step and every
// rule targets a declared field of its step.
func CheckWorkflow(w Workflow) error {
	if _, ok := w.GetStep(w.InitialStep()); !ok {
		return fmt.Errorf("%w: initial step %s", ErrStepNotFound, w.InitialStep())
	}
	if w.Mapping() == nil {
		return fmt.Errorf("no mapping table")
	}
	pages := make(map[string]StepID)
	for _, step := range w.Steps() {
		if other, ok := pages[step.PageName()]; ok {
			return fmt.Errorf("page %s used by %s and %s", step.PageName(), other, step.ID)
		}
		pages[step.PageName()] = step.ID

		for _, r := range step.Rules {
			if _, ok := step.Field(r.Field); !ok {
				return fmt.Errorf("step %s: rule for undeclared field %s", step.ID, r.Field)
			}
		}
		targets := []Transition{step.Default}
		for _, b := range step.Branches {
			targets = append(targets, b.Then)
		}
		for _, t := range targets {
			if t.Kind != ToStep {
				continue
			}
			if _, ok := w.GetStep(t.Step); !ok {
				return fmt.Errorf("step %s: %w: %q", step.ID, ErrStepNotFound, t.Step)
			}
			if t.Step == step.ID {
				return fmt.Errorf("step %s transitions to itself", step.ID)
			}
		}
	}
	return nil
}
