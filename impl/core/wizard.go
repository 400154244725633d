package core

import (
	"HereToHelp/entity"
	"HereToHelp/internal/lib/sl"
	"HereToHelp/internal/metrics"
	"HereToHelp/internal/render"
	"HereToHelp/wizard/workflow"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrorSuffix is appended to a field name to carry its message in a redirect.
const ErrorSuffix = "_error"

const submitFailedMessage = "We're sorry but something has gone wrong, please try again"

// StepReply is either a redirect target or a rendered page.
type StepReply struct {
	Redirect string
	Body     []byte
}

type deliveryResult int

const (
	delivered deliveryResult = iota
	queued
	undelivered
)

// SubmitStep validates one posted step and decides what the browser sees next.
func (c *Core) SubmitStep(ctx context.Context, stepID workflow.StepID, form url.Values) (*StepReply, error) {
	res, err := c.engine.HandleStep(c.wf.ID(), stepID, form)
	if err != nil {
		return nil, err
	}

	log := c.log.With(slog.String("step", string(stepID)))

	if !res.Validation.Valid() {
		fields := res.Validation.Fields(res.Step)
		metrics.StepSubmissions.WithLabelValues(string(stepID), "invalid").Inc()
		for _, f := range fields {
			metrics.ValidationErrors.WithLabelValues(string(stepID), f).Inc()
		}
		log.Debug("validation failed", slog.Any("fields", fields))
		return &StepReply{Redirect: errorRedirect(res.Step, res.Validation, form)}, nil
	}

	switch o := res.Outcome.(type) {
	case workflow.Continue:
		metrics.StepSubmissions.WithLabelValues(string(stepID), "continue").Inc()
		body, err := c.renderer.Render(o.Next.PageName(), workflow.PageData{
			Step:    o.Next,
			Record:  res.Record,
			Globals: c.globalsWith(nil),
		})
		if err != nil {
			return nil, err
		}
		return &StepReply{Body: body}, nil

	case workflow.EarlyExit:
		metrics.StepSubmissions.WithLabelValues(string(stepID), "early_exit").Inc()
		metrics.EarlyExits.WithLabelValues(o.Reason).Inc()
		log.Info("journey ended early", slog.String("reason", o.Reason))
		return c.renderOutcome(o)

	case workflow.Completed:
		metrics.StepSubmissions.WithLabelValues(string(stepID), "complete").Inc()
		result := c.deliver(ctx, o.Submission)
		if result == undelivered {
			q := res.Record.Values()
			q.Set("error", submitFailedMessage)
			return &StepReply{Redirect: "/" + res.Step.PageName() + "?" + q.Encode()}, nil
		}
		if result == delivered {
			c.sendConfirmation(ctx, o.Submission.NotifyEmail, o.Submission.FirstName, o.Submission.Reference)
		}
		return c.renderOutcome(o)
	}

	return nil, fmt.Errorf("step %s: unexpected outcome %T", stepID, res.Outcome)
}

// errorRedirect sends the browser back to the step page with one
// <field>_error message per failing field and every submitted value.
func errorRedirect(step *workflow.Step, v workflow.ValidationResult, form url.Values) string {
	q := url.Values{}
	for k, vs := range form {
		if strings.HasSuffix(k, ErrorSuffix) || k == "error" {
			continue
		}
		q[k] = append([]string(nil), vs...)
	}
	for _, f := range v.Fields(step) {
		q.Set(f+ErrorSuffix, v.Errors[f][0])
	}
	return "/" + step.PageName() + "?" + q.Encode()
}

func (c *Core) renderOutcome(o workflow.Outcome) (*StepReply, error) {
	_, complete := o.(workflow.Completed)
	body, err := c.renderer.Render(render.CompletePage, workflow.PageData{
		Outcome:  o,
		Complete: complete,
		Globals:  c.globalsWith(nil),
	})
	if err != nil {
		return nil, err
	}
	return &StepReply{Body: body}, nil
}

// deliver posts the payload and falls back to the durable outbox.
func (c *Core) deliver(ctx context.Context, sub workflow.FinalSubmission) deliveryResult {
	log := c.log.With(slog.String("reference", sub.Reference))

	body, err := json.Marshal(sub.Payload)
	if err != nil {
		log.With(sl.Err(err)).Error("marshal submission")
		metrics.Submissions.WithLabelValues("failed").Inc()
		return undelivered
	}

	start := c.now()
	err = c.submission.Submit(ctx, sub.Reference, body)
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.Submissions.WithLabelValues("accepted").Inc()
		return delivered
	}

	if errors.Is(err, entity.ErrSubmissionRejected) {
		log.With(sl.Err(err)).Error("submission rejected")
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return undelivered
	}

	if c.repo == nil {
		log.With(sl.Err(err)).Error("submission lost, no outbox")
		metrics.Submissions.WithLabelValues("failed").Inc()
		return undelivered
	}

	item := entity.NewOutboxItem(sub.Reference, body, sub.NotifyEmail, sub.FirstName)
	item.Attempts = 1
	item.LastError = err.Error()
	item.NextAttemptAt = c.now().Add(c.retryDelay(item.Attempts))

	if saveErr := c.repo.SaveOutboxItem(context.WithoutCancel(ctx), item); saveErr != nil {
		log.With(sl.Err(saveErr)).Error("submission lost, outbox unavailable")
		metrics.Submissions.WithLabelValues("failed").Inc()
		return undelivered
	}

	log.With(sl.Err(err)).Warn("submission queued in outbox")
	metrics.Submissions.WithLabelValues("queued").Inc()
	metrics.OutboxPending.Inc()
	c.publish("queued", item)
	return queued
}

// sendConfirmation never fails the request; errors are logged.
func (c *Core) sendConfirmation(ctx context.Context, email, firstName, reference string) {
	if c.notify == nil || email == "" {
		metrics.EmailsSent.WithLabelValues("skipped").Inc()
		return
	}
	id, err := c.notify.SendEmail(ctx, email, firstName, reference)
	if err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		c.log.With(sl.Err(err), slog.String("reference", reference)).Error("send confirmation email")
		return
	}
	metrics.EmailsSent.WithLabelValues("sent").Inc()
	c.log.With(slog.String("notification_id", id)).Info("confirmation email sent")
}

// RenderLanding renders the first step with the staff identity.
func (c *Core) RenderLanding(auth *entity.Auth, query url.Values) ([]byte, error) {
	step, _ := c.wf.GetStep(c.wf.InitialStep())
	extra := map[string]any{
		"isAuthorised": false,
		"isAdmin":      false,
		"authName":     "",
	}
	if auth != nil {
		extra["isAuthorised"] = auth.IsAuthorised
		extra["isAdmin"] = auth.IsAdmin
		extra["authName"] = auth.AuthName
	}
	return c.renderer.Render(step.PageName(), c.pageData(step, query, extra))
}

// RenderPage renders a named page: a step page rebuilt from the query string,
// or a static page. Unknown names return workflow.ErrPageNotFound.
func (c *Core) RenderPage(page string, query url.Values) ([]byte, error) {
	if step, ok := c.wf.StepForPage(page); ok {
		return c.renderer.Render(page, c.pageData(step, query, nil))
	}
	if !c.renderer.Has(page) {
		return nil, fmt.Errorf("%w: %s", workflow.ErrPageNotFound, page)
	}
	return c.renderer.Render(page, workflow.PageData{Query: query, Globals: c.globalsWith(nil)})
}

// RenderError renders the error page; it falls back to plain text.
func (c *Core) RenderError(message string) []byte {
	body, err := c.renderer.Render(render.ErrorPage, workflow.PageData{
		Query:   url.Values{"error": {message}},
		Globals: c.globalsWith(nil),
	})
	if err != nil {
		return []byte(message)
	}
	return body
}

func (c *Core) RenderNotFound() []byte {
	body, err := c.renderer.Render(render.NotFoundPage, workflow.PageData{Globals: c.globalsWith(nil)})
	if err != nil {
		return []byte("Page not found")
	}
	return body
}

func (c *Core) pageData(step *workflow.Step, query url.Values, extra map[string]any) workflow.PageData {
	errs := make(map[string][]string)
	for k, vs := range query {
		if field, ok := strings.CutSuffix(k, ErrorSuffix); ok && len(vs) > 0 {
			if _, declared := step.Field(field); declared {
				errs[field] = vs
			}
		}
	}
	return workflow.PageData{
		Step:    step,
		Record:  workflow.Decode(c.wf, query, step),
		Query:   cloneValues(query),
		Errors:  errs,
		Globals: c.globalsWith(extra),
	}
}

// IsNotFound reports errors that should become a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, workflow.ErrPageNotFound) || errors.Is(err, workflow.ErrStepNotFound)
}
