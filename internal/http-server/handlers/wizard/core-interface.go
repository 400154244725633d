package wizard

import (
	"HereToHelp/entity"
	"HereToHelp/impl/core"
	"HereToHelp/wizard/workflow"
	"context"
	"net/url"
)

type Core interface {
	SubmitStep(ctx context.Context, stepID workflow.StepID, form url.Values) (*core.StepReply, error)
	RenderLanding(auth *entity.Auth, query url.Values) ([]byte, error)
	RenderPage(page string, query url.Values) ([]byte, error)
	RenderError(message string) []byte
	RenderNotFound() []byte
}
