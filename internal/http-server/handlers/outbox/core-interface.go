package outbox

import (
	"HereToHelp/entity"
	"context"
)

type Core interface {
	ListOutbox(ctx context.Context, status string) ([]entity.OutboxItem, error)
	RetryOutbox(ctx context.Context, id string) (*entity.OutboxItem, error)
}
