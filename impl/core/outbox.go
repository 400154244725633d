package core

import (
	"HereToHelp/entity"
	"HereToHelp/internal/lib/sl"
	"HereToHelp/internal/metrics"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v5"
)

const (
	drainBatch = 100
	listLimit  = 200
)

var ErrOutboxItemNotFound = errors.New("outbox item not found")

// retryDelay grows exponentially with the number of attempts made.
func (c *Core) retryDelay(attempts int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.outbox.Interval
	b.MaxInterval = 24 * time.Hour
	b.RandomizationFactor = 0

	delay := b.NextBackOff()
	for i := 1; i < attempts; i++ {
		delay = b.NextBackOff()
	}
	return delay
}

// DrainOutbox replays every due item once and returns how many were sent.
func (c *Core) DrainOutbox(ctx context.Context) (int, error) {
	if c.repo == nil {
		return 0, ErrOutboxDisabled
	}

	items, err := c.repo.DueOutboxItems(ctx, c.now(), drainBatch)
	if err != nil {
		return 0, fmt.Errorf("load due items: %w", err)
	}

	pool := c.pool
	if pool == nil {
		pool = pond.NewPool(c.outbox.Workers)
		defer pool.StopAndWait()
	}

	sent := make(chan bool, len(items))
	tasks := make([]pond.Task, 0, len(items))
	for i := range items {
		item := &items[i]
		tasks = append(tasks, pool.Submit(func() {
			sent <- c.replay(ctx, item)
		}))
	}
	for _, t := range tasks {
		_ = t.Wait()
	}
	close(sent)

	count := 0
	for ok := range sent {
		if ok {
			count++
		}
	}

	if pending, err := c.repo.CountOutbox(ctx, entity.OutboxPending); err == nil {
		metrics.OutboxPending.Set(float64(pending))
	}
	if len(items) > 0 {
		c.log.With(
			slog.Int("due", len(items)),
			slog.Int("sent", count),
		).Info("outbox drained")
	}
	return count, nil
}

// replay submits one stored item and records the attempt.
func (c *Core) replay(ctx context.Context, item *entity.OutboxItem) bool {
	log := c.log.With(slog.String("reference", item.Reference), slog.Int("attempt", item.Attempts+1))

	err := c.submission.Submit(ctx, item.Reference, item.Body)
	item.Attempts++

	switch {
	case err == nil:
		item.Status = entity.OutboxSent
		item.LastError = ""
		metrics.OutboxDeliveries.WithLabelValues("sent").Inc()
		metrics.Submissions.WithLabelValues("accepted").Inc()
	case errors.Is(err, entity.ErrSubmissionRejected) || item.Attempts >= c.outbox.MaxAttempts:
		item.Status = entity.OutboxFailed
		item.LastError = err.Error()
		metrics.OutboxDeliveries.WithLabelValues("failed").Inc()
		log.With(sl.Err(err)).Error("outbox item failed permanently")
	default:
		item.LastError = err.Error()
		item.NextAttemptAt = c.now().Add(c.retryDelay(item.Attempts))
		metrics.OutboxDeliveries.WithLabelValues("retry").Inc()
		log.With(sl.Err(err)).Warn("outbox retry scheduled", slog.Time("next", item.NextAttemptAt))
	}

	if uErr := c.repo.UpdateOutboxItem(ctx, item); uErr != nil {
		log.With(sl.Err(uErr)).Error("update outbox item")
	}
	c.publish(item.Status, item)

	if item.Status == entity.OutboxSent {
		c.sendConfirmation(ctx, item.NotifyEmail, item.FirstName, item.Reference)
		return true
	}
	return false
}

// ListOutbox returns the newest items; status may be empty.
func (c *Core) ListOutbox(ctx context.Context, status string) ([]entity.OutboxItem, error) {
	if c.repo == nil {
		return nil, ErrOutboxDisabled
	}
	return c.repo.ListOutbox(ctx, status, listLimit)
}

// RetryOutbox makes an item due now and resets a failed item to pending.
func (c *Core) RetryOutbox(ctx context.Context, id string) (*entity.OutboxItem, error) {
	if c.repo == nil {
		return nil, ErrOutboxDisabled
	}
	item, err := c.repo.GetOutboxItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrOutboxItemNotFound
	}
	if item.Status == entity.OutboxSent {
		return item, nil
	}

	if item.Status == entity.OutboxFailed {
		item.Attempts = 0
	}
	item.Status = entity.OutboxPending
	item.NextAttemptAt = c.now()
	if err = c.repo.UpdateOutboxItem(ctx, item); err != nil {
		return nil, err
	}

	c.log.With(slog.String("reference", item.Reference)).Info("outbox item requeued")
	c.publish("requeued", item)
	return item, nil
}

func (c *Core) publish(kind string, item *entity.OutboxItem) {
	if c.broadcaster == nil {
		return
	}
	c.broadcaster.BroadcastOutbox(entity.OutboxEvent{Type: kind, Item: item})
}
