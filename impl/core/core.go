package core

import (
	"HereToHelp/entity"
	"HereToHelp/internal/lib/sl"
	"HereToHelp/wizard/workflow"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/alitto/pond/v2"
)

var ErrOutboxDisabled = errors.New("outbox not configured")

type Repository interface {
	SaveOutboxItem(ctx context.Context, item *entity.OutboxItem) error
	UpdateOutboxItem(ctx context.Context, item *entity.OutboxItem) error
	GetOutboxItem(ctx context.Context, id string) (*entity.OutboxItem, error)
	DueOutboxItems(ctx context.Context, now time.Time, limit int64) ([]entity.OutboxItem, error)
	ListOutbox(ctx context.Context, status string, limit int64) ([]entity.OutboxItem, error)
	CountOutbox(ctx context.Context, status string) (int64, error)
	Ping(ctx context.Context) error
}

type Renderer interface {
	workflow.Renderer
	Has(page string) bool
}

type SubmissionService interface {
	Submit(ctx context.Context, reference string, body []byte) error
}

type NotifyService interface {
	SendEmail(ctx context.Context, email, firstName, reference string) (string, error)
}

type AuthService interface {
	Authenticate(token string) (*entity.Auth, error)
}

type Broadcaster interface {
	BroadcastOutbox(event entity.OutboxEvent)
}

type OutboxOptions struct {
	Interval    time.Duration
	MaxAttempts int
	Workers     int
}

type Core struct {
	engine      *workflow.WorkflowEngine
	wf          workflow.Workflow
	renderer    Renderer
	repo        Repository
	submission  SubmissionService
	notify      NotifyService
	authService AuthService
	broadcaster Broadcaster
	globals     map[string]any
	outbox      OutboxOptions
	pool        pond.Pool
	now         func() time.Time
	log         *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		globals: make(map[string]any),
		outbox: OutboxOptions{
			Interval:    time.Minute,
			MaxAttempts: 10,
			Workers:     4,
		},
		now: time.Now,
		log: log.With(sl.Module("core")),
	}
}

// SetWorkflow selects the journey served by the wizard routes.
func (c *Core) SetWorkflow(engine *workflow.WorkflowEngine, id workflow.WorkflowID) error {
	w, ok := engine.Workflow(id)
	if !ok {
		return errors.New("workflow not registered: " + string(id))
	}
	c.engine = engine
	c.wf = w
	return nil
}

// StepIDs lists the steps that accept a posted form.
func (c *Core) StepIDs() []workflow.StepID {
	steps := c.wf.Steps()
	ids := make([]workflow.StepID, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID)
	}
	return ids
}

func (c *Core) SetRenderer(r Renderer) {
	c.renderer = r
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetSubmissionService(s SubmissionService) {
	c.submission = s
}

// SetNotifyService enables confirmation emails; leave unset to skip them.
func (c *Core) SetNotifyService(n NotifyService) {
	c.notify = n
}

func (c *Core) SetAuthService(auth AuthService) {
	c.authService = auth
}

func (c *Core) SetBroadcaster(b Broadcaster) {
	c.broadcaster = b
}

func (c *Core) SetOutboxOptions(opts OutboxOptions) {
	if opts.Interval > 0 {
		c.outbox.Interval = opts.Interval
	}
	if opts.MaxAttempts > 0 {
		c.outbox.MaxAttempts = opts.MaxAttempts
	}
	if opts.Workers > 0 {
		c.outbox.Workers = opts.Workers
	}
}

// SetGlobal adds a value available to every rendered page.
func (c *Core) SetGlobal(key string, value any) {
	c.globals[key] = value
}

// Authenticate verifies the staff token; an empty token is anonymous.
func (c *Core) Authenticate(token string) (*entity.Auth, error) {
	if token == "" || c.authService == nil {
		return nil, nil
	}
	return c.authService.Authenticate(token)
}

// Ready checks the durable outbox when one is configured.
func (c *Core) Ready(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Ping(ctx)
}

// Init starts the outbox drain loop until ctx is done.
func (c *Core) Init(ctx context.Context) {
	if c.repo == nil {
		c.log.Warn("outbox disabled, failed submissions will not be queued")
		return
	}
	c.pool = pond.NewPool(c.outbox.Workers, pond.WithContext(ctx))

	go func() {
		ticker := time.NewTicker(c.outbox.Interval)
		defer ticker.Stop()
		defer c.pool.StopAndWait()

		c.log.With(
			slog.Duration("interval", c.outbox.Interval),
			slog.Int("workers", c.outbox.Workers),
		).Info("outbox worker started")

		for {
			if _, err := c.DrainOutbox(ctx); err != nil {
				c.log.With(sl.Err(err)).Error("drain outbox")
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (c *Core) globalsWith(extra map[string]any) map[string]any {
	g := make(map[string]any, len(c.globals)+len(extra))
	for k, v := range c.globals {
		g[k] = v
	}
	for k, v := range extra {
		g[k] = v
	}
	return g
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
