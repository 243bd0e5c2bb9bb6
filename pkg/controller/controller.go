package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/logstate/internal/logging"
	"github.com/aretw0/logstate/pkg/domain"
	"github.com/google/uuid"
)

// Controller guards the logging state of one process.
// Construct it once with New and share the pointer with every adapter.
type Controller struct {
	mu       sync.Mutex
	record   *domain.Record
	poisoned error

	hooks  domain.Hooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger configures a logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks. Calling it more than once chains the hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Controller) {
		c.hooks = domain.Chain(c.hooks, hooks)
	}
}

// WithClock overrides the clock used to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a Controller holding a fresh record.
func New(opts ...Option) *Controller {
	c := &Controller{
		record: domain.NewRecord(),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins logging to path.
// Starting the path that is already active changes nothing and reports Success == false.
// Any other start moves the current path (active or not) into PreviousPath.
func (c *Controller) Start(path string) (domain.Result, error) {
	return c.run(domain.OpStart, path, func(r *domain.Record) domain.Result {
		if r.Active && r.Path != nil && *r.Path == path {
			return domain.Result{Snapshot: r.Snapshot(), Message: domain.MsgAlreadyLogging}
		}
		if r.Path != nil {
			r.PreviousPath = r.Path
		}
		p := path
		r.Path = &p
		r.Active = true
		return domain.Result{Snapshot: r.Snapshot(), Success: true, Message: domain.MsgStarted}
	})
}

// Stop ends the active session, remembering its path as PreviousPath.
// Stopping while idle changes nothing and reports Success == false.
func (c *Controller) Stop() (domain.Result, error) {
	return c.run(domain.OpStop, "", func(r *domain.Record) domain.Result {
		if !r.Active {
			return domain.Result{Snapshot: r.Snapshot(), Message: domain.MsgNotActive}
		}
		r.PreviousPath = r.Path
		r.Path = nil
		r.Active = false
		return domain.Result{Snapshot: r.Snapshot(), Success: true, Message: domain.MsgStopped}
	})
}

// Status reports the current state. Only the call counter changes.
func (c *Controller) Status() (domain.Result, error) {
	return c.run(domain.OpStatus, "", func(r *domain.Record) domain.Result {
		msg := domain.MsgIdle
		if r.Active {
			msg = domain.MsgActive
		}
		return domain.Result{Snapshot: r.Snapshot(), Success: true, Message: msg}
	})
}

// Diagnostics returns a copy of the full record, call count included.
// Unlike Status it is not counted as a call.
func (c *Controller) Diagnostics() (domain.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned != nil {
		return domain.Record{}, c.poisoned
	}
	return c.record.Clone(), nil
}

func (c *Controller) run(op domain.Operation, path string, fn func(*domain.Record) domain.Result) (domain.Result, error) {
	res, seq, err := c.apply(fn)
	if err != nil {
		var p *panicError
		if errors.As(err, &p) {
			c.logger.Error("State controller poisoned",
				"operation", op,
				"panic", p.value,
			)
		}
		return domain.Result{}, err
	}

	c.logger.Debug("State transition",
		"operation", op,
		"success", res.Success,
		"active", res.Active,
		"call_count", seq,
	)

	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(context.Background(), &domain.TransitionEvent{
			ID:        uuid.NewString(),
			Timestamp: c.now(),
			Operation: op,
			Path:      path,
			Seq:       seq,
			Result:    res,
		})
	}
	return res, nil
}

// apply runs fn as one critical section. A panic inside fn poisons the controller.
func (c *Controller) apply(fn func(*domain.Record) domain.Result) (res domain.Result, seq uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned != nil {
		return domain.Result{}, 0, c.poisoned
	}

	defer func() {
		if v := recover(); v != nil {
			c.poisoned = fmt.Errorf("%w: %v", domain.ErrControllerPoisoned, v)
			err = &panicError{value: v, err: c.poisoned}
		}
	}()

	c.record.CallCount++
	res = fn(c.record)
	return res, c.record.CallCount, nil
}

// panicError marks the call that poisoned the controller.
type panicError struct {
	value any
	err   error
}

func (e *panicError) Error() string { return e.err.Error() }
func (e *panicError) Unwrap() error { return e.err }
