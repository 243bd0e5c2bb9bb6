package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/logstate/internal/logging"
	"github.com/aretw0/logstate/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "logstate:events"

// Publisher publishes controller transition events on a Redis pub/sub channel.
type Publisher struct {
	client  *backend.Client
	channel string
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Publisher)

// WithChannel sets the pub/sub channel.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		p.channel = channel
	}
}

// WithTimeout bounds each publish issued from the controller hook.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = d
	}
}

// WithLogger configures a logger for failed publishes.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a Publisher with its own client.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Publisher using an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		channel: DefaultChannel,
		timeout: time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ping checks connectivity.
func (p *Publisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Publish sends one event and returns the number of subscribers that received it.
func (p *Publisher) Publish(ctx context.Context, e *domain.TransitionEvent) (int64, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}
	n, err := p.client.Publish(ctx, p.channel, data).Result()
	if err != nil {
		return 0, fmt.Errorf("redis publish to %s: %w", p.channel, err)
	}
	return n, nil
}

// Hooks returns controller hooks publishing every event.
// Failures are logged; the controller result is never affected.
func (p *Publisher) Hooks() domain.Hooks {
	return domain.Hooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			ctx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()
			if _, err := p.Publish(ctx, e); err != nil {
				p.logger.Warn("Failed to publish transition event",
					"event_id", e.ID,
					"operation", e.Operation,
					"err", err,
				)
			}
		},
	}
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
