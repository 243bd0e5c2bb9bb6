package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/logstate/internal/config"
	httpadapter "github.com/aretw0/logstate/pkg/adapters/http"
	redisadapter "github.com/aretw0/logstate/pkg/adapters/redis"
	"github.com/aretw0/logstate/pkg/controller"
	"github.com/aretw0/logstate/pkg/domain"
	"github.com/aretw0/logstate/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Runtime is the process-wide object graph: one controller plus the observers fed by
// its hooks.
type Runtime struct {
	Controller *controller.Controller
	Streams    *httpadapter.StreamManager
	Registry   *prometheus.Registry // nil when metrics are disabled
	Publisher  *redisadapter.Publisher

	cfg    *config.Config
	logger *slog.Logger
}

// NewRuntime builds the controller and wires metrics, the SSE stream manager and,
// when configured, the Redis publisher as controller hooks.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{
		Streams: httpadapter.NewStreamManager(logger),
		cfg:     cfg,
		logger:  logger,
	}
	hooks := []domain.Hooks{rt.Streams.Hooks()}

	if cfg.Metrics.Enabled {
		rt.Registry = prometheus.NewRegistry()
		rt.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(rt.Registry, observability.DiagnosticsFunc(func() (domain.Record, error) {
			return rt.Controller.Diagnostics()
		}))
		hooks = append(hooks, metrics.Hooks())
	}

	if cfg.Redis.Addr != "" {
		pub := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithChannel(cfg.Redis.Channel),
			redisadapter.WithLogger(logger),
		)
		if err := pub.Ping(ctx); err != nil {
			_ = pub.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("Publishing transition events to Redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
		rt.Publisher = pub
		hooks = append(hooks, pub.Hooks())
	}

	rt.Controller = controller.New(
		controller.WithLogger(logger),
		controller.WithHooks(domain.Chain(hooks...)),
	)
	return rt, nil
}

// Handler builds the HTTP handler for the runtime.
func (rt *Runtime) Handler() (http.Handler, error) {
	opts := []httpadapter.Option{
		httpadapter.WithLogger(rt.logger),
		httpadapter.WithStreams(rt.Streams),
		httpadapter.WithCORS(rt.cfg.CORS.Enabled),
	}
	if rt.Registry != nil {
		opts = append(opts, httpadapter.WithMetrics(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})))
	}
	return httpadapter.NewHandler(rt.Controller, opts...)
}

// Close releases external connections.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.Publisher != nil {
		errs = append(errs, rt.Publisher.Close())
	}
	return errors.Join(errs...)
}
