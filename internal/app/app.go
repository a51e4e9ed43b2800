package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/hcl"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/internal/telemetry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	ctx      context.Context
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	metrics  *telemetry.Metrics
	loader   *hcl.Loader

	httpServer *http.Server
}

// NewApp is the constructor for the application. Results are written to
// outW and logs to logW. When no modules are given the core layer modules
// are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All layer modules registered.", "count", len(modules), "types", reg.Types())

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  telemetry.NewMetrics(),
		loader:   hcl.NewLoader(),
	}
}

// Context returns the app's base context, carrying its logger.
func (a *App) Context() context.Context { return a.ctx }

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Metrics returns the application's metrics.
func (a *App) Metrics() *telemetry.Metrics { return a.metrics }

// Start launches the background services enabled by the configuration.
func (a *App) Start() {
	a.startServer()
}

// Close stops the background services.
func (a *App) Close() error {
	return a.closeServer()
}
