package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/tracegraph/internal/converter"
	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graphstore"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/pipeline"
	"github.com/specialistvlad/tracegraph/internal/telemetry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *metatype.Registry
	pipeline *pipeline.Pipeline

	shutdownTelemetry telemetry.ShutdownFunc
}

// NewApp builds the application. Results are written to outW and logs to
// logW. A broken metatype catalog is a fatal startup error and panics; the
// store and telemetry report failures through the returned error.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	reg := metatype.NewDefault()
	if len(cfg.CatalogPaths) > 0 {
		if err := reg.LoadCatalogs(ctx, cfg.CatalogPaths...); err != nil {
			panic(fmt.Errorf("failed to load metatype catalogs: %w", err))
		}
	}
	logger.Debug("Metatype registry ready.", "metatypes", reg.Len(), "catalogs", len(cfg.CatalogPaths))

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise telemetry: %w", err)
	}

	store, err := graphstore.Open(ctx, cfg.Store, reg, logger)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to open graph store: %w", err)
	}
	logger.Debug("Graph store opened.", "backend", store.Backend().Name())

	return &App{
		outW:              outW,
		logger:            logger,
		config:            cfg,
		registry:          reg,
		pipeline:          pipeline.New(converter.New(reg), store),
		shutdownTelemetry: shutdown,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *metatype.Registry {
	return a.registry
}

// Close releases the store and flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	a.logger.Debug("Closing application.")
	storeErr := a.pipeline.Store().Close()
	telErr := a.shutdownTelemetry(ctx)
	if storeErr != nil {
		return fmt.Errorf("failed to close graph store: %w", storeErr)
	}
	return telErr
}

// context attaches the application logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
