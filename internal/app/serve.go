package app

import (
	"context"

	"github.com/specialistvlad/tracegraph/internal/server"
)

// Serve runs the HTTP service until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Serve started.", "addr", a.config.Server.Addr, "store", a.pipeline.Store().Backend().Name())
	return server.New(a.logger, a.pipeline, a.config.Server).Run(ctx)
}
