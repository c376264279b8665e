package cli

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"todolist/internal/httpapi"
	"todolist/internal/sweep"
)

// ServeCommand runs the HTTP API, optionally with the sweep scheduler
type ServeCommand struct {
	app          *App
	logger       log.FieldLogger
	errorHandler *ErrorHandler
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App, logger log.FieldLogger) *ServeCommand {
	return &ServeCommand{
		app:          app,
		logger:       logger,
		errorHandler: NewErrorHandler(),
	}
}

// Run serves on addr until ctx is done. A zero interval disables the
// scheduler.
func (c *ServeCommand) Run(ctx context.Context, addr string, interval time.Duration) error {
	sweeper := sweep.NewSweeper(c.app.api, sweep.WithLogger(c.logger), sweep.WithClock(c.app.now))

	if interval > 0 {
		scheduler := sweep.NewScheduler(sweeper, interval, sweep.Options{DryRun: c.app.config.Sweep.DryRun}, c.logger)
		if err := scheduler.Start(ctx); err != nil {
			return c.errorHandler.Handle("start scheduler", err)
		}
		defer scheduler.Stop()
	}

	server := httpapi.NewServer(c.app.api, sweeper, c.app.config.HTTP, c.logger)
	if err := server.Run(ctx, addr); err != nil {
		return c.errorHandler.Handle("serve http", err)
	}
	return nil
}
