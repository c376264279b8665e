package cli

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"todolist/internal/sweep"
)

// SweepCommand handles the sweep and scheduler commands
type SweepCommand struct {
	app          *App
	sweeper      *sweep.Sweeper
	logger       log.FieldLogger
	errorHandler *ErrorHandler
}

// NewSweepCommand creates a new sweep command handler
func NewSweepCommand(app *App, logger log.FieldLogger) *SweepCommand {
	return &SweepCommand{
		app:          app,
		sweeper:      sweep.NewSweeper(app.api, sweep.WithLogger(logger), sweep.WithClock(app.now)),
		logger:       logger,
		errorHandler: NewErrorHandler(),
	}
}

// Run performs a single sweep and prints the report
func (c *SweepCommand) Run(ctx context.Context, opts sweep.Options) error {
	report, err := c.sweeper.Run(ctx, opts)
	if err != nil {
		return c.errorHandler.Handle("sweep overdue tasks", err)
	}
	printReport(c.app.out, report)
	return nil
}

// Schedule sweeps immediately and then every interval until ctx is done
func (c *SweepCommand) Schedule(ctx context.Context, interval time.Duration, opts sweep.Options) error {
	scheduler := sweep.NewScheduler(c.sweeper, interval, opts, c.logger)
	if err := scheduler.Start(ctx); err != nil {
		return c.errorHandler.Handle("start scheduler", err)
	}
	if report := scheduler.LastReport(); report != nil {
		printReport(c.app.out, report)
	}
	c.app.printf("Sweeping every %s, press Ctrl+C to stop\n", interval)

	<-ctx.Done()
	scheduler.Stop()
	return nil
}
