// Package sweep closes overdue tasks, once on demand or on a schedule.
package sweep

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"todolist/internal/domain"
)

// TaskCloser is the part of the task service the sweep needs
type TaskCloser interface {
	GetOverdueTasks(ctx context.Context, projectID *int64) ([]*domain.Task, error)
	ChangeTaskStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
}

// Options selects what a single run touches
type Options struct {
	// ProjectID limits the run to one project; nil sweeps every project
	ProjectID *int64
	// DryRun reports the candidates without changing them
	DryRun bool
}

// Failure records a task the run could not close
type Failure struct {
	TaskID int64  `json:"task_id"`
	Error  string `json:"error"`
}

// Report describes the outcome of one run
type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	Found      int            `json:"found"`
	Closed     int            `json:"closed"`
	Failed     int            `json:"failed"`
	DryRun     bool           `json:"dry_run"`
	Failures   []Failure      `json:"failures,omitempty"`
	Candidates []*domain.Task `json:"candidates"`
}

// Sweeper marks overdue tasks as done
type Sweeper struct {
	tasks  TaskCloser
	logger log.FieldLogger
	now    func() time.Time
}

// SweeperOption configures a Sweeper
type SweeperOption func(*Sweeper)

// WithLogger replaces the standard logrus logger
func WithLogger(logger log.FieldLogger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now for the report's start time
func WithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSweeper creates a sweeper over tasks
func NewSweeper(tasks TaskCloser, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		tasks:  tasks,
		logger: log.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run closes every overdue task in scope. A failure to close one task is
// logged and recorded in the report; only a failed overdue query aborts the
// run.
func (s *Sweeper) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		DryRun:    opts.DryRun,
	}
	logger := s.logger.WithField("run_id", report.RunID)
	if opts.ProjectID != nil {
		logger = logger.WithField("project_id", *opts.ProjectID)
	}

	overdue, err := s.tasks.GetOverdueTasks(ctx, opts.ProjectID)
	if err != nil {
		logger.WithError(err).Error("overdue query failed")
		return nil, err
	}
	report.Found = len(overdue)
	report.Candidates = overdue

	if opts.DryRun {
		for _, task := range overdue {
			logger.WithFields(log.Fields{"task_id": task.ID, "deadline": task.Deadline}).Info("would close overdue task")
		}
		logger.WithField("found", report.Found).Info("dry run finished")
		return report, nil
	}

	for _, task := range overdue {
		taskLogger := logger.WithFields(log.Fields{"task_id": task.ID, "project_id": task.ProjectID})
		if _, err := s.tasks.ChangeTaskStatus(ctx, task.ID, domain.StatusDone); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, Failure{TaskID: task.ID, Error: err.Error()})
			taskLogger.WithError(err).Warn("failed to close overdue task")
			continue
		}
		report.Closed++
		taskLogger.Debug("closed overdue task")
	}

	logger.WithFields(log.Fields{
		"found":  report.Found,
		"closed": report.Closed,
		"failed": report.Failed,
	}).Info("sweep finished")
	return report, nil
}
