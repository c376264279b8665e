package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DefaultInterval is used when a scheduler is created with a zero interval
const DefaultInterval = 15 * time.Minute

// Scheduler runs the sweeper once at start and then every interval
type Scheduler struct {
	sweeper  *Sweeper
	interval time.Duration
	opts     Options
	logger   log.FieldLogger

	mu       sync.Mutex
	started  bool
	stopping bool
	firstRun sync.WaitGroup
	cron     *cron.Cron
	cancel   context.CancelFunc
	last     *Report
	runs     int
}

// NewScheduler creates a scheduler; call Start to begin sweeping
func NewScheduler(sweeper *Sweeper, interval time.Duration, opts Options, logger log.FieldLogger) *Scheduler {
	if interval == 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		opts:     opts,
		logger:   logger,
	}
}

// Start performs one sweep immediately and then registers the periodic job.
// Runs that would overlap a sweep still in progress are skipped. When Stop
// is called during the first sweep, the periodic job is never started.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval < 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	cronLogger := cron.PrintfLogger(s.logger)
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.runOnce(runCtx) }); err != nil {
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	s.started = true
	s.cancel = cancel
	s.firstRun.Add(1)
	s.mu.Unlock()

	s.runOnce(runCtx)

	s.mu.Lock()
	stopping := s.stopping
	if !stopping {
		c.Start()
		s.cron = c
	}
	s.mu.Unlock()
	s.firstRun.Done()

	if stopping {
		s.logger.Info("sweep scheduler stopped during its first run")
		return nil
	}
	s.logger.WithField("interval", s.interval.String()).Info("sweep scheduler started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopping {
		s.mu.Unlock()
		return
	}
	s.stopping = true
	s.mu.Unlock()

	// Start publishes the cron only once its first sweep is over
	s.firstRun.Wait()

	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	cancel()

	s.mu.Lock()
	s.started, s.stopping = false, false
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()
	s.logger.Info("sweep scheduler stopped")
}

// LastReport returns the report of the most recent successful run
func (s *Scheduler) LastReport() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Runs returns how many sweeps have been attempted
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) runOnce(ctx context.Context) {
	report, err := s.sweeper.Run(ctx, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if err != nil {
		// already logged by the sweeper; the next tick tries again
		return
	}
	s.last = report
}
