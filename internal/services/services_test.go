package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"todolist/internal/config"
	"todolist/internal/repository"
	"todolist/internal/repository/memory"
	"todolist/internal/repository/sqlite"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// clock is a settable time source shared by a test's services
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	store    repository.Store
	projects ProjectService
	tasks    TaskService
	clock    *clock
}

func setupServicesWithConfig(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { store.Close() })
	return newFixture(store, cfg)
}

func setupServices(t *testing.T) *fixture {
	t.Helper()
	return setupServicesWithConfig(t, nil)
}

func setupSQLiteServices(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return newFixture(store, nil)
}

func newFixture(store repository.Store, cfg *config.Config) *fixture {
	c := &clock{now: testNow}
	logger, _ := test.NewNullLogger()
	opts := []Option{WithClock(c.Now), WithLogger(logger)}
	return &fixture{
		store:    store,
		projects: NewProjectService(store, cfg, opts...),
		tasks:    NewTaskService(store, cfg, opts...),
		clock:    c,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
