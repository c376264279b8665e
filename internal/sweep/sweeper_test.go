package sweep

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/api"
	"todolist/internal/domain"
	"todolist/internal/repository/memory"
	"todolist/internal/services"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupSweep(t *testing.T) (api.API, *Sweeper, *clock, *test.Hook) {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { store.Close() })
	c := &clock{now: testNow}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	a := api.NewFromStore(store, nil, services.WithClock(c.Now), services.WithLogger(logger))
	return a, NewSweeper(a, WithLogger(logger), WithClock(c.Now)), c, hook
}

func TestSweeper_ClosesOverdueOnce(t *testing.T) {
	// Arrange
	a, sweeper, c, hook := setupSweep(t)
	ctx := context.Background()
	project, err := a.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	deadline := testNow.Add(time.Hour)
	task, err := a.CreateTask(ctx, project.ID, "T1", "d", &deadline)
	require.NoError(t, err)
	c.Advance(24 * time.Hour)

	// Act
	first, err := sweeper.Run(ctx, Options{})
	require.NoError(t, err)
	second, err := sweeper.Run(ctx, Options{})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, first.Found)
	assert.Equal(t, 1, first.Closed)
	assert.Equal(t, 0, first.Failed)
	assert.NotEmpty(t, first.RunID)
	assert.Equal(t, c.Now(), first.StartedAt)

	assert.Equal(t, 0, second.Found)
	assert.Equal(t, 0, second.Closed)
	assert.NotEqual(t, first.RunID, second.RunID)

	stored, err := a.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, stored.Status)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, second.RunID, entry.Data["run_id"])
}

func TestSweeper_DryRun(t *testing.T) {
	// Arrange
	a, sweeper, c, _ := setupSweep(t)
	ctx := context.Background()
	project, err := a.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	deadline := testNow.Add(time.Hour)
	task, err := a.CreateTask(ctx, project.ID, "T1", "d", &deadline)
	require.NoError(t, err)
	c.Advance(2 * time.Hour)

	// Act
	report, err := sweeper.Run(ctx, Options{DryRun: true})

	// Assert
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Found)
	assert.Equal(t, 0, report.Closed)
	require.Len(t, report.Candidates, 1)
	assert.Equal(t, task.ID, report.Candidates[0].ID)

	stored, err := a.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, stored.Status)
}

func TestSweeper_ProjectScope(t *testing.T) {
	// Arrange
	a, sweeper, c, _ := setupSweep(t)
	ctx := context.Background()
	alpha, err := a.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	beta, err := a.CreateProject(ctx, "Beta", "d")
	require.NoError(t, err)
	deadline := testNow.Add(time.Hour)
	_, err = a.CreateTask(ctx, alpha.ID, "A1", "d", &deadline)
	require.NoError(t, err)
	other, err := a.CreateTask(ctx, beta.ID, "B1", "d", &deadline)
	require.NoError(t, err)
	c.Advance(2 * time.Hour)

	// Act
	report, err := sweeper.Run(ctx, Options{ProjectID: &alpha.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, report.Closed)

	stored, err := a.GetTask(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, stored.Status)
}

// fakeCloser serves a fixed overdue list and fails to close selected ids
type fakeCloser struct {
	mu       sync.Mutex
	overdue  []*domain.Task
	queryErr error
	failIDs  map[int64]bool
	closed   []int64
}

func (f *fakeCloser) GetOverdueTasks(ctx context.Context, projectID *int64) ([]*domain.Task, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.overdue, nil
}

func (f *fakeCloser) ChangeTaskStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return nil, fmt.Errorf("write failed for %d", id)
	}
	f.closed = append(f.closed, id)
	return &domain.Task{ID: id, Status: status}, nil
}

func TestSweeper_FailureDoesNotAbortBatch(t *testing.T) {
	// Arrange
	closer := &fakeCloser{
		overdue: []*domain.Task{{ID: 1}, {ID: 2}, {ID: 3}},
		failIDs: map[int64]bool{2: true},
	}
	logger, hook := test.NewNullLogger()
	sweeper := NewSweeper(closer, WithLogger(logger))

	// Act
	report, err := sweeper.Run(context.Background(), Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, report.Found)
	assert.Equal(t, 2, report.Closed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []int64{1, 3}, closer.closed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(2), report.Failures[0].TaskID)
	assert.Contains(t, report.Failures[0].Error, "write failed")

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
			assert.Equal(t, int64(2), entry.Data["task_id"])
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestSweeper_QueryFailure(t *testing.T) {
	closer := &fakeCloser{queryErr: fmt.Errorf("database unavailable")}
	logger, _ := test.NewNullLogger()
	sweeper := NewSweeper(closer, WithLogger(logger))

	report, err := sweeper.Run(context.Background(), Options{})

	assert.Error(t, err)
	assert.Nil(t, report)
}
