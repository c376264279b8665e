// Package repositorytest holds the behaviour every repository.Store adapter
// must satisfy. Adapter tests call Run with a factory for a fresh store.
package repositorytest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository"
)

// Factory returns an empty store; the suite closes it
type Factory func(t *testing.T) repository.Store

var base = time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC)

// Run executes the contract against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store repository.Store)
	}{
		{"ProjectCRUD", testProjectCRUD},
		{"ProjectAbsent", testProjectAbsent},
		{"ProjectDuplicateName", testProjectDuplicateName},
		{"ProjectCascadeDelete", testProjectCascadeDelete},
		{"TaskCRUD", testTaskCRUD},
		{"TaskAbsent", testTaskAbsent},
		{"TaskQueries", testTaskQueries},
		{"TaskOverdue", testTaskOverdue},
		{"TaskUnknownProject", testTaskUnknownProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			tt.fn(t, store)
		})
	}
}

// AddProject stores a project named name
func AddProject(t *testing.T, store repository.Store, name string) *domain.Project {
	t.Helper()
	p, err := store.Projects().Add(context.Background(), &domain.Project{
		Name:        name,
		Description: name + " description",
		CreatedAt:   base,
		UpdatedAt:   base,
	})
	require.NoError(t, err)
	return p
}

// AddTask stores a task under projectID
func AddTask(t *testing.T, store repository.Store, projectID int64, title string, status domain.Status, deadline *time.Time) *domain.Task {
	t.Helper()
	task, err := store.Tasks().Add(context.Background(), &domain.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: title + " description",
		Status:      status,
		Deadline:    deadline,
		CreatedAt:   base,
		UpdatedAt:   base,
	})
	require.NoError(t, err)
	return task
}

func at(d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func testProjectCRUD(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Projects()

	alpha := AddProject(t, store, "Alpha")
	beta := AddProject(t, store, "Beta")
	assert.Greater(t, alpha.ID, int64(0))
	assert.NotEqual(t, alpha.ID, beta.ID)

	got, err := repo.Get(ctx, alpha.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alpha", got.Name)
	assert.Equal(t, "Alpha description", got.Description)
	assert.True(t, base.Equal(got.CreatedAt))

	byName, err := repo.GetByName(ctx, "Beta")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, beta.ID, byName.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, alpha.ID, all[0].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got.Name = "Gamma"
	got.UpdatedAt = base.Add(time.Hour)
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", updated.Name)

	reloaded, err := repo.Get(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", reloaded.Name)
	assert.True(t, base.Add(time.Hour).Equal(reloaded.UpdatedAt))

	deleted, err := repo.Delete(ctx, beta.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testProjectAbsent(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Projects()

	p, err := repo.Get(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = repo.GetByName(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = repo.Update(ctx, &domain.Project{ID: 999, Name: "x", Description: "y", CreatedAt: base, UpdatedAt: base})
	assert.True(t, errors.IsNotFound(err))

	deleted, err := repo.Delete(ctx, 999)
	assert.NoError(t, err)
	assert.False(t, deleted)

	all, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func testProjectDuplicateName(t *testing.T, store repository.Store) {
	ctx := context.Background()
	AddProject(t, store, "Alpha")

	_, err := store.Projects().Add(ctx, &domain.Project{Name: "Alpha", Description: "again", CreatedAt: base, UpdatedAt: base})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDuplicate))

	count, err := store.Projects().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testProjectCascadeDelete(t *testing.T, store repository.Store) {
	ctx := context.Background()
	alpha := AddProject(t, store, "Alpha")
	beta := AddProject(t, store, "Beta")

	t1 := AddTask(t, store, alpha.ID, "T1", domain.StatusTodo, nil)
	AddTask(t, store, alpha.ID, "T2", domain.StatusDone, nil)
	other := AddTask(t, store, beta.ID, "T3", domain.StatusTodo, nil)

	deleted, err := store.Projects().Delete(ctx, alpha.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := store.Tasks().Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	remaining, err := store.Tasks().GetByParent(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	kept, err := store.Tasks().Get(ctx, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)

	count, err := store.Tasks().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testTaskCRUD(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Tasks()
	project := AddProject(t, store, "Alpha")

	deadline := base.Add(36 * time.Hour)
	task := AddTask(t, store, project.ID, "T1", domain.StatusTodo, &deadline)
	assert.Greater(t, task.ID, int64(0))

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, project.ID, got.ProjectID)
	assert.Equal(t, "T1", got.Title)
	assert.Equal(t, domain.StatusTodo, got.Status)
	require.NotNil(t, got.Deadline)
	assert.True(t, deadline.Equal(*got.Deadline))

	got.Status = domain.StatusDoing
	got.Deadline = nil
	got.UpdatedAt = base.Add(time.Minute)
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	reloaded, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDoing, reloaded.Status)
	assert.Nil(t, reloaded.Deadline)

	deleted, err := repo.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func testTaskAbsent(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Tasks()

	task, err := repo.Get(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, task)

	_, err = repo.Update(ctx, &domain.Task{ID: 42, ProjectID: 1, Title: "x", Description: "y", Status: domain.StatusTodo, CreatedAt: base, UpdatedAt: base})
	assert.True(t, errors.IsNotFound(err))

	deleted, err := repo.Delete(ctx, 42)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func testTaskQueries(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Tasks()
	alpha := AddProject(t, store, "Alpha")
	beta := AddProject(t, store, "Beta")

	AddTask(t, store, alpha.ID, "A1", domain.StatusTodo, nil)
	AddTask(t, store, alpha.ID, "A2", domain.StatusDone, nil)
	AddTask(t, store, alpha.ID, "A3", domain.StatusTodo, nil)
	AddTask(t, store, beta.ID, "B1", domain.StatusTodo, nil)

	byParent, err := repo.GetByParent(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "A3"}, titles(byParent))

	byStatus, err := repo.GetByStatus(ctx, alpha.ID, domain.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A3"}, titles(byStatus))

	none, err := repo.GetByStatus(ctx, beta.ID, domain.StatusDoing)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	n, err := repo.CountByParent(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountByParent(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func testTaskOverdue(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Tasks()
	alpha := AddProject(t, store, "Alpha")
	beta := AddProject(t, store, "Beta")

	AddTask(t, store, alpha.ID, "late-todo", domain.StatusTodo, at(time.Hour))
	AddTask(t, store, alpha.ID, "late-doing", domain.StatusDoing, at(2*time.Hour))
	AddTask(t, store, alpha.ID, "late-done", domain.StatusDone, at(time.Hour))
	AddTask(t, store, alpha.ID, "future", domain.StatusTodo, at(48*time.Hour))
	AddTask(t, store, alpha.ID, "no-deadline", domain.StatusTodo, nil)
	AddTask(t, store, alpha.ID, "boundary", domain.StatusTodo, at(24*time.Hour))
	AddTask(t, store, beta.ID, "beta-late", domain.StatusTodo, at(time.Hour))

	now := base.Add(24 * time.Hour)

	overdue, err := repo.GetOverdue(ctx, now, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"late-todo", "late-doing", "beta-late"}, titles(overdue))

	projectID := alpha.ID
	scoped, err := repo.GetOverdue(ctx, now, &projectID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"late-todo", "late-doing"}, titles(scoped))

	earlier, err := repo.GetOverdue(ctx, base, nil)
	require.NoError(t, err)
	assert.Empty(t, earlier)
}

func testTaskUnknownProject(t *testing.T, store repository.Store) {
	_, err := store.Tasks().Add(context.Background(), &domain.Task{
		ProjectID:   999,
		Title:       "orphan",
		Description: "no parent",
		Status:      domain.StatusTodo,
		CreatedAt:   base,
		UpdatedAt:   base,
	})
	assert.True(t, errors.IsNotFound(err))
}
