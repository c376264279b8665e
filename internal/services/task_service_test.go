package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/errors"
)

func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		description    string
		deadline       *time.Time
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:        "should create task without deadline",
			title:       "Write docs",
			description: "README",
		},
		{
			name:        "should create task with future deadline",
			title:       "Write docs",
			description: "README",
			deadline:    timePtr(testNow.Add(24 * time.Hour)),
		},
		{
			name:        "should accept a deadline equal to now",
			title:       "Write docs",
			description: "README",
			deadline:    timePtr(testNow),
		},
		{
			name:        "should return validation error for past deadline",
			title:       "Write docs",
			description: "README",
			deadline:    timePtr(testNow.Add(-time.Minute)),
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "deadline")
			},
		},
		{
			name:        "should return validation error for empty title",
			title:       "  ",
			description: "README",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "title")
			},
		},
		{
			name:        "should return validation error for long description",
			title:       "Write docs",
			description: strings.Repeat("d", 151),
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "description")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := setupServices(t)
			ctx := context.Background()
			project, err := f.projects.CreateProject(ctx, "Alpha", "d")
			require.NoError(t, err)

			// Act
			result, err := f.tasks.CreateTask(ctx, project.ID, tt.title, tt.description, tt.deadline)

			// Assert
			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Greater(t, result.ID, int64(0))
			assert.Equal(t, project.ID, result.ProjectID)
			assert.Equal(t, domain.StatusTodo, result.Status)
			assert.Equal(t, tt.deadline, result.Deadline)
		})
	}
}

func TestTaskService_CreateTask_Capacity(t *testing.T) {
	// Arrange
	cfg := config.NewConfig()
	cfg.Limits.MaxTasksPerProject = 2
	f := setupServicesWithConfig(t, cfg)
	ctx := context.Background()
	full, err := f.projects.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	other, err := f.projects.CreateProject(ctx, "Beta", "d")
	require.NoError(t, err)
	for _, title := range []string{"T1", "T2"} {
		_, err := f.tasks.CreateTask(ctx, full.ID, title, "d", nil)
		require.NoError(t, err)
	}

	// Act
	_, err = f.tasks.CreateTask(ctx, full.ID, "T3", "d", nil)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeCapacityExceeded))
	assert.Equal(t, "cannot create more than 2 tasks in a project", errors.GetUserMessage(err))

	// The limit is per project
	_, err = f.tasks.CreateTask(ctx, other.ID, "T3", "d", nil)
	assert.NoError(t, err)
}

func TestTaskService_CreateTask_UnknownProject(t *testing.T) {
	f := setupSQLiteServices(t)

	_, err := f.tasks.CreateTask(context.Background(), 404, "T1", "d", nil)

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestTaskService_GetTask(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	project, err := f.projects.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	created, err := f.tasks.CreateTask(ctx, project.ID, "T1", "d", nil)
	require.NoError(t, err)

	got, err := f.tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	missing, err := f.tasks.GetTask(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTaskService_UpdateTask(t *testing.T) {
	deadline := testNow.Add(2 * time.Hour)

	tests := []struct {
		name           string
		advance        time.Duration
		title          string
		status         domain.Status
		deadline       *time.Time
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "should update every field",
			title:    "Renamed",
			status:   domain.StatusDoing,
			deadline: timePtr(testNow.Add(48 * time.Hour)),
		},
		{
			name:     "should keep an unchanged deadline that has passed",
			advance:  3 * time.Hour,
			title:    "Renamed",
			status:   domain.StatusDone,
			deadline: timePtr(deadline),
		},
		{
			name:     "should clear the deadline",
			title:    "Renamed",
			status:   domain.StatusTodo,
			deadline: nil,
		},
		{
			name:     "should reject a new past deadline",
			advance:  3 * time.Hour,
			title:    "Renamed",
			status:   domain.StatusTodo,
			deadline: timePtr(deadline.Add(-time.Minute)),
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name:     "should reject an unknown status",
			title:    "Renamed",
			status:   domain.Status("blocked"),
			deadline: timePtr(deadline),
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "status")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := setupServices(t)
			ctx := context.Background()
			project, err := f.projects.CreateProject(ctx, "Alpha", "d")
			require.NoError(t, err)
			task, err := f.tasks.CreateTask(ctx, project.ID, "T1", "d", timePtr(deadline))
			require.NoError(t, err)
			f.clock.Advance(tt.advance)

			// Act
			result, err := f.tasks.UpdateTask(ctx, task.ID, tt.title, "new description", tt.status, tt.deadline)

			// Assert
			stored, getErr := f.tasks.GetTask(ctx, task.ID)
			require.NoError(t, getErr)
			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Equal(t, task, stored)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, result.Title)
			assert.Equal(t, tt.status, stored.Status)
			assert.Equal(t, tt.deadline, stored.Deadline)
			assert.Equal(t, testNow.Add(tt.advance), stored.UpdatedAt)
		})
	}
}

func TestTaskService_UpdateTask_NotFound(t *testing.T) {
	f := setupServices(t)

	_, err := f.tasks.UpdateTask(context.Background(), 7, "T", "d", domain.StatusTodo, nil)
	assert.True(t, errors.IsNotFound(err))

	_, err = f.tasks.ChangeTaskStatus(context.Background(), 7, domain.StatusDone)
	assert.True(t, errors.IsNotFound(err))
}

func TestTaskService_ChangeTaskStatus(t *testing.T) {
	// Arrange
	f := setupServices(t)
	ctx := context.Background()
	project, err := f.projects.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, project.ID, "T1", "d", nil)
	require.NoError(t, err)

	// Any transition is allowed, including reopening and repeating the current status
	previous := task.UpdatedAt
	for _, status := range []domain.Status{domain.StatusDone, domain.StatusDone, domain.StatusTodo, domain.StatusDoing, domain.StatusDoing} {
		f.clock.Advance(time.Minute)
		updated, err := f.tasks.ChangeTaskStatus(ctx, task.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		assert.True(t, updated.UpdatedAt.After(previous), "%s: updated_at should move forward", status)
		assert.True(t, updated.UpdatedAt.Equal(f.clock.Now()))
		previous = updated.UpdatedAt
	}

	_, err = f.tasks.ChangeTaskStatus(ctx, task.ID, domain.Status("archived"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	stored, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDoing, stored.Status)
}

func TestTaskService_Listing(t *testing.T) {
	// Arrange
	f := setupServices(t)
	ctx := context.Background()
	alpha, err := f.projects.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	beta, err := f.projects.CreateProject(ctx, "Beta", "d")
	require.NoError(t, err)
	t1, err := f.tasks.CreateTask(ctx, alpha.ID, "T1", "d", nil)
	require.NoError(t, err)
	t2, err := f.tasks.CreateTask(ctx, alpha.ID, "T2", "d", nil)
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, beta.ID, "T3", "d", nil)
	require.NoError(t, err)
	_, err = f.tasks.ChangeTaskStatus(ctx, t2.ID, domain.StatusDoing)
	require.NoError(t, err)

	// Act
	all, err := f.tasks.ListTasks(ctx)
	require.NoError(t, err)
	byProject, err := f.tasks.GetTasksByProject(ctx, alpha.ID)
	require.NoError(t, err)
	todo, err := f.tasks.GetTasksByStatus(ctx, alpha.ID, domain.StatusTodo)
	require.NoError(t, err)
	unknownProject, err := f.tasks.GetTasksByProject(ctx, 999)
	require.NoError(t, err)

	// Assert
	assert.Len(t, all, 3)
	assert.Len(t, byProject, 2)
	require.Len(t, todo, 1)
	assert.Equal(t, t1.ID, todo[0].ID)
	assert.Empty(t, unknownProject)

	_, err = f.tasks.GetTasksByStatus(ctx, alpha.ID, domain.Status("later"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestTaskService_DeleteTask(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	project, err := f.projects.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, project.ID, "T1", "d", nil)
	require.NoError(t, err)

	deleted, err := f.tasks.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.tasks.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err := f.projects.ProjectExists(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTaskService_GetOverdueTasks(t *testing.T) {
	for name, setup := range map[string]func(t *testing.T) *fixture{
		"memory": setupServices,
		"sqlite": setupSQLiteServices,
	} {
		t.Run(name, func(t *testing.T) {
			// Arrange
			f := setup(t)
			ctx := context.Background()
			alpha, err := f.projects.CreateProject(ctx, "Alpha", "d")
			require.NoError(t, err)
			beta, err := f.projects.CreateProject(ctx, "Beta", "d")
			require.NoError(t, err)

			soon, err := f.tasks.CreateTask(ctx, alpha.ID, "soon", "d", timePtr(testNow.Add(time.Hour)))
			require.NoError(t, err)
			finished, err := f.tasks.CreateTask(ctx, alpha.ID, "finished", "d", timePtr(testNow.Add(time.Hour)))
			require.NoError(t, err)
			_, err = f.tasks.CreateTask(ctx, alpha.ID, "later", "d", timePtr(testNow.Add(72*time.Hour)))
			require.NoError(t, err)
			_, err = f.tasks.CreateTask(ctx, alpha.ID, "open", "d", nil)
			require.NoError(t, err)
			other, err := f.tasks.CreateTask(ctx, beta.ID, "other", "d", timePtr(testNow.Add(time.Hour)))
			require.NoError(t, err)
			_, err = f.tasks.ChangeTaskStatus(ctx, finished.ID, domain.StatusDone)
			require.NoError(t, err)

			// Nothing is overdue at the deadline itself
			f.clock.Advance(time.Hour)
			overdue, err := f.tasks.GetOverdueTasks(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, overdue)

			// Act
			f.clock.Advance(time.Second)
			overdue, err = f.tasks.GetOverdueTasks(ctx, nil)
			require.NoError(t, err)
			scoped, err := f.tasks.GetOverdueTasks(ctx, &alpha.ID)
			require.NoError(t, err)

			// Assert
			require.Len(t, overdue, 2)
			assert.Equal(t, soon.ID, overdue[0].ID)
			assert.Equal(t, other.ID, overdue[1].ID)
			require.Len(t, scoped, 1)
			assert.Equal(t, soon.ID, scoped[0].ID)
		})
	}
}
