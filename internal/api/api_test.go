package api

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository/memory"
	"todolist/internal/services"
	"todolist/internal/validation"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func setupTestAPI(t *testing.T) API {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { store.Close() })
	logger, _ := test.NewNullLogger()
	return NewFromStore(store, config.NewConfig(),
		services.WithClock(func() time.Time { return testNow }),
		services.WithLogger(logger))
}

// spyTaskService records CreateTask calls and delegates everything else
type spyTaskService struct {
	services.TaskService
	createCalls int
}

func (s *spyTaskService) CreateTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (*domain.Task, error) {
	s.createCalls++
	return s.TaskService.CreateTask(ctx, projectID, title, description, deadline)
}

func strPtr(s string) *string { return &s }

func TestCreateTask_ChecksProjectFirst(t *testing.T) {
	tests := []struct {
		name           string
		createProject  bool
		expectedCalls  int
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:          "should create task when project exists",
			createProject: true,
			expectedCalls: 1,
		},
		{
			name:          "should return not found without calling the task service",
			createProject: false,
			expectedCalls: 0,
			errorAssertion: func(t *testing.T, err error) {
				var appErr *errors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.True(t, appErr.IsType(errors.ErrorTypeNotFound))
				assert.Contains(t, err.Error(), "project")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := memory.New()
			defer store.Close()
			projects := services.NewProjectService(store, nil)
			spy := &spyTaskService{TaskService: services.NewTaskService(store, nil)}
			a := New(projects, spy)
			ctx := context.Background()

			projectID := int64(42)
			if tt.createProject {
				project, err := a.CreateProject(ctx, "Alpha", "d")
				require.NoError(t, err)
				projectID = project.ID
			}

			// Act
			task, err := a.CreateTask(ctx, projectID, "T1", "d", nil)

			// Assert
			assert.Equal(t, tt.expectedCalls, spy.createCalls)
			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, projectID, task.ProjectID)
		})
	}
}

func TestGetProjectAndTask_NotFound(t *testing.T) {
	a := setupTestAPI(t)
	ctx := context.Background()

	_, err := a.GetProject(ctx, 999)
	assert.True(t, errors.IsNotFound(err))

	_, err = a.GetTask(ctx, 999)
	assert.True(t, errors.IsNotFound(err))

	err = a.DeleteProject(ctx, 999)
	assert.True(t, errors.IsNotFound(err))

	err = a.DeleteTask(ctx, 999)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateProject_Patch(t *testing.T) {
	// Arrange
	a := setupTestAPI(t)
	ctx := context.Background()
	project, err := a.CreateProject(ctx, "Alpha", "first")
	require.NoError(t, err)

	// Act
	updated, err := a.UpdateProject(ctx, project.ID, ProjectPatch{Description: strPtr("changed")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Alpha", updated.Name)
	assert.Equal(t, "changed", updated.Description)

	_, err = a.UpdateProject(ctx, 999, ProjectPatch{Name: strPtr("Beta")})
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateTask_Patch(t *testing.T) {
	deadline := testNow.Add(24 * time.Hour)
	later := testNow.Add(48 * time.Hour)
	doing := domain.StatusDoing

	tests := []struct {
		name     string
		patch    TaskPatch
		expected func(t *testing.T, task *domain.Task)
	}{
		{
			name:  "should keep every field when patch is empty",
			patch: TaskPatch{},
			expected: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "T1", task.Title)
				assert.Equal(t, "first", task.Description)
				assert.Equal(t, domain.StatusTodo, task.Status)
				require.NotNil(t, task.Deadline)
				assert.True(t, deadline.Equal(*task.Deadline))
			},
		},
		{
			name:  "should change only the title and status",
			patch: TaskPatch{Title: strPtr("T2"), Status: &doing},
			expected: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "T2", task.Title)
				assert.Equal(t, "first", task.Description)
				assert.Equal(t, domain.StatusDoing, task.Status)
			},
		},
		{
			name:  "should move the deadline",
			patch: TaskPatch{Deadline: &later},
			expected: func(t *testing.T, task *domain.Task) {
				require.NotNil(t, task.Deadline)
				assert.True(t, later.Equal(*task.Deadline))
			},
		},
		{
			name:  "should clear the deadline",
			patch: TaskPatch{Deadline: &later, ClearDeadline: true},
			expected: func(t *testing.T, task *domain.Task) {
				assert.Nil(t, task.Deadline)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			a := setupTestAPI(t)
			ctx := context.Background()
			project, err := a.CreateProject(ctx, "Alpha", "d")
			require.NoError(t, err)
			task, err := a.CreateTask(ctx, project.ID, "T1", "first", &deadline)
			require.NoError(t, err)

			// Act
			updated, err := a.UpdateTask(ctx, task.ID, tt.patch)

			// Assert
			require.NoError(t, err)
			tt.expected(t, updated)
		})
	}
}

func TestListTasks_Filters(t *testing.T) {
	// Arrange
	a := setupTestAPI(t)
	ctx := context.Background()
	alpha, err := a.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	beta, err := a.CreateProject(ctx, "Beta", "d")
	require.NoError(t, err)
	t1, err := a.CreateTask(ctx, alpha.ID, "T1", "d", nil)
	require.NoError(t, err)
	_, err = a.CreateTask(ctx, alpha.ID, "T2", "d", nil)
	require.NoError(t, err)
	t3, err := a.CreateTask(ctx, beta.ID, "T3", "d", nil)
	require.NoError(t, err)
	_, err = a.ChangeTaskStatus(ctx, t1.ID, domain.StatusDone)
	require.NoError(t, err)
	_, err = a.ChangeTaskStatus(ctx, t3.ID, domain.StatusDone)
	require.NoError(t, err)
	done := domain.StatusDone
	bogus := domain.Status("bogus")

	tests := []struct {
		name          string
		filter        TaskFilter
		expectedCount int
	}{
		{"no filter", TaskFilter{}, 3},
		{"project only", TaskFilter{ProjectID: &alpha.ID}, 2},
		{"status only", TaskFilter{Status: &done}, 2},
		{"project and status", TaskFilter{ProjectID: &alpha.ID, Status: &done}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := a.ListTasks(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, tasks, tt.expectedCount)
		})
	}

	_, err = a.ListTasks(ctx, TaskFilter{Status: &bogus})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation), "status only: %v", err)
	assert.True(t, validation.IsValidationError(err))
	_, err = a.ListTasks(ctx, TaskFilter{ProjectID: &alpha.ID, Status: &bogus})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation), "project and status: %v", err)
	assert.True(t, validation.IsValidationError(err))
}

func TestDeleteProject_RemovesTasks(t *testing.T) {
	a := setupTestAPI(t)
	ctx := context.Background()
	project, err := a.CreateProject(ctx, "Alpha", "d")
	require.NoError(t, err)
	task, err := a.CreateTask(ctx, project.ID, "T1", "d", nil)
	require.NoError(t, err)

	require.NoError(t, a.DeleteProject(ctx, project.ID))

	_, err = a.GetTask(ctx, task.ID)
	assert.True(t, errors.IsNotFound(err))
}
