package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "todolist/internal/errors"
	"todolist/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	bare := validation.NewValidationError()
	bare.AddRequiredError("name")

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "create project",
			err:       apperrors.NewValidationError("invalid project", bare),
			expected:  "failed to create project: invalid project: name is required",
		},
		{
			name:      "Bare validation error",
			operation: "create project",
			err:       bare,
			expected:  "failed to create project: name is required",
		},
		{
			name:      "Not found error",
			operation: "show task",
			err:       apperrors.NewNotFoundError("task", "42"),
			expected:  "failed to show task: task not found: 42",
		},
		{
			name:      "Capacity error",
			operation: "create project",
			err:       apperrors.NewCapacityExceededError("projects", 10),
			expected:  "failed to create project: cannot create more than 10 projects",
		},
		{
			name:      "Database error hides the driver message",
			operation: "delete project",
			err:       apperrors.NewDatabaseError("delete project", errors.New("database is locked")),
			expected:  "failed to delete project: A database error occurred. Please try again.",
		},
		{
			name:      "Regular error",
			operation: "list tasks",
			err:       errors.New("regular error"),
			expected:  "failed to list tasks: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			require.Error(t, result)
			assert.Equal(t, tt.expected, result.Error())
			assert.ErrorIs(t, result, tt.err, "the original error stays reachable")
		})
	}
}

func TestErrorHandler_HandleNil(t *testing.T) {
	assert.NoError(t, NewErrorHandler().Handle("delete task", nil))
}

func TestErrorHandler_KeepsErrorType(t *testing.T) {
	eh := NewErrorHandler()

	err := eh.Handle("show project", apperrors.NewNotFoundError("project", "3"))

	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "NOT_FOUND", apperrors.GetErrorCode(err))

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "show project", cmdErr.Operation)
}

func TestErrorHandler_IsSystemError(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Database error", apperrors.NewDatabaseError("insert", errors.New("disk full")), true},
		{"Timeout error", apperrors.NewTimeoutError("query", "10s"), true},
		{"Wrapped database error", eh.Handle("create task", apperrors.NewDatabaseError("insert", nil)), true},
		{"Validation error", apperrors.NewValidationError("invalid task", nil), false},
		{"Capacity error", apperrors.NewCapacityExceededError("tasks in a project", 100), false},
		{"Regular error", errors.New("accepts 1 arg(s), received 0"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, eh.IsSystemError(tt.err))
		})
	}
}

func TestErrorHandler_LogFields(t *testing.T) {
	eh := NewErrorHandler()

	fields := eh.LogFields(apperrors.NewNotFoundError("task", "9"))
	assert.Equal(t, "NOT_FOUND", fields["error_code"])
	assert.Equal(t, "task", fields["resource"])

	fields = eh.LogFields(errors.New("plain"))
	assert.Equal(t, "UNKNOWN_ERROR", fields["error_code"])
}
