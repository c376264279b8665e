package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected string
	}{
		{"No errors", nil, "validation error"},
		{"Single error", []FieldError{{Field: "name", Message: "name is required"}}, "validation error for field 'name': name is required"},
		{"Multiple errors", []FieldError{
			{Field: "name", Message: "name is required"},
			{Field: "description", Message: "description is required"},
		}, "multiple validation errors: validation error for field 'name': name is required; validation error for field 'description': description is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			assert.Equal(t, tt.expected, ve.Error())
		})
	}
}

func TestValidationError_AddHelpers(t *testing.T) {
	tests := []struct {
		name        string
		add         func(ve *ValidationError)
		field       string
		errorType   ValidationErrorType
		wantMessage string
	}{
		{
			name:        "Required",
			add:         func(ve *ValidationError) { ve.AddRequiredError("title") },
			field:       "title",
			errorType:   ErrorTypeRequired,
			wantMessage: "title is required",
		},
		{
			name:        "Length with both bounds",
			add:         func(ve *ValidationError) { ve.AddInvalidLengthError("name", "", 1, 30) },
			field:       "name",
			errorType:   ErrorTypeInvalidLength,
			wantMessage: "name must be between 1 and 30 characters long",
		},
		{
			name:        "Length with only a maximum",
			add:         func(ve *ValidationError) { ve.AddInvalidLengthError("description", "", 0, 150) },
			field:       "description",
			errorType:   ErrorTypeInvalidLength,
			wantMessage: "description must be at most 150 characters long",
		},
		{
			name:        "Length with only a minimum",
			add:         func(ve *ValidationError) { ve.AddInvalidLengthError("title", "", 2, 0) },
			field:       "title",
			errorType:   ErrorTypeInvalidLength,
			wantMessage: "title must be at least 2 characters long",
		},
		{
			name:        "Invalid value",
			add:         func(ve *ValidationError) { ve.AddInvalidValueError("status", "archived", "must be one of: todo, doing, done") },
			field:       "status",
			errorType:   ErrorTypeInvalidValue,
			wantMessage: `status "archived" is not allowed, must be one of: todo, doing, done`,
		},
		{
			name:        "Invalid range",
			add:         func(ve *ValidationError) { ve.AddInvalidRangeError("deadline", "2023-01-01", "cannot be in the past") },
			field:       "deadline",
			errorType:   ErrorTypeInvalidRange,
			wantMessage: "deadline cannot be in the past",
		},
		{
			name:        "Duplicate",
			add:         func(ve *ValidationError) { ve.AddDuplicateError("name", "Alpha") },
			field:       "name",
			errorType:   ErrorTypeDuplicate,
			wantMessage: `name must be unique, "Alpha" is already taken`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.add(ve)

			require.Len(t, ve.Errors, 1)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
			assert.Equal(t, tt.errorType, ve.Errors[0].Type)
			assert.Equal(t, tt.wantMessage, ve.Errors[0].Message)
		})
	}
}

func TestValidationError_Merge(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("name")

	other := NewValidationError()
	other.AddRequiredError("description")
	ve.Merge(other)
	ve.Merge(fmt.Errorf("not a validation error"))
	ve.Merge(nil)

	require.Len(t, ve.Errors, 2)
	assert.Equal(t, "description", ve.Errors[1].Field)
}

func TestValidationError_ErrOrNil(t *testing.T) {
	ve := NewValidationError()
	assert.NoError(t, ve.ErrOrNil())
	assert.False(t, ve.HasErrors())

	ve.AddRequiredError("title")
	assert.True(t, ve.HasErrors())
	assert.Same(t, ve, ve.ErrOrNil())
}

func TestValidationError_GetFieldErrors(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("name")
	ve.AddInvalidLengthError("description", "", 1, 150)
	ve.AddDuplicateError("name", "Alpha")

	assert.Len(t, ve.GetFieldErrors("name"), 2)
	assert.Len(t, ve.GetFieldErrors("description"), 1)
	assert.Empty(t, ve.GetFieldErrors("deadline"))
}

func TestValidationError_FieldMessages(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("title")
	ve.AddInvalidRangeError("deadline", "2023-01-01", "cannot be in the past")

	assert.Equal(t, map[string][]string{
		"title":    {"title is required"},
		"deadline": {"deadline cannot be in the past"},
	}, ve.FieldMessages())
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected string
	}{
		{"No errors", nil, "Input validation failed"},
		{"Single error", []FieldError{{Field: "name", Message: "name is required"}}, "name is required"},
		{"Multiple errors", []FieldError{
			{Field: "name", Message: "name is required"},
			{Field: "description", Message: "description is required"},
		}, "Multiple validation errors occurred:\n- name is required\n- description is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			assert.Equal(t, tt.expected, ve.GetUserFriendlyMessage())
		})
	}
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("name")

	assert.True(t, IsValidationError(ve))
	assert.True(t, IsValidationError(fmt.Errorf("create project: %w", ve)))
	assert.False(t, IsValidationError(&FieldError{Field: "name", Message: "name is required"}))
	assert.False(t, IsValidationError(nil))
}

func TestAsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("title")

	got, ok := AsValidationError(fmt.Errorf("create task: %w", ve))
	require.True(t, ok)
	assert.Same(t, ve, got)

	_, ok = AsValidationError(fmt.Errorf("plain"))
	assert.False(t, ok)
}
