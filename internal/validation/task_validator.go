package validation

import (
	"time"

	"todolist/internal/config"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator with default bounds
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured bounds and clock
func NewTaskValidatorWithConfig(cfg *config.Config, now func() time.Time) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg, now),
	}
}

// ValidateTitle validates a task title
func (tv *TaskValidator) ValidateTitle(title string) error {
	return ValidateTextLength("title", title, DefaultMinTextLength, tv.validator.taskTitleMaxLength())
}

// ValidateDescription validates a task description
func (tv *TaskValidator) ValidateDescription(description string) error {
	return ValidateTextLength("description", description, DefaultMinTextLength, tv.validator.taskDescriptionMaxLength())
}

// ValidateStatus validates a task status value
func (tv *TaskValidator) ValidateStatus(status string) error {
	return ValidateStatus(status)
}

// ValidateDeadline checks that a deadline, when set, is not in the past
func (tv *TaskValidator) ValidateDeadline(deadline *time.Time) error {
	return ValidateDeadline(deadline, tv.validator.Now())
}

// ValidateTask validates every task field and reports all failures together.
// A nil deadline is not checked.
func (tv *TaskValidator) ValidateTask(title, description, status string, deadline *time.Time) error {
	validationError := NewValidationError()

	validationError.Merge(tv.ValidateTitle(title))
	validationError.Merge(tv.ValidateDescription(description))
	validationError.Merge(tv.ValidateStatus(status))
	validationError.Merge(tv.ValidateDeadline(deadline))

	return validationError.ErrOrNil()
}
