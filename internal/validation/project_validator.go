package validation

import (
	"time"

	"todolist/internal/config"
)

// ProjectValidator provides validation for Project-related operations
type ProjectValidator struct {
	validator *Validator
}

// NewProjectValidator creates a new project validator with default bounds
func NewProjectValidator() *ProjectValidator {
	return &ProjectValidator{
		validator: NewValidator(),
	}
}

// NewProjectValidatorWithConfig creates a project validator using configured bounds
func NewProjectValidatorWithConfig(cfg *config.Config, now func() time.Time) *ProjectValidator {
	return &ProjectValidator{
		validator: NewValidatorWithConfig(cfg, now),
	}
}

// ValidateName validates a project name
func (pv *ProjectValidator) ValidateName(name string) error {
	return ValidateTextLength("name", name, DefaultMinTextLength, pv.validator.projectNameMaxLength())
}

// ValidateDescription validates a project description
func (pv *ProjectValidator) ValidateDescription(description string) error {
	return ValidateTextLength("description", description, DefaultMinTextLength, pv.validator.projectDescriptionMaxLength())
}

// ValidateProject validates both project fields and reports all failures together
func (pv *ProjectValidator) ValidateProject(name, description string) error {
	validationError := NewValidationError()

	validationError.Merge(pv.ValidateName(name))
	validationError.Merge(pv.ValidateDescription(description))

	return validationError.ErrOrNil()
}

// ValidateUniqueName checks name against the names already in use
func (pv *ProjectValidator) ValidateUniqueName(existingNames []string, name string) error {
	return ValidateUniqueName(existingNames, name)
}
