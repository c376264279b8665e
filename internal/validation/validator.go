package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"todolist/internal/config"
)

// Default bounds used when no configuration is supplied
const (
	DefaultMinTextLength               = 1
	DefaultProjectNameMaxLength        = 30
	DefaultProjectDescriptionMaxLength = 150
	DefaultTaskTitleMaxLength          = 30
	DefaultTaskDescriptionMaxLength    = 150
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
	now    func() time.Time
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
		now:    time.Now,
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration.
// A nil clock falls back to time.Now.
func NewValidatorWithConfig(cfg *config.Config, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		config: cfg,
		now:    now,
	}
}

// Now returns the validator's notion of the current time
func (v *Validator) Now() time.Time {
	return v.now()
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the raw string length (in characters) is within range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(s)
	return length >= min && length <= max
}

// IsValidID checks if an entity ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

func (v *Validator) projectNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ProjectNameMaxLength
	}
	return DefaultProjectNameMaxLength
}

func (v *Validator) projectDescriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ProjectDescriptionMaxLength
	}
	return DefaultProjectDescriptionMaxLength
}

func (v *Validator) taskTitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskTitleMaxLength
	}
	return DefaultTaskTitleMaxLength
}

func (v *Validator) taskDescriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskDescriptionMaxLength
	}
	return DefaultTaskDescriptionMaxLength
}
