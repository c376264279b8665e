package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"todolist/internal/domain"
)

// ValidateTextLength fails when text is blank after trimming, or when the
// character count of the raw text falls outside [min, max].
func ValidateTextLength(field, text string, min, max int) error {
	var v Validator
	validationError := NewValidationError()

	if !v.IsNonEmptyString(text) {
		validationError.AddRequiredError(field)
		return validationError
	}

	if !v.IsValidStringLength(text, min, max) {
		validationError.AddInvalidLengthError(field, text, min, max)
	}

	return validationError.ErrOrNil()
}

// ValidateStatus fails unless status is one of todo, doing or done
func ValidateStatus(status string) error {
	statuses := domain.Statuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		if string(s) == status {
			return nil
		}
		names[i] = string(s)
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError("status", status,
		fmt.Sprintf("must be one of: %s", strings.Join(names, ", ")))
	return validationError
}

// ValidateID fails unless id is a positive entity ID
func ValidateID(field string, id int64) error {
	var v Validator
	if v.IsValidID(id) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError(field, id, "must be a positive integer")
	return validationError
}

// ParseID reads raw as a decimal entity ID. Text that is not a number fails
// the same way as a non-positive ID.
func ParseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError(field, raw, "must be a positive integer")
		return 0, validationError
	}
	if err := ValidateID(field, id); err != nil {
		return 0, err
	}
	return id, nil
}

// ValidateDeadline fails when deadline is set and strictly earlier than now
func ValidateDeadline(deadline *time.Time, now time.Time) error {
	if deadline == nil || !deadline.Before(now) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidRangeError("deadline", *deadline, "cannot be in the past")
	return validationError
}

// ValidateUniqueName fails when candidate already appears in existingNames.
// The comparison is exact and case-sensitive.
func ValidateUniqueName(existingNames []string, candidate string) error {
	for _, name := range existingNames {
		if name == candidate {
			validationError := NewValidationError()
			validationError.AddDuplicateError("name", candidate)
			return validationError
		}
	}
	return nil
}
