package validation

import (
	"strings"
	"testing"
	"time"
)

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func TestTaskValidator_ValidateTitle(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		title       string
		expectError bool
		errorType   ValidationErrorType
	}{
		{"Valid title", "Write docs", false, ""},
		{"Empty title", "", true, ErrorTypeRequired},
		{"Whitespace only", "   ", true, ErrorTypeRequired},
		{"Title at maximum", strings.Repeat("t", 30), false, ""},
		{"Title too long", strings.Repeat("t", 31), true, ErrorTypeInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTitle(tt.title)

			if tt.expectError {
				if err == nil {
					t.Errorf("ValidateTitle(%q) expected error but got nil", tt.title)
					return
				}
				validationErr, ok := err.(*ValidationError)
				if !ok {
					t.Errorf("ValidateTitle(%q) expected ValidationError but got %T", tt.title, err)
					return
				}
				if validationErr.Errors[0].Type != tt.errorType {
					t.Errorf("ValidateTitle(%q) expected error type %v but got %v", tt.title, tt.errorType, validationErr.Errors[0].Type)
				}
				if validationErr.Errors[0].Field != "title" {
					t.Errorf("ValidateTitle(%q) expected field 'title' but got %s", tt.title, validationErr.Errors[0].Field)
				}
			} else if err != nil {
				t.Errorf("ValidateTitle(%q) expected no error but got %v", tt.title, err)
			}
		})
	}
}

func TestTaskValidator_ValidateDescription(t *testing.T) {
	validator := NewTaskValidator()

	if err := validator.ValidateDescription(strings.Repeat("d", 150)); err != nil {
		t.Errorf("ValidateDescription at maximum expected no error but got %v", err)
	}
	if err := validator.ValidateDescription(strings.Repeat("d", 151)); err == nil {
		t.Error("ValidateDescription above maximum expected error but got nil")
	}
	if err := validator.ValidateDescription(""); err == nil {
		t.Error("ValidateDescription for empty description expected error but got nil")
	}
}

func TestTaskValidator_ValidateTask(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	validator := NewTaskValidatorWithConfig(nil, fixedClock(now))
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	tests := []struct {
		name           string
		title          string
		description    string
		status         string
		deadline       *time.Time
		expectedFields []string
	}{
		{"Valid task without deadline", "T1", "D", "todo", nil, nil},
		{"Valid task with deadline", "T1", "D", "doing", &future, nil},
		{"Past deadline", "T1", "D", "todo", &past, []string{"deadline"}},
		{"Invalid status", "T1", "D", "blocked", nil, []string{"status"}},
		{"Everything wrong", "", "", "blocked", &past, []string{"title", "description", "status", "deadline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTask(tt.title, tt.description, tt.status, tt.deadline)

			if len(tt.expectedFields) == 0 {
				if err != nil {
					t.Errorf("ValidateTask expected no error but got %v", err)
				}
				return
			}

			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("ValidateTask expected ValidationError but got %T", err)
			}
			if len(validationErr.Errors) != len(tt.expectedFields) {
				t.Fatalf("ValidateTask expected %d errors but got %d: %v", len(tt.expectedFields), len(validationErr.Errors), err)
			}
			for i, field := range tt.expectedFields {
				if validationErr.Errors[i].Field != field {
					t.Errorf("ValidateTask error %d expected field %s but got %s", i, field, validationErr.Errors[i].Field)
				}
			}
		})
	}
}

func TestTaskValidator_ValidateDeadlineUsesClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)

	early := NewTaskValidatorWithConfig(nil, fixedClock(now))
	if err := early.ValidateDeadline(&deadline); err != nil {
		t.Errorf("ValidateDeadline before the deadline expected no error but got %v", err)
	}

	late := NewTaskValidatorWithConfig(nil, fixedClock(now.Add(2*time.Hour)))
	if err := late.ValidateDeadline(&deadline); err == nil {
		t.Error("ValidateDeadline after the deadline expected error but got nil")
	}
}
