package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"todolist/internal/errors"
	"todolist/internal/validation"
)

// CommandError is what a failed command returns: a one-line message for the
// terminal that still unwraps to the error behind it
type CommandError struct {
	Operation string
	Message   string
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ErrorHandler turns service errors into CommandErrors
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle describes err as the failure of operation. A nil err stays nil.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}

	message := err.Error()
	if _, ok := errors.AsAppError(err); ok {
		message = errors.GetUserMessage(err)
	} else if ve, ok := validation.AsValidationError(err); ok {
		// bare validation errors come from the CLI's own parsing
		message = ve.GetUserFriendlyMessage()
	}

	return &CommandError{Operation: operation, Message: message, Err: err}
}

// IsSystemError reports whether err is an application error caused by the
// system (storage, timeouts) rather than by the user's input
func (eh *ErrorHandler) IsSystemError(err error) bool {
	return errors.IsAppError(err) && errors.ShouldLogError(err)
}

// LogFields describes err for the log
func (eh *ErrorHandler) LogFields(err error) log.Fields {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Fields()
	}
	return log.Fields{"error_code": errors.GetErrorCode(err)}
}
