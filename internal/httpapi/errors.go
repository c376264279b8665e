package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist/internal/errors"
	"todolist/internal/validation"
)

// statusFor maps an application error to an HTTP status code
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeCapacityExceeded, errors.ErrorTypeDuplicate:
		return http.StatusConflict
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError || errors.ShouldLogError(err) {
		entry := s.logger.WithError(err).WithField("path", c.FullPath())
		if appErr, ok := errors.AsAppError(err); ok {
			entry = entry.WithFields(appErr.Fields())
		}
		entry.Error("request failed")
	}

	message := errors.GetUserMessage(err)
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	body := gin.H{
		"ok":    false,
		"code":  errors.GetErrorCode(err),
		"error": message,
	}
	if ve, ok := validation.AsValidationError(err); ok {
		body["fields"] = ve.FieldMessages()
	}
	c.JSON(status, body)
}

func (s *Server) badRequest(c *gin.Context, field string, value interface{}, reason string) {
	s.respondError(c, errors.NewInvalidInputError(field, value, reason))
}

func (s *Server) invalidID(c *gin.Context, err error) {
	s.respondError(c, errors.NewValidationError("invalid id", err))
}
