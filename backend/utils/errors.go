package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is an expected failure with a client-facing message.
// Err carries the underlying cause and is only ever logged.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func ValidationError(message string, details ...interface{}) *AppError {
	e := &AppError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func NotFound(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Status: fiber.StatusConflict, Code: CodeConflict, Message: message}
}

func Unauthenticated(message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: CodeUnauthenticated, Message: message}
}

func InvalidToken(message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: CodeInvalidToken, Message: message}
}

func InvalidCredentials(message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: CodeInvalidCredentials, Message: message}
}

// Internal hides err from the client behind message.
func Internal(message string, err error) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Code: CodeInternal, Message: message, Err: err}
}

// ErrorHandler is installed as fiber.Config.ErrorHandler. Unknown errors become a generic 500.
func ErrorHandler(logger *Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		if errors.As(err, &appErr) {
			if appErr.Status >= fiber.StatusInternalServerError {
				logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", appErr.Error())
			}
			return Error(c, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return Error(c, fiberErr.Code, "", fiberErr.Message)
		}

		logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return Error(c, fiber.StatusInternalServerError, CodeInternal, "Internal server error.")
	}
}
