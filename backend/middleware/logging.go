package middleware

import (
	"time"

	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware writes one structured line per request once the handler
// (and the error handler) has produced a status.
func LoggingMiddleware(logger *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Render now so the logged status is the one the client sees.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		requestLogger := logger.With(
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
		)
		if identity, ok := CurrentIdentity(c); ok {
			requestLogger = requestLogger.With("identity_id", identity.ID)
		}

		status := c.Response().StatusCode()
		fields := []interface{}{
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			requestLogger.Error("HTTP request", fields...)
		case status >= fiber.StatusBadRequest:
			requestLogger.Warn("HTTP request", fields...)
		default:
			requestLogger.Info("HTTP request", fields...)
		}
		return nil
	}
}
