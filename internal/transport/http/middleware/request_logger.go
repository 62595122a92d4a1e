// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs every request with its route, status and latency.
// Server errors are logged at error level, client errors at warn.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler set the final status before logging
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := c.Response().StatusCode()
		fields := []any{
			"method", c.Method(),
			"route", c.Route().Path,
			"path", c.OriginalURL(),
			"host", c.Hostname(),
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", requestID(c),
		}
		if id := c.Params("id"); id != "" {
			fields = append(fields, "resource_id", id)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Errorw("http", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warnw("http", fields...)
		default:
			log.Infow("http", fields...)
		}
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
