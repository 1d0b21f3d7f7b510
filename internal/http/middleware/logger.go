package middleware

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger logs each HTTP request as one JSON line on stdout, timestamped in UTC.
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.UTC)
}

// LoggerWithWriter logs each HTTP request as one JSON line on w.
// Fields:
// - ts (RFC 3339 in loc), level (from status)
// - request_id (set by the RequestID middleware)
// - method, path, route, status, bytes
// - latency (in milliseconds, as float)
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	enc := json.NewEncoder(w)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// status is final only after the error handler ran
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		entry := map[string]any{
			"ts":         time.Now().In(loc).Format(time.RFC3339Nano),
			"level":      levelFor(status),
			"msg":        "http_request",
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"route":      c.Route().Path,
			"status":     status,
			"bytes":      len(c.Response().Body()),
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if err != nil {
			entry["error"] = err.Error()
		}
		_ = enc.Encode(entry)

		return err
	}
}

func levelFor(status int) string {
	switch {
	case status >= fiber.StatusInternalServerError:
		return "error"
	case status >= fiber.StatusBadRequest:
		return "warn"
	default:
		return "info"
	}
}
