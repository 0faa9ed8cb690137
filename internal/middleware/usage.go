package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
)

// UsageWriter defines how chat usage records are persisted.
type UsageWriter interface {
	WriteChatLog(userID, route string, status int, durationMs int64, ip, userAgent string) error
}

// UsageMiddleware logs every tutor request for usage tracking.
func UsageMiddleware(writer UsageWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		route := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		userID := "anonymous"
		if uc := GetUserContext(c); uc != nil {
			userID = uc.UserID
		}
		status := c.Response().StatusCode()
		durationMs := time.Since(start).Milliseconds()

		// Write asynchronously; all values are captured, safe to use in goroutine
		go func() {
			if writeErr := writer.WriteChatLog(userID, route, status, durationMs, ip, userAgent); writeErr != nil {
				slog.Error("failed to write chat log", "error", writeErr)
			}
		}()

		return err
	}
}
