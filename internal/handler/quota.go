package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/studenthub/tutor-engine/internal/middleware"
	"github.com/studenthub/tutor-engine/internal/port"
)

// QuotaStore enforces the per-user daily request limit.
type QuotaStore interface {
	ConsumeQuota(ctx context.Context, userID string, day string, limit int) error
}

// consumeQuota charges the current request against the caller's daily
// allowance and writes the 401/429/500 response itself when the request
// may not proceed. Returns true when the handler should continue.
func consumeQuota(c fiber.Ctx, quota QuotaStore, limit int) (bool, error) {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	day := time.Now().UTC().Format("2006-01-02")
	if err := quota.ConsumeQuota(c.Context(), uc.UserID, day, limit); err != nil {
		if errors.Is(err, port.ErrQuotaExceeded) {
			return false, c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Daily tutor limit reached. Come back tomorrow!",
			})
		}
		return false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return true, nil
}
