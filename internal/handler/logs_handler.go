package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/studenthub/tutor-engine/internal/domain"
	"github.com/studenthub/tutor-engine/internal/middleware"
)

// ChatLogReader lists recent tutor usage records.
type ChatLogReader interface {
	ListChatLogs(ctx context.Context, limit int) ([]domain.ChatLog, error)
}

// LogsHandler exposes recent tutor usage for ops debugging.
type LogsHandler struct {
	store ChatLogReader
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(store ChatLogReader) *LogsHandler {
	return &LogsHandler{store: store}
}

// Register sets up log routes.
func (h *LogsHandler) Register(router fiber.Router) {
	ai := router.Group("/ai")
	ai.Get("/logs", h.List)
}

// List returns the latest usage records, admins only.
func (h *LogsHandler) List(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if uc.Role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	logs, err := h.store.ListChatLogs(c.Context(), 50)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}
