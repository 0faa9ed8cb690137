package handler

import (
	"bufio"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/studenthub/tutor-engine/internal/service"
)

// streamTimeout bounds one grounded generation end to end. A hung provider
// call must not pin the connection forever.
const streamTimeout = 2 * time.Minute

// StreamHandler serves the asynchronous grounded tutor path.
type StreamHandler struct {
	tutor *service.Tutor
	quota QuotaStore
	limit int
}

// NewStreamHandler creates a new streaming handler.
func NewStreamHandler(tutor *service.Tutor, quota QuotaStore, limit int) *StreamHandler {
	return &StreamHandler{tutor: tutor, quota: quota, limit: limit}
}

// Register sets up streaming routes.
func (h *StreamHandler) Register(router fiber.Router) {
	ai := router.Group("/ai")
	ai.Post("/stream", h.Stream)
}

// Stream runs the grounded pipeline and writes raw text chunks as they
// arrive. End-of-answer is signalled by closing the transport; there is no
// structured final frame.
func (h *StreamHandler) Stream(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}

	if ok, err := consumeQuota(c, h.quota, h.limit); !ok {
		return err
	}

	// Same headers the legacy chat widget expects; chunks are raw text,
	// not SSE-framed events.
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ctx, cancel := context.WithTimeout(c.Context(), streamTimeout)
	query := body.Query

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		h.tutor.StreamResponse(ctx, query, w)
	})
}
