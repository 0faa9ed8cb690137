package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/studenthub/tutor-engine/internal/domain"
	"github.com/studenthub/tutor-engine/internal/service"
)

// ChatHandler serves the synchronous lexical tutor path.
type ChatHandler struct {
	composer *service.Composer
	quota    QuotaStore
	limit    int
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(composer *service.Composer, quota QuotaStore, limit int) *ChatHandler {
	return &ChatHandler{composer: composer, quota: quota, limit: limit}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	ai := router.Group("/ai")
	ai.Post("/chat", h.Chat)
}

// Chat answers one conversation turn from the lexical knowledge index.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var body struct {
		Messages []domain.ChatMessage `json:"messages"`
		Context  domain.ContextData   `json:"context"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(body.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid messages format"})
	}

	if ok, err := consumeQuota(c, h.quota, h.limit); !ok {
		return err
	}

	reply := h.composer.GenerateReply(body.Messages, body.Context)

	return c.JSON(fiber.Map{
		"role":    domain.RoleAssistant,
		"content": encodeReply(reply),
	})
}

// encodeReply flattens the tagged reply into the wire shape the chat
// widget consumes: plain markdown, or a JSON string carrying the navigate
// action. Encoding happens exactly once, here at the boundary.
func encodeReply(reply domain.Reply) string {
	if reply.Action == nil {
		return reply.Text
	}

	payload, err := json.Marshal(struct {
		Text   string `json:"text"`
		Action string `json:"action"`
		Path   string `json:"path"`
	}{
		Text:   reply.Text,
		Action: "navigate",
		Path:   reply.Action.Path,
	})
	if err != nil {
		return reply.Text
	}
	return string(payload)
}
