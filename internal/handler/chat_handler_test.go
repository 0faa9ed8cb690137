package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthub/tutor-engine/internal/domain"
	"github.com/studenthub/tutor-engine/internal/middleware"
	"github.com/studenthub/tutor-engine/internal/port"
	"github.com/studenthub/tutor-engine/internal/search"
	"github.com/studenthub/tutor-engine/internal/service"
)

type stubQuota struct {
	err   error
	calls int
}

func (s *stubQuota) ConsumeQuota(ctx context.Context, userID, day string, limit int) error {
	s.calls++
	return s.err
}

var testJWTConfig = middleware.JWTConfig{
	Secret:    "test-secret",
	Issuer:    "studenthub",
	ExpiresIn: time.Hour,
}

// newChatTestApp wires the chat route behind the real JWT middleware, the
// way cmd/server does, and returns a valid bearer token for it.
func newChatTestApp(t *testing.T, quota *stubQuota) (*fiber.App, string) {
	t.Helper()

	composer := service.NewComposer(search.New([]domain.KnowledgeItem{
		{
			ID:          "html-intro",
			Title:       "Introduction to HTML",
			Description: "HTML structures every page on the web.",
			Content:     "HTML is the markup language of the web.",
			Tokens:      []string{"html", "introduction"},
			Type:        domain.KnowledgeTutorial,
			URL:         "/subjects/web/html-intro",
		},
	}))

	app := fiber.New()
	api := app.Group("/api/v1", middleware.JWTMiddleware(testJWTConfig))
	NewChatHandler(composer, quota, 50).Register(api)

	token, err := middleware.GenerateJWT(&domain.UserContext{
		UserID: "student-1",
		Email:  "student@example.com",
		Name:   "Ada",
		Role:   "student",
	}, testJWTConfig)
	require.NoError(t, err)

	return app, token
}

func postChat(t *testing.T, app *fiber.App, token, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestChatRejectsMalformedBody(t *testing.T) {
	app, token := newChatTestApp(t, &stubQuota{})

	resp := postChat(t, app, token, "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatRejectsEmptyMessages(t *testing.T) {
	app, token := newChatTestApp(t, &stubQuota{})

	resp := postChat(t, app, token, `{"messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "invalid messages format")
}

func TestChatRequiresToken(t *testing.T) {
	quota := &stubQuota{}
	app, _ := newChatTestApp(t, quota)

	resp := postChat(t, app, "", `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, quota.calls, "quota must not be charged for unauthenticated requests")
}

func TestChatQuotaExceeded(t *testing.T) {
	quota := &stubQuota{err: port.ErrQuotaExceeded}
	app, token := newChatTestApp(t, quota)

	resp := postChat(t, app, token, `{"messages":[{"role":"user","content":"explain html"}]}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Daily tutor limit reached. Come back tomorrow!")
}

func TestChatNavigateWireShape(t *testing.T) {
	quota := &stubQuota{}
	app, token := newChatTestApp(t, quota)

	resp := postChat(t, app, token, `{"messages":[{"role":"user","content":"open html please"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, quota.calls)

	var envelope struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "assistant", envelope.Role)

	// The navigate case nests a JSON payload inside the content string; the
	// chat widget parses it back out.
	var payload struct {
		Text   string `json:"text"`
		Action string `json:"action"`
		Path   string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(envelope.Content), &payload))
	assert.Equal(t, "navigate", payload.Action)
	assert.Equal(t, "/subjects/web/html-intro", payload.Path)
	assert.Contains(t, payload.Text, "Introduction to HTML")
}

func TestChatProseContentIsPlainMarkdown(t *testing.T) {
	app, token := newChatTestApp(t, &stubQuota{})

	resp := postChat(t, app, token, `{"messages":[{"role":"user","content":"explain html to me"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.False(t, strings.HasPrefix(envelope.Content, "{"), "prose replies are not JSON-encoded")
	assert.Contains(t, envelope.Content, "HTML structures every page on the web.")
}
