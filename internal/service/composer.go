package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/studenthub/tutor-engine/internal/domain"
	"github.com/studenthub/tutor-engine/internal/search"
)

// FallbackMessage is the terminal answer for queries the corpus cannot
// ground. The composer never claims an answer it cannot back with indexed
// material.
const FallbackMessage = "I couldn't find that in the course materials. Try rephrasing, or browse the roadmaps and syllabus for the topic you're after."

// GreetingMessage answers simple hellos with a capability hint.
const GreetingMessage = "Hello! I'm your AI Tutor. I can search the course materials, explain your code, and open topics for you. What are you working on?"

const codeExcerptLen = 50

var navigationIntent = regexp.MustCompile(`(?i)\b(open|go to|show me|navigate)\b`)

// Composer turns a conversation plus ambient context into a tutor reply.
// It is a pure function of its inputs and the static corpus: no side
// effects, safe for unlimited concurrent use.
type Composer struct {
	index *search.Index
}

// NewComposer creates a composer over the given lexical index.
func NewComposer(index *search.Index) *Composer {
	return &Composer{index: index}
}

// GenerateReply picks a response strategy for the latest user message.
// Decision order, first match wins: code-context explanation, knowledge
// lookup (with optional navigation action), greeting, terminal fallback.
func (c *Composer) GenerateReply(messages []domain.ChatMessage, ctxData domain.ContextData) domain.Reply {
	if len(messages) == 0 {
		return domain.Reply{Text: FallbackMessage}
	}

	message := messages[len(messages)-1].Content
	lowerMsg := strings.ToLower(message)

	if ctxData.CurrentCode != "" && (strings.Contains(lowerMsg, "explain") || strings.Contains(lowerMsg, "code")) {
		return domain.Reply{Text: c.explainCode(ctxData)}
	}

	if results := c.index.Search(message, ctxData.ProblemTitle); len(results) > 0 {
		return c.knowledgeReply(lowerMsg, results)
	}

	if strings.Contains(lowerMsg, "hello") || strings.Contains(lowerMsg, "hi") {
		return domain.Reply{Text: GreetingMessage}
	}

	return domain.Reply{Text: FallbackMessage}
}

// explainCode answers from the ambient editor snapshot without consulting
// the index.
func (c *Composer) explainCode(ctxData domain.ContextData) string {
	title := ctxData.ProblemTitle
	if title == "" {
		title = "your code"
	}

	// Truncate on rune boundaries; code snippets can carry multi-byte
	// characters in string literals and comments.
	excerpt := ctxData.CurrentCode
	if runes := []rune(excerpt); len(runes) > codeExcerptLen {
		excerpt = string(runes[:codeExcerptLen]) + "..."
	}

	return fmt.Sprintf("I see you're working on **%s** in *%s*.\n\nYour code:\n```%s\n%s\n```\n\nWalk me through what you expect it to do and I'll explain the logic step by step.",
		title, ctxData.Language, ctxData.Language, excerpt)
}

// knowledgeReply renders the top search result, either as a navigation
// action (explicit intent or a direct topic match) or as grounded prose
// with related topics.
func (c *Composer) knowledgeReply(lowerMsg string, results []domain.KnowledgeItem) domain.Reply {
	top := results[0]

	directMatch := len(lowerMsg) > 3 && strings.Contains(strings.ToLower(top.Title), lowerMsg)
	wantsNavigation := navigationIntent.MatchString(lowerMsg)

	if (wantsNavigation || directMatch) && top.URL != "" {
		return domain.Reply{
			Text:   fmt.Sprintf("Found **%s**, opening it for you...", top.Title),
			Action: &domain.NavigateAction{Path: top.URL},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n%s", top.Title, top.Description)
	if top.URL != "" {
		fmt.Fprintf(&b, "\n\n[Read the full topic](%s)", top.URL)
	}

	if len(results) > 1 {
		b.WriteString("\n\nRelated topics:")
		for _, item := range results[1:] {
			fmt.Fprintf(&b, "\n- %s", item.Title)
		}
	}

	return domain.Reply{Text: b.String()}
}
