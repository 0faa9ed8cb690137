package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/studenthub/tutor-engine/internal/port"
)

// FallbackChunk is the single recovery message written to the sink when
// the grounded pipeline fails. Readable and non-technical: raw provider
// errors never reach the user.
const FallbackChunk = "\n\n⚠️ *Technical difficulty connecting to the AI brain. Please try again or use the search bar.*"

const strictPromptFormat = `You are a Principal Software Engineering Tutor.
STRICT RULE: Use ONLY the provided CONTEXT to answer.
If the context doesn't contain the specific answer, say "I don't have specific details on that in my official software engineering database, but I can help with general topics."

CONTEXT:
%s`

const openPrompt = `You are a helpful AI Assistant for an educational platform.
The user asked a question not found in our primary knowledge base.
Answer politely and suggest they check the official Roadmaps or Syllabus.`

// navigationPrompt teaches the model the hidden action marker protocol the
// client strips and executes. Kept verbatim across prompt variants so the
// extraction layer sees a stable wire format.
const navigationPrompt = `
IMPORTANT: You have the ability to NAVIGATE the user to specific pages.
If the user asks to "open", "go to", "show me", or "solve" a specific topic, append a HIDDEN ACTION at the very end of your response.

When navigating, do NOT just say "Opening page."
Act as a LEARNING GUIDE: explain why this topic is the next logical step before opening it.

Valid URL patterns:
1. Topic/Tutorial: /subjects/[subject-slug]/[topic-slug]
2. Practice Hub: /practice
3. Mock Interview: /practice/mock-interview
4. Coding Problems: /practice/code-problems
5. Subject: /subjects/[subject-slug]

FORMAT:
<<<ACTION:{"type":"NAVIGATE","url":"/exact/path","label":"Opening [Topic Name]..."}>>>

Rules:
- Only navigate if the user EXPLICITLY asks.
- Do NOT navigate for general "explain" questions.
- If unsure of the path, do NOT navigate.
- Put the action block at the VERY END.`

// StreamSink receives response fragments as they arrive. *bufio.Writer
// satisfies it directly.
type StreamSink interface {
	io.Writer
	Flush() error
}

// Tutor runs the grounded generation pipeline: embed the query, retrieve
// relevant corpus context, then stream a context-constrained answer.
type Tutor struct {
	ai        port.AIProvider
	retriever *Retriever
	opts      port.GenerateOptions
}

// NewTutor creates the grounded streaming service.
func NewTutor(ai port.AIProvider, retriever *Retriever, opts port.GenerateOptions) *Tutor {
	return &Tutor{ai: ai, retriever: retriever, opts: opts}
}

// StreamResponse writes the tutor's answer to the sink fragment by
// fragment. Every failure path degrades to exactly one written fallback
// chunk; the sink is always flushed before return, success or not.
func (t *Tutor) StreamResponse(ctx context.Context, query string, sink StreamSink) {
	defer sink.Flush()

	queryVector, err := t.ai.Embed(ctx, query)
	if err != nil {
		slog.Error("tutor embed failed", "error", err)
		io.WriteString(sink, FallbackChunk)
		return
	}

	retrieval := t.retriever.RetrieveContext(ctx, queryVector)

	systemPrompt := openPrompt
	if retrieval.HighConfidence {
		systemPrompt = fmt.Sprintf(strictPromptFormat, retrieval.Context)
	}
	systemPrompt += "\n" + navigationPrompt

	stream, err := t.ai.GenerateStream(ctx, systemPrompt, query, t.opts)
	if err != nil {
		slog.Error("tutor generation failed to start", "error", err)
		io.WriteString(sink, FallbackChunk)
		return
	}

	for chunk := range stream {
		if chunk.Err != nil {
			// Partial output already sent stays; append one diagnostic
			// trailer and stop.
			slog.Error("tutor stream died mid-flight", "error", chunk.Err)
			io.WriteString(sink, FallbackChunk)
			return
		}
		if chunk.Content == "" {
			continue
		}
		if _, err := sink.Write([]byte(chunk.Content)); err != nil {
			// Client went away; ctx cancellation tears down the upstream call.
			slog.Info("tutor sink closed by caller", "error", err)
			return
		}
		sink.Flush()
	}
}

// Answer runs the same pipeline non-streaming and returns the collected
// text. Used by the MCP tool surface.
func (t *Tutor) Answer(ctx context.Context, query string) string {
	var buf bufferSink
	t.StreamResponse(ctx, query, &buf)
	return buf.String()
}

type bufferSink struct {
	bytes.Buffer
}

func (b *bufferSink) Flush() error { return nil }
