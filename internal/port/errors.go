package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrEmbeddingEmpty means the provider answered but returned no usable
	// vector. Never substituted with a zero vector, which would silently
	// corrupt similarity ranking downstream.
	ErrEmbeddingEmpty = errors.New("embedding response contained no vector")

	// ErrAIUnavailable covers transport, auth and non-200 failures talking
	// to the AI provider.
	ErrAIUnavailable = errors.New("ai provider unavailable")

	ErrQuotaExceeded = errors.New("daily chat quota exceeded")
	ErrUnauthorized  = errors.New("unauthorized")
)
