// Package nlp holds the small text-normalization helpers shared by the
// lexical search path.
package nlp

import "strings"

// Tokenize normalizes free text into an ordered sequence of lowercase
// tokens. Pure and deterministic; empty or whitespace-only input yields an
// empty slice, which callers treat as "no query intent".
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f == "" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
