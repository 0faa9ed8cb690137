package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	assert.Equal(t, []string{"binary", "search", "trees"}, Tokenize("Binary Search  Trees"))
}

func TestTokenizeStripsPunctuation(t *testing.T) {
	assert.Equal(t, []string{"what", "is", "a", "heap"}, Tokenize("What is a heap?"))
}

func TestTokenizeEmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize(" \t\n "))
}

func TestTokenizeDeterministic(t *testing.T) {
	a := Tokenize("Linked Lists, explained!")
	b := Tokenize("Linked Lists, explained!")
	assert.Equal(t, a, b)
}
