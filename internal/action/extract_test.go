package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNavigateAction(t *testing.T) {
	text := "Let's continue with arrays.\n\n<<<ACTION:{\"type\":\"NAVIGATE\",\"url\":\"/x\"}>>>"

	cleaned, a := Extract(text)
	require.NotNil(t, a)
	assert.Equal(t, TypeNavigate, a.Type)
	assert.Equal(t, "/x", a.URL)
	assert.Equal(t, "Let's continue with arrays.\n\n", cleaned)
	assert.NotContains(t, cleaned, "<<<ACTION")
}

func TestExtractStripsOnlyTheMarker(t *testing.T) {
	text := "Take a look:  \n<<<ACTION:{\"type\":\"NAVIGATE\",\"url\":\"/subjects/css\"}>>>\ntrailing note"

	cleaned, a := Extract(text)
	require.NotNil(t, a)
	assert.Equal(t, "Take a look:  \n\ntrailing note", cleaned)
}

func TestExtractMarkerMidText(t *testing.T) {
	text := "before <<<ACTION:{\"type\":\"NAVIGATE\",\"url\":\"/practice\",\"label\":\"Opening...\"}>>> after"

	cleaned, a := Extract(text)
	require.NotNil(t, a)
	assert.Equal(t, "/practice", a.URL)
	assert.Equal(t, "Opening...", a.Label)
	assert.Equal(t, "before  after", cleaned)
}

func TestExtractMalformedJSONLeavesTextUnchanged(t *testing.T) {
	text := "answer <<<ACTION:{not-json}>>>"

	cleaned, a := Extract(text)
	assert.Nil(t, a)
	assert.Equal(t, text, cleaned)
}

func TestExtractUnknownTypeIgnored(t *testing.T) {
	text := "hi <<<ACTION:{\"type\":\"DELETE\",\"url\":\"/x\"}>>>"

	cleaned, a := Extract(text)
	assert.Nil(t, a)
	assert.Equal(t, text, cleaned)
}

func TestExtractMissingURLIgnored(t *testing.T) {
	text := "hi <<<ACTION:{\"type\":\"NAVIGATE\"}>>>"

	cleaned, a := Extract(text)
	assert.Nil(t, a)
	assert.Equal(t, text, cleaned)
}

func TestExtractNoMarker(t *testing.T) {
	cleaned, a := Extract("plain answer")
	assert.Nil(t, a)
	assert.Equal(t, "plain answer", cleaned)
}
