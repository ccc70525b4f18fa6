package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func TestMapDecodesJSONNumbers(t *testing.T) {
	// JSON unmarshals every number as float64.
	got, err := Map[samplePayload](map[string]any{"text": "hi", "count": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Text)
	assert.Equal(t, 3, got.Count)
}

func TestMapWeakTyping(t *testing.T) {
	got, err := Map[samplePayload](map[string]any{"count": "7"})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Count)
}

func TestMapNilPayload(t *testing.T) {
	_, err := Map[samplePayload](nil)
	assert.Error(t, err)
}

func TestMapIgnoresUnknownKeys(t *testing.T) {
	got, err := Map[samplePayload](map[string]any{"text": "hi", "extra": true})
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Text)
}
