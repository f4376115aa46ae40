package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_StructuringPrompt(t *testing.T) {
	prompt, err := Get("structuring.json", "analyze-job-posting")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Text}}")
	assert.Contains(t, prompt, "{{.Timestamp}}")
	assert.Contains(t, prompt, "valid")
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("structuring.json", "no-such-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("nope.json", "anything")
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("Text: {{.Text}}\nTimestamp: {{.Timestamp}}", map[string]string{
		"Text":      "hello",
		"Timestamp": "2025-03-04T21:15:00",
	})
	assert.Equal(t, "Text: hello\nTimestamp: 2025-03-04T21:15:00", out)
}
