package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambrish/job-aggregator/internal/types"
)

const exportHTML = `<html><body>
	<div data-pre-plain-text="[3/4/2025, 9:15 PM] R: ">Hiring Go developers at Acme</div>
	<div data-pre-plain-text="[3/5/2025, 8:00 AM] R: ">Backend role in Berlin</div>
</body></html>`

func TestDocumentSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.html")
	require.NoError(t, os.WriteFile(path, []byte(exportHTML), 0o644))

	src := NewDocumentSource("chan-1", path)
	assert.Equal(t, "chan-1", src.Name())

	msgs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hiring Go developers at Acme", msgs[0].Text)
	assert.Equal(t, "Backend role in Berlin", msgs[1].Text)
}

func TestDocumentSource_MissingFile(t *testing.T) {
	src := NewDocumentSource("chan-1", "/nonexistent/export.html")
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chan-1")
}

func TestURLSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(exportHTML))
	}))
	defer server.Close()

	src := NewURLSource("remote", server.URL, nil)
	msgs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestURLSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewURLSource("remote", server.URL, nil)
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote")
}

func TestPreExtractedSource(t *testing.T) {
	msgs := []types.RawMessage{{Text: "hello", TimestampRaw: "9:15 PM"}}
	src := NewPreExtractedSource("replay", msgs)

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, msgs, got)
}

func TestLoadPreExtracted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	content := `[
		{"text": "first message", "timestamp_raw": "9:15 PM", "timestamp_iso": "2025-03-04T21:15:00"},
		{"text": "second message", "timestamp_raw": "9:20 PM"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src, err := LoadPreExtracted("replay", path)
	require.NoError(t, err)

	msgs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first message", msgs[0].Text)
	assert.Equal(t, "2025-03-04T21:15:00", msgs[0].TimestampISO)
	assert.Equal(t, "9:20 PM", msgs[1].Timestamp())
}

func TestLoadPreExtracted_BadFile(t *testing.T) {
	_, err := LoadPreExtracted("replay", "/nonexistent/batch.json")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = LoadPreExtracted("replay", path)
	require.Error(t, err)
}
