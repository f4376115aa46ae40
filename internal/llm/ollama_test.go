package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Model = "test-model"
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestOllamaGenerate_Success(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: `{"valid": true}`})
	}))
	defer server.Close()

	client := NewOllamaClient(testConfig(server.URL))
	out, err := client.Generate(context.Background(), "analyze this")
	require.NoError(t, err)
	assert.Equal(t, `{"valid": true}`, out)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, "analyze this", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	assert.InDelta(t, 0.1, gotReq.Temperature, 0.001)
	assert.InDelta(t, 0.9, gotReq.TopP, 0.001)
}

func TestOllamaGenerate_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOllamaClient(testConfig(server.URL))
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindBadStatus, perr.Kind)
}

func TestOllamaGenerate_MalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not json"))
	}))
	defer server.Close()

	client := NewOllamaClient(testConfig(server.URL))
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindMalformedJSON, perr.Kind)
}

func TestOllamaGenerate_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewOllamaClient(testConfig(server.URL))
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindConnection, perr.Kind)
}

func TestOllamaGenerate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewOllamaClient(cfg)

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindTimeout, perr.Kind)
}

func TestOllamaPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllamaClient(testConfig(server.URL))
	assert.NoError(t, client.Ping(context.Background()))

	client = NewOllamaClient(testConfig(server.URL + "/missing"))
	err := client.Ping(context.Background())
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindBadStatus, perr.Kind)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	_, err := NewClient(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
