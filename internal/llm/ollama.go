package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// OllamaClient talks to an Ollama server's completion endpoint.
type OllamaClient struct {
	config *Config
	http   *http.Client
}

// generateRequest is the /api/generate request body.
type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

// generateResponse is the subset of the /api/generate response we read.
type generateResponse struct {
	Response string `json:"response"`
}

// NewOllamaClient creates a client with a per-request timeout taken from
// the config.
func NewOllamaClient(config *Config) *OllamaClient {
	if config == nil {
		config = DefaultConfig()
	}
	return &OllamaClient{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

// Generate sends a single non-streaming completion request. Timeout,
// connection failure and non-success status are reported as typed
// ProviderErrors so callers can degrade to "no candidate".
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:       c.config.Model,
		Prompt:      prompt,
		Stream:      false,
		Temperature: c.config.Temperature,
		TopP:        c.config.TopP,
		NumPredict:  c.config.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Kind:    KindBadStatus,
			Message: fmt.Sprintf("completion returned HTTP %d", resp.StatusCode),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Kind: KindConnection, Message: "reading response", Cause: err}
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ProviderError{Kind: KindMalformedJSON, Message: "decoding response envelope", Cause: err}
	}
	return parsed.Response, nil
}

// Ping checks that the Ollama server answers its tags endpoint.
func (c *OllamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{
			Kind:    KindBadStatus,
			Message: fmt.Sprintf("server returned HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the client holds no persistent resources.
func (c *OllamaClient) Close() error {
	return nil
}

// classifyTransportError tells timeouts apart from unreachable servers.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ProviderError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	return &ProviderError{Kind: KindConnection, Message: "provider unreachable", Cause: err}
}
