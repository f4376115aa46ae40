package llm

import "time"

// Provider identifiers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

const (
	// DefaultBaseURL is the local Ollama endpoint.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-oss"
	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 60 * time.Second
)

// Config holds provider settings. Temperature and TopP are kept low to
// bias toward reproducible output, though output must still be treated
// as non-deterministic.
type Config struct {
	Provider        string
	BaseURL         string
	Model           string
	APIKey          string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int
	Timeout         time.Duration
}

// DefaultConfig returns the Ollama defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderOllama,
		BaseURL:         DefaultBaseURL,
		Model:           DefaultModel,
		Temperature:     0.1,
		TopP:            0.9,
		MaxOutputTokens: 300,
		Timeout:         DefaultTimeout,
	}
}
