// Package parsing implements the structuring engine: it turns free-form
// message text into typed job candidates via a text-completion provider.
package parsing

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ambrish/job-aggregator/internal/llm"
	"github.com/ambrish/job-aggregator/internal/prompts"
	"github.com/ambrish/job-aggregator/internal/types"
)

//go:embed candidate.schema.json
var candidateSchemaJSON []byte

var candidateSchema = gojsonschema.NewBytesLoader(candidateSchemaJSON)

// Engine sends message text to a completion provider and gates the
// response into a JobCandidate. One outbound request per message, no
// retries; every failure mode collapses to "no candidate" at the caller.
type Engine struct {
	client llm.Client
}

// NewEngine creates a structuring engine backed by the given client.
func NewEngine(client llm.Client) *Engine {
	return &Engine{client: client}
}

// Structure runs one message through the provider. On success it returns
// a candidate that passed the acceptance gate; otherwise a typed error
// (llm.ProviderError, ParseError, or ValidationError) explaining why no
// candidate was produced. Errors never mean the run should stop.
func (e *Engine) Structure(ctx context.Context, msg types.RawMessage) (*types.JobCandidate, error) {
	prompt := buildPrompt(msg)

	response, err := e.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	candidate, err := ParseCandidate(response)
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// buildPrompt renders the fixed instruction template for one message.
func buildPrompt(msg types.RawMessage) string {
	template := prompts.MustGet("structuring.json", "analyze-job-posting")
	return prompts.Format(template, map[string]string{
		"Text":      msg.Text,
		"Timestamp": msg.Timestamp(),
	})
}

// ParseCandidate extracts and validates the JSON object embedded in raw
// provider output. The object span runs from the first opening brace to
// the last closing brace; surrounding prose is ignored.
func ParseCandidate(response string) (*types.JobCandidate, error) {
	text := llm.CleanJSONBlock(response)

	objText, ok := llm.ExtractObject(text)
	if !ok {
		return nil, &ParseError{Message: "no JSON object in response"}
	}

	result, err := gojsonschema.Validate(candidateSchema, gojsonschema.NewStringLoader(objText))
	if err != nil {
		return nil, &llm.ProviderError{Kind: llm.KindMalformedJSON, Message: "invalid JSON", Cause: err}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, &ParseError{Message: "response violates candidate schema: " + strings.Join(reasons, "; ")}
	}

	var candidate types.JobCandidate
	if err := json.Unmarshal([]byte(objText), &candidate); err != nil {
		return nil, &llm.ProviderError{Kind: llm.KindMalformedJSON, Message: "decoding candidate", Cause: err}
	}

	if !candidate.Valid {
		return nil, &ValidationError{Reason: "not a job posting"}
	}

	candidate.Role = strings.TrimSpace(candidate.Role)
	candidate.CompanyName = strings.TrimSpace(candidate.CompanyName)
	candidate.Location = strings.TrimSpace(candidate.Location)
	if candidate.Role == "" {
		return nil, &ValidationError{Reason: "missing role"}
	}
	if candidate.CompanyName == "" {
		return nil, &ValidationError{Reason: "missing company name"}
	}

	return &candidate, nil
}
