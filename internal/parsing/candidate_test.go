package parsing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambrish/job-aggregator/internal/llm"
	"github.com/ambrish/job-aggregator/internal/types"
)

// fakeClient returns a canned response for every prompt.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}
func (f *fakeClient) Ping(context.Context) error { return nil }
func (f *fakeClient) Model() string              { return "fake" }
func (f *fakeClient) Close() error               { return nil }

func TestParseCandidate_ValidPosting(t *testing.T) {
	response := `Sure! Here is the analysis:
	{"valid": true, "role": "Python Developer", "company_name": "Acme Corp",
	 "location": "Remote", "experience_required": "3+ years",
	 "job_type": "Full-time", "application_link": "https://acme.example/jobs/1",
	 "description": "Backend services team"}
	Let me know if you need anything else.`

	c, err := ParseCandidate(response)
	require.NoError(t, err)
	assert.Equal(t, "Python Developer", c.Role)
	assert.Equal(t, "Acme Corp", c.CompanyName)
	assert.Equal(t, "Remote", c.Location)
	assert.Equal(t, "3+ years", c.ExperienceRequired)
	assert.Equal(t, "Full-time", c.JobType)
}

func TestParseCandidate_FencedResponse(t *testing.T) {
	response := "```json\n{\"valid\": true, \"role\": \"Engineer\", \"company_name\": \"Beta\"}\n```"

	c, err := ParseCandidate(response)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", c.Role)
	assert.Equal(t, "Beta", c.CompanyName)
}

func TestParseCandidate_NotAPosting(t *testing.T) {
	_, err := ParseCandidate(`{"valid": false}`)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "not a job posting")
}

func TestParseCandidate_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		response string
		reason   string
	}{
		{"missing role", `{"valid": true, "role": "", "company_name": "Acme"}`, "missing role"},
		{"whitespace role", `{"valid": true, "role": "   ", "company_name": "Acme"}`, "missing role"},
		{"missing company", `{"valid": true, "role": "Engineer", "company_name": ""}`, "missing company name"},
		{"null company", `{"valid": true, "role": "Engineer", "company_name": null}`, "missing company name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCandidate(tt.response)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Reason, tt.reason)
		})
	}
}

func TestParseCandidate_NoObject(t *testing.T) {
	_, err := ParseCandidate("I could not find any job posting in that message.")
	require.Error(t, err)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseCandidate_SchemaViolation(t *testing.T) {
	// valid is required and must be boolean.
	_, err := ParseCandidate(`{"valid": "yes", "role": "Engineer", "company_name": "Acme"}`)
	require.Error(t, err)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestStructure_PromptContainsMessage(t *testing.T) {
	client := &fakeClient{response: `{"valid": true, "role": "SRE", "company_name": "Gamma"}`}
	engine := NewEngine(client)

	msg := types.RawMessage{
		Text:         "We are hiring an SRE at Gamma, apply now",
		TimestampRaw: "3/4/2025, 9:15 PM",
		TimestampISO: "2025-03-04T21:15:00",
	}
	c, err := engine.Structure(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "SRE", c.Role)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "We are hiring an SRE at Gamma")
	assert.Contains(t, client.prompts[0], "2025-03-04T21:15:00")
}

func TestStructure_ProviderErrorPassedThrough(t *testing.T) {
	wantErr := &llm.ProviderError{Kind: llm.KindTimeout, Message: "request timed out"}
	engine := NewEngine(&fakeClient{err: wantErr})

	_, err := engine.Structure(context.Background(), types.RawMessage{Text: "x", TimestampRaw: "9:15 PM"})
	require.Error(t, err)

	var perr *llm.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, llm.KindTimeout, perr.Kind)
}
