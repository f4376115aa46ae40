package llm

import "fmt"

// ErrorKind classifies provider failures.
type ErrorKind string

const (
	// KindTimeout marks requests that exceeded the configured deadline.
	KindTimeout ErrorKind = "timeout"
	// KindConnection marks an unreachable or mid-request-failing server.
	KindConnection ErrorKind = "connection"
	// KindBadStatus marks non-success HTTP responses.
	KindBadStatus ErrorKind = "bad_status"
	// KindMalformedJSON marks undecodable response payloads.
	KindMalformedJSON ErrorKind = "malformed_json"
)

// ProviderError is a classified failure from a completion provider. The
// pipeline treats every kind the same way (the message yields no
// candidate); the kind exists for logs and tests.
type ProviderError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
