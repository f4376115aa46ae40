package parsing

import "fmt"

// ValidationError rejects a parsed object that is not a promotable job
// candidate: the provider flagged it invalid, or a required field is
// missing after trimming.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("candidate rejected: %s", e.Reason)
}

// ParseError indicates the provider's output did not contain a
// parseable JSON object.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
