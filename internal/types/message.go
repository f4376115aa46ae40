// Package types defines the domain records shared across the aggregation
// pipeline: raw channel messages, provisional candidates, persisted job
// records, and run statistics.
package types

// RawMessage is a single message lifted out of an exported channel
// document. TimestampISO is set only when the raw timestamp parsed
// cleanly; TimestampRaw is always kept so nothing is silently dropped.
type RawMessage struct {
	Text         string `json:"text"`
	TimestampRaw string `json:"timestamp_raw"`
	TimestampISO string `json:"timestamp_iso,omitempty"`
}

// Timestamp returns the best available timestamp for the message: the
// ISO form when parsing succeeded, the raw string otherwise.
func (m RawMessage) Timestamp() string {
	if m.TimestampISO != "" {
		return m.TimestampISO
	}
	return m.TimestampRaw
}

// JobCandidate is the provider's structured view of a message. It is
// provisional: a candidate is promoted to a JobRecord only when Valid is
// true and both Role and CompanyName survive trimming.
type JobCandidate struct {
	Valid              bool   `json:"valid"`
	Role               string `json:"role"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	ExperienceRequired string `json:"experience_required,omitempty"`
	JobType            string `json:"job_type,omitempty"`
	ApplicationLink    string `json:"application_link,omitempty"`
	Description        string `json:"description,omitempty"`
}
