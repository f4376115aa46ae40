package types

import "time"

// JobRecord is a persisted job posting. Records are immutable once
// written; PostID is a content hash over the normalized
// (company_name, role, location) tuple, so a repost of the same job
// hashes to the same identity regardless of when it was posted.
type JobRecord struct {
	PostID             string    `json:"post_id"`
	Role               string    `json:"role"`
	CompanyName        string    `json:"company_name"`
	Location           string    `json:"location"`
	ExperienceRequired string    `json:"experience_required,omitempty"`
	JobType            string    `json:"job_type,omitempty"`
	ApplicationLink    string    `json:"application_link,omitempty"`
	Description        string    `json:"description,omitempty"`
	Source             string    `json:"source"`
	DatePosted         string    `json:"date_posted"`
	ExtractedAt        string    `json:"extracted_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// RecordKey is the lightweight projection of a JobRecord used by the
// batch dedup pass: the identity plus the tuple it was derived from.
type RecordKey struct {
	PostID      string
	CompanyName string
	Role        string
	Location    string
	CreatedAt   time.Time
}

// DuplicateLink records that two stored records represent the same
// underlying posting even though they carry distinct post_ids. Links are
// produced only by the batch dedup pass and are append-only.
type DuplicateLink struct {
	OriginalPostID  string    `json:"original_post_id"`
	DuplicatePostID string    `json:"duplicate_post_id"`
	SimilarityScore float64   `json:"similarity_score"`
	CreatedAt       time.Time `json:"created_at"`
}
