package types

import "time"

// SourceStats tallies message outcomes for a single source. Every
// processed message lands in exactly one of the terminal counters.
type SourceStats struct {
	Source    string `json:"source"`
	Processed int    `json:"processed"`
	Accepted  int    `json:"accepted"`
	Inserted  int    `json:"inserted"`
	Duplicate int    `json:"duplicate"`
	Rejected  int    `json:"rejected"`
	Err       string `json:"error,omitempty"`
}

// RunSummary is the final report for one aggregation run. It is emitted
// unconditionally, including when some sources failed, so partial results
// are always visible.
type RunSummary struct {
	RunID          string        `json:"run_id"`
	Sources        []SourceStats `json:"sources"`
	Processed      int           `json:"processed"`
	Accepted       int           `json:"accepted"`
	Inserted       int           `json:"inserted"`
	Duplicate      int           `json:"duplicate"`
	Rejected       int           `json:"rejected"`
	DuplicateLinks int           `json:"duplicate_links"`
	TotalStored    int64         `json:"total_stored"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
}

// Add folds one source's tallies into the run totals.
func (s *RunSummary) Add(stats SourceStats) {
	s.Sources = append(s.Sources, stats)
	s.Processed += stats.Processed
	s.Accepted += stats.Accepted
	s.Inserted += stats.Inserted
	s.Duplicate += stats.Duplicate
	s.Rejected += stats.Rejected
}
