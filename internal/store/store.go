// Package store provides durable, idempotent persistence for job records
// and duplicate links.
//
// Two backends implement the same interface: a SQLite file (the
// default, suitable for single-node runs) and PostgreSQL for shared
// deployments. Both enforce insert-if-absent on post_id at the database
// level, so concurrent insert attempts for the same identity cannot both
// succeed.
package store

import (
	"context"
	"fmt"

	"github.com/ambrish/job-aggregator/internal/types"
)

// Distinct-able columns. Distinct rejects anything not on this list.
const (
	ColumnSource   = "source"
	ColumnLocation = "location"
	ColumnCompany  = "company_name"
	ColumnJobType  = "job_type"
)

// DefaultPageSize bounds ListRecords pages when no size is given.
const DefaultPageSize = 20

// Filters narrows ListRecords output. Zero values mean "no filter".
// Location and Company match as substrings; JobType and Source match
// exactly. DateFrom/DateTo compare against date_posted lexicographically,
// which is correct for ISO-formatted timestamps.
type Filters struct {
	JobType  string
	Location string
	Company  string
	Source   string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

// Page is one page of filtered records together with the unpaginated
// total.
type Page struct {
	Records    []types.JobRecord `json:"records"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Store is the persistence interface consumed by the pipeline, the
// dedup pass, and the read-side consumers.
type Store interface {
	// InsertRecord stores a record unless its post_id already exists.
	// Returns true on a fresh insert, false when the identity was
	// already present. The check-and-insert is atomic with respect to
	// concurrent callers.
	InsertRecord(ctx context.Context, rec *types.JobRecord) (bool, error)

	// InsertDuplicateLink stores a link unless the pair is already
	// linked. Returns true on a fresh insert.
	InsertDuplicateLink(ctx context.Context, link types.DuplicateLink) (bool, error)

	// ListRecords returns a filtered, paginated page of records, newest
	// postings first.
	ListRecords(ctx context.Context, f Filters) (*Page, error)

	// CountRecords returns the total number of stored records.
	CountRecords(ctx context.Context) (int64, error)

	// Distinct returns the distinct non-empty values of a whitelisted
	// column, sorted.
	Distinct(ctx context.Context, column string) ([]string, error)

	// ListKeys returns the identity projection of every record, in
	// insertion order. Input to the batch dedup pass.
	ListKeys(ctx context.Context) ([]types.RecordKey, error)

	// ListLinks returns all duplicate links.
	ListLinks(ctx context.Context) ([]types.DuplicateLink, error)

	Close() error
}

// normalizeFilters applies paging defaults.
func normalizeFilters(f Filters) Filters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// validDistinctColumn guards Distinct against arbitrary column names.
func validDistinctColumn(column string) error {
	switch column {
	case ColumnSource, ColumnLocation, ColumnCompany, ColumnJobType:
		return nil
	}
	return fmt.Errorf("column %q is not distinct-able", column)
}
