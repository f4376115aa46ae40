package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ambrish/job-aggregator/internal/types"
)

// sqliteTimeLayout matches SQLite's CURRENT_TIMESTAMP format.
const sqliteTimeLayout = "2006-01-02 15:04:05"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS job_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id TEXT UNIQUE NOT NULL,
	role TEXT NOT NULL,
	company_name TEXT NOT NULL,
	location TEXT,
	experience_required TEXT,
	job_type TEXT,
	application_link TEXT,
	description TEXT,
	source TEXT,
	date_posted TEXT,
	extracted_at TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS duplicate_links (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	original_post_id TEXT NOT NULL,
	duplicate_post_id TEXT NOT NULL,
	similarity_score REAL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(original_post_id, duplicate_post_id)
);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) a SQLite-backed store. Pass
// ":memory:" for throwaway databases in tests. Failure here is fatal to
// a run; there is no degraded mode without storage.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// InsertRecord stores a record unless its post_id already exists.
func (s *SQLiteStore) InsertRecord(ctx context.Context, rec *types.JobRecord) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO job_records
		 (post_id, role, company_name, location, experience_required,
		  job_type, application_link, description, source, date_posted, extracted_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PostID, rec.Role, rec.CompanyName, rec.Location, rec.ExperienceRequired,
		rec.JobType, rec.ApplicationLink, rec.Description, rec.Source,
		rec.DatePosted, rec.ExtractedAt, time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("inserting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}
	return n > 0, nil
}

// InsertDuplicateLink stores a link unless the pair is already linked.
func (s *SQLiteStore) InsertDuplicateLink(ctx context.Context, link types.DuplicateLink) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO duplicate_links
		 (original_post_id, duplicate_post_id, similarity_score, created_at)
		 VALUES (?, ?, ?, ?)`,
		link.OriginalPostID, link.DuplicatePostID, link.SimilarityScore,
		time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("inserting duplicate link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}
	return n > 0, nil
}

// ListRecords returns a filtered, paginated page, newest postings first.
func (s *SQLiteStore) ListRecords(ctx context.Context, f Filters) (*Page, error) {
	f = normalizeFilters(f)
	where, args := buildSQLiteFilter(f)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM job_records"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting filtered records: %w", err)
	}

	query := `SELECT post_id, role, company_name, location, experience_required,
	       job_type, application_link, description, source, date_posted, extracted_at, created_at
	 FROM job_records` + where + ` ORDER BY date_posted DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	records := make([]types.JobRecord, 0, f.PageSize)
	for rows.Next() {
		var rec types.JobRecord
		var createdAt string
		if err := rows.Scan(&rec.PostID, &rec.Role, &rec.CompanyName, &rec.Location,
			&rec.ExperienceRequired, &rec.JobType, &rec.ApplicationLink, &rec.Description,
			&rec.Source, &rec.DatePosted, &rec.ExtractedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.CreatedAt = parseSQLiteTime(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return &Page{
		Records:    records,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: int((total + int64(f.PageSize) - 1) / int64(f.PageSize)),
	}, nil
}

// CountRecords returns the total number of stored records.
func (s *SQLiteStore) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Distinct returns the distinct non-empty values of a whitelisted column.
func (s *SQLiteStore) Distinct(ctx context.Context, column string) ([]string, error) {
	if err := validDistinctColumn(column); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT DISTINCT %s FROM job_records WHERE %s IS NOT NULL AND %s != '' ORDER BY %s`,
		column, column, column, column))
	if err != nil {
		return nil, fmt.Errorf("listing distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning distinct value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ListKeys returns the identity projection of every record.
func (s *SQLiteStore) ListKeys(ctx context.Context) ([]types.RecordKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, company_name, role, location, created_at FROM job_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing record keys: %w", err)
	}
	defer rows.Close()

	var keys []types.RecordKey
	for rows.Next() {
		var k types.RecordKey
		var createdAt string
		if err := rows.Scan(&k.PostID, &k.CompanyName, &k.Role, &k.Location, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning record key: %w", err)
		}
		k.CreatedAt = parseSQLiteTime(createdAt)
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ListLinks returns all duplicate links in insertion order.
func (s *SQLiteStore) ListLinks(ctx context.Context) ([]types.DuplicateLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT original_post_id, duplicate_post_id, similarity_score, created_at
		 FROM duplicate_links ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing duplicate links: %w", err)
	}
	defer rows.Close()

	var links []types.DuplicateLink
	for rows.Next() {
		var link types.DuplicateLink
		var createdAt string
		if err := rows.Scan(&link.OriginalPostID, &link.DuplicatePostID,
			&link.SimilarityScore, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning duplicate link: %w", err)
		}
		link.CreatedAt = parseSQLiteTime(createdAt)
		links = append(links, link)
	}
	return links, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// buildSQLiteFilter translates Filters into a WHERE clause.
func buildSQLiteFilter(f Filters) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if f.JobType != "" {
		where += " AND job_type = ?"
		args = append(args, f.JobType)
	}
	if f.Location != "" {
		where += " AND location LIKE ?"
		args = append(args, "%"+f.Location+"%")
	}
	if f.Company != "" {
		where += " AND company_name LIKE ?"
		args = append(args, "%"+f.Company+"%")
	}
	if f.Source != "" {
		where += " AND source = ?"
		args = append(args, f.Source)
	}
	if f.DateFrom != "" {
		where += " AND date_posted >= ?"
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where += " AND date_posted <= ?"
		args = append(args, f.DateTo)
	}
	return where, args
}

// parseSQLiteTime tolerates both the CURRENT_TIMESTAMP format and
// RFC 3339 strings. Unparseable values yield the zero time rather than
// failing a read.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
