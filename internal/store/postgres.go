package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ambrish/job-aggregator/internal/types"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_records (
	id BIGSERIAL PRIMARY KEY,
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
	created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS duplicate_links (
	id BIGSERIAL PRIMARY KEY,
	original_post_id TEXT NOT NULL,
	duplicate_post_id TEXT NOT NULL,
	similarity_score DOUBLE PRECISION,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	UNIQUE(original_post_id, duplicate_post_id)
);
`

// PostgresStore implements Store on a PostgreSQL connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and ensures the schema
// exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// InsertRecord stores a record unless its post_id already exists.
func (s *PostgresStore) InsertRecord(ctx context.Context, rec *types.JobRecord) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO job_records
		 (post_id, role, company_name, location, experience_required,
		  job_type, application_link, description, source, date_posted, extracted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (post_id) DO NOTHING`,
		rec.PostID, rec.Role, rec.CompanyName, rec.Location, rec.ExperienceRequired,
		rec.JobType, rec.ApplicationLink, rec.Description, rec.Source,
		rec.DatePosted, rec.ExtractedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertDuplicateLink stores a link unless the pair is already linked.
func (s *PostgresStore) InsertDuplicateLink(ctx context.Context, link types.DuplicateLink) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO duplicate_links (original_post_id, duplicate_post_id, similarity_score)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (original_post_id, duplicate_post_id) DO NOTHING`,
		link.OriginalPostID, link.DuplicatePostID, link.SimilarityScore,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert duplicate link: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListRecords returns a filtered, paginated page, newest postings first.
func (s *PostgresStore) ListRecords(ctx context.Context, f Filters) (*Page, error) {
	f = normalizeFilters(f)
	where, args := buildPostgresFilter(f)

	var total int64
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM job_records"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count filtered records: %w", err)
	}

	query := `SELECT post_id, role, company_name, location, experience_required,
	       job_type, application_link, description, source, date_posted, extracted_at, created_at
	 FROM job_records` + where +
		" ORDER BY date_posted DESC, id DESC LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make([]types.JobRecord, 0, f.PageSize)
	for rows.Next() {
		var rec types.JobRecord
		if err := rows.Scan(&rec.PostID, &rec.Role, &rec.CompanyName, &rec.Location,
			&rec.ExperienceRequired, &rec.JobType, &rec.ApplicationLink, &rec.Description,
			&rec.Source, &rec.DatePosted, &rec.ExtractedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
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
func (s *PostgresStore) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM job_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Distinct returns the distinct non-empty values of a whitelisted column.
func (s *PostgresStore) Distinct(ctx context.Context, column string) ([]string, error) {
	if err := validDistinctColumn(column); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT DISTINCT %s FROM job_records WHERE %s IS NOT NULL AND %s != '' ORDER BY %s`,
		column, column, column, column))
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ListKeys returns the identity projection of every record.
func (s *PostgresStore) ListKeys(ctx context.Context) ([]types.RecordKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT post_id, company_name, role, location, created_at FROM job_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list record keys: %w", err)
	}
	defer rows.Close()

	var keys []types.RecordKey
	for rows.Next() {
		var k types.RecordKey
		var createdAt time.Time
		if err := rows.Scan(&k.PostID, &k.CompanyName, &k.Role, &k.Location, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record key: %w", err)
		}
		k.CreatedAt = createdAt
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ListLinks returns all duplicate links in insertion order.
func (s *PostgresStore) ListLinks(ctx context.Context) ([]types.DuplicateLink, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT original_post_id, duplicate_post_id, similarity_score, created_at
		 FROM duplicate_links ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list duplicate links: %w", err)
	}
	defer rows.Close()

	var links []types.DuplicateLink
	for rows.Next() {
		var link types.DuplicateLink
		if err := rows.Scan(&link.OriginalPostID, &link.DuplicatePostID,
			&link.SimilarityScore, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// buildPostgresFilter translates Filters into a WHERE clause with
// numbered placeholders.
func buildPostgresFilter(f Filters) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if f.JobType != "" {
		args = append(args, f.JobType)
		where += fmt.Sprintf(" AND job_type = $%d", len(args))
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		where += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}
	if f.Company != "" {
		args = append(args, "%"+f.Company+"%")
		where += fmt.Sprintf(" AND company_name ILIKE $%d", len(args))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		where += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if f.DateFrom != "" {
		args = append(args, f.DateFrom)
		where += fmt.Sprintf(" AND date_posted >= $%d", len(args))
	}
	if f.DateTo != "" {
		args = append(args, f.DateTo)
		where += fmt.Sprintf(" AND date_posted <= $%d", len(args))
	}
	return where, args
}
