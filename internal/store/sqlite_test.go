package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambrish/job-aggregator/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testRecord(postID string) *types.JobRecord {
	return &types.JobRecord{
		PostID:      postID,
		Role:        "Engineer",
		CompanyName: "Acme",
		Location:    "Remote",
		JobType:     "Full-time",
		Source:      "chan-1",
		DatePosted:  "2025-03-04T21:15:00",
		ExtractedAt: "2025-03-05T10:00:00",
	}
}

func TestInsertRecord_DuplicateIgnored(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	inserted, err := st.InsertRecord(ctx, testRecord("p1"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same post_id again: not inserted, count unchanged.
	inserted, err = st.InsertRecord(ctx, testRecord("p1"))
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := st.CountRecords(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestInsertDuplicateLink_PairUnique(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	link := types.DuplicateLink{OriginalPostID: "p1", DuplicatePostID: "p2", SimilarityScore: 1.0}

	inserted, err := st.InsertDuplicateLink(ctx, link)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = st.InsertDuplicateLink(ctx, link)
	require.NoError(t, err)
	assert.False(t, inserted)

	links, err := st.ListLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "p1", links[0].OriginalPostID)
	assert.Equal(t, "p2", links[0].DuplicatePostID)
	assert.Equal(t, 1.0, links[0].SimilarityScore)
	assert.False(t, links[0].CreatedAt.IsZero())
}

func TestListRecords_Filters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	records := []*types.JobRecord{
		{PostID: "p1", Role: "Backend Engineer", CompanyName: "Acme", Location: "Berlin, Germany", JobType: "Full-time", Source: "chan-1", DatePosted: "2025-03-01T09:00:00"},
		{PostID: "p2", Role: "Data Scientist", CompanyName: "Beta Labs", Location: "Remote", JobType: "Contract", Source: "chan-1", DatePosted: "2025-03-02T09:00:00"},
		{PostID: "p3", Role: "SRE", CompanyName: "Acme", Location: "Munich, Germany", JobType: "Full-time", Source: "chan-2", DatePosted: "2025-03-03T09:00:00"},
	}
	for _, rec := range records {
		_, err := st.InsertRecord(ctx, rec)
		require.NoError(t, err)
	}

	page, err := st.ListRecords(ctx, Filters{JobType: "Full-time"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = st.ListRecords(ctx, Filters{Location: "Germany"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = st.ListRecords(ctx, Filters{Company: "Beta"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "p2", page.Records[0].PostID)

	page, err = st.ListRecords(ctx, Filters{Source: "chan-2"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "p3", page.Records[0].PostID)

	page, err = st.ListRecords(ctx, Filters{DateFrom: "2025-03-02T00:00:00", DateTo: "2025-03-02T23:59:59"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "p2", page.Records[0].PostID)

	// Filters combine.
	page, err = st.ListRecords(ctx, Filters{JobType: "Full-time", Location: "Berlin"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "p1", page.Records[0].PostID)
}

func TestListRecords_NewestFirstAndPaginated(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		rec := testRecord(fmt.Sprintf("p%d", i))
		rec.DatePosted = fmt.Sprintf("2025-03-0%dT09:00:00", i)
		_, err := st.InsertRecord(ctx, rec)
		require.NoError(t, err)
	}

	page, err := st.ListRecords(ctx, Filters{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "p5", page.Records[0].PostID)
	assert.Equal(t, "p4", page.Records[1].PostID)

	page, err = st.ListRecords(ctx, Filters{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "p1", page.Records[0].PostID)
}

func TestListRecords_DefaultsNormalized(t *testing.T) {
	st := newTestStore(t)

	page, err := st.ListRecords(context.Background(), Filters{Page: -3, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Empty(t, page.Records)
}

func TestDistinct(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i, loc := range []string{"Berlin", "Remote", "Berlin", ""} {
		rec := testRecord(fmt.Sprintf("p%d", i))
		rec.Location = loc
		_, err := st.InsertRecord(ctx, rec)
		require.NoError(t, err)
	}

	values, err := st.Distinct(ctx, ColumnLocation)
	require.NoError(t, err)
	assert.Equal(t, []string{"Berlin", "Remote"}, values)

	_, err = st.Distinct(ctx, "description")
	require.Error(t, err)
}

func TestListKeys(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.InsertRecord(ctx, testRecord("p1"))
	require.NoError(t, err)
	rec := testRecord("p2")
	rec.CompanyName = "Beta"
	_, err = st.InsertRecord(ctx, rec)
	require.NoError(t, err)

	keys, err := st.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "p1", keys[0].PostID)
	assert.Equal(t, "Acme", keys[0].CompanyName)
	assert.Equal(t, "Engineer", keys[0].Role)
	assert.Equal(t, "Remote", keys[0].Location)
	assert.False(t, keys[0].CreatedAt.IsZero())
	assert.Equal(t, "Beta", keys[1].CompanyName)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	require.Error(t, err)
}
