package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbetts/mailsift/internal/extract"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func utc(year int, month time.Month, day, hour int) *time.Time {
	d := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &d
}

func TestInsertAndGetRecord(t *testing.T) {
	database := setupTestDB(t)

	rec := extract.EmailRecord{
		ID:        "abc123_n0",
		Date:      utc(2001, 9, 13, 15),
		Subject:   "Q3 numbers",
		From:      "pallen@enron.com",
		To:        []string{"jdoe@example.com", "jane.doe@enron.com"},
		Cc:        []string{"cc@example.com"},
		BodyClean: "Numbers attached.",
		SourceRef: "allen-p/1.-nested-0",
		ThreadID:  "thread-1",
	}
	require.NoError(t, database.InsertRecord(rec))

	got, err := database.GetRecord("abc123_n0")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Q3 numbers", got.Subject)
	assert.Equal(t, "pallen@enron.com", got.Sender)
	assert.Equal(t, []string{"jdoe@example.com", "jane.doe@enron.com"}, SplitAddresses(got.Recipients))
	assert.Equal(t, "thread-1", got.ThreadID)
	require.True(t, got.Date.Valid)
	assert.Equal(t, rec.Date.Unix(), got.Date.Time.Unix())
	assert.False(t, got.IndexedAt.IsZero())
}

func TestGetRecord_Missing(t *testing.T) {
	database := setupTestDB(t)
	got, err := database.GetRecord("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInsertRecord_ReplaceIsIdempotent(t *testing.T) {
	database := setupTestDB(t)

	rec := extract.EmailRecord{ID: "r1", Subject: "first", SourceRef: "f", ThreadID: "t"}
	require.NoError(t, database.InsertRecord(rec))
	rec.Subject = "second"
	require.NoError(t, database.InsertRecord(rec))

	stats, err := database.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)

	got, err := database.GetRecord("r1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Subject)
}

func TestListRecords_NewestFirstUndatedLast(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, database.InsertBatch([]extract.EmailRecord{
		{ID: "old", Date: utc(2000, 1, 1, 0), SourceRef: "a", ThreadID: "t1"},
		{ID: "new", Date: utc(2001, 6, 1, 0), SourceRef: "b", ThreadID: "t1"},
		{ID: "undated", SourceRef: "c", ThreadID: "t2"},
	}))

	records, err := database.ListRecords(10, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "old", records[1].ID)
	assert.Equal(t, "undated", records[2].ID)
}

func TestListByThread_OldestFirst(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, database.InsertBatch([]extract.EmailRecord{
		{ID: "b", Date: utc(2001, 6, 2, 0), SourceRef: "y", ThreadID: "t1"},
		{ID: "a", Date: utc(2001, 6, 1, 0), SourceRef: "x", ThreadID: "t1"},
		{ID: "other", Date: utc(2001, 6, 3, 0), SourceRef: "z", ThreadID: "t2"},
	}))

	records, err := database.ListByThread("t1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
}

func TestListThreads(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, database.InsertBatch([]extract.EmailRecord{
		{ID: "a", Date: utc(2001, 6, 1, 0), Subject: "Budget", SourceRef: "x", ThreadID: "t1"},
		{ID: "b", Date: utc(2001, 6, 5, 0), Subject: "Budget", SourceRef: "y", ThreadID: "t1"},
		{ID: "c", Date: utc(2001, 6, 2, 0), Subject: "Lunch", SourceRef: "z", ThreadID: "t2"},
	}))

	threads, err := database.ListThreads(10, 0)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	// t1 is more recently active.
	assert.Equal(t, "t1", threads[0].ThreadID)
	assert.Equal(t, 2, threads[0].RecordCount)
	assert.Equal(t, "Budget", threads[0].Subject)
	require.True(t, threads[0].FirstDate.Valid)
	assert.Equal(t, utc(2001, 6, 1, 0).Unix(), threads[0].FirstDate.Time.Unix())
	assert.Equal(t, "t2", threads[1].ThreadID)
}

func TestStats(t *testing.T) {
	database := setupTestDB(t)

	stats, err := database.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Records)

	require.NoError(t, database.InsertBatch([]extract.EmailRecord{
		{ID: "a", Date: utc(2000, 1, 1, 0), SourceRef: "x", ThreadID: "t1"},
		{ID: "b", Date: utc(2001, 1, 1, 0), SourceRef: "y", ThreadID: "t2"},
	}))

	stats, err = database.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 2, stats.Threads)
	require.True(t, stats.Earliest.Valid)
	assert.Equal(t, utc(2000, 1, 1, 0).Unix(), stats.Earliest.Time.Unix())
}

func TestSplitAddresses(t *testing.T) {
	assert.Nil(t, SplitAddresses(""))
	assert.Equal(t, []string{"a@x.com"}, SplitAddresses("a@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, SplitAddresses("a@x.com, b@y.com"))
}
