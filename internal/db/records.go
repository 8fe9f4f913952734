package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mbetts/mailsift/internal/extract"
)

// Record is the stored form of an extracted message. Address lists are
// comma-joined for storage and split again at the API boundary.
type Record struct {
	ID         string
	Date       sql.NullTime
	Subject    string
	Sender     string
	Recipients string
	CC         string
	BCC        string
	BodyClean  string
	SourceRef  string
	ThreadID   string
	IndexedAt  time.Time
}

// SplitAddresses splits a stored comma-joined address list.
func SplitAddresses(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InsertRecord stores one extracted record, replacing any previous row with
// the same id so re-running a batch is idempotent.
func (db *DB) InsertRecord(rec extract.EmailRecord) error {
	var date sql.NullTime
	if rec.Date != nil {
		date = sql.NullTime{Time: *rec.Date, Valid: true}
	}

	_, err := db.Exec(`
		INSERT OR REPLACE INTO records
			(id, date, subject, sender, recipients, cc, bcc, body_clean, source_ref, thread_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, date, rec.Subject, rec.From,
		strings.Join(rec.To, ", "), strings.Join(rec.Cc, ", "), strings.Join(rec.Bcc, ", "),
		rec.BodyClean, rec.SourceRef, rec.ThreadID)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
	}
	return nil
}

// InsertBatch stores a whole batch in one transaction.
func (db *DB) InsertBatch(records []extract.EmailRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO records
			(id, date, subject, sender, recipients, cc, bcc, body_clean, source_ref, thread_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var date sql.NullTime
		if rec.Date != nil {
			date = sql.NullTime{Time: *rec.Date, Valid: true}
		}
		_, err := stmt.Exec(rec.ID, date, rec.Subject, rec.From,
			strings.Join(rec.To, ", "), strings.Join(rec.Cc, ", "), strings.Join(rec.Bcc, ", "),
			rec.BodyClean, rec.SourceRef, rec.ThreadID)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

const recordColumns = `id, date, subject, sender, recipients, cc, bcc, body_clean, source_ref, thread_id, indexed_at`

func scanRecord(row interface{ Scan(...any) error }) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Date, &rec.Subject, &rec.Sender, &rec.Recipients,
		&rec.CC, &rec.BCC, &rec.BodyClean, &rec.SourceRef, &rec.ThreadID, &rec.IndexedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRecord retrieves one record by id. A missing id returns (nil, nil).
func (db *DB) GetRecord(id string) (*Record, error) {
	rec, err := scanRecord(db.QueryRow(
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// ListRecords returns records newest first. Records without a date sort
// last; id breaks ties so pagination is stable.
func (db *DB) ListRecords(limit, offset int) ([]Record, error) {
	rows, err := db.Query(`
		SELECT `+recordColumns+`
		FROM records
		ORDER BY date IS NULL, date DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListByThread returns one conversation oldest first.
func (db *DB) ListByThread(threadID string) ([]Record, error) {
	rows, err := db.Query(`
		SELECT `+recordColumns+`
		FROM records
		WHERE thread_id = ?
		ORDER BY date IS NULL, date ASC, id
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// ThreadSummary describes one conversation.
type ThreadSummary struct {
	ThreadID    string
	Subject     string
	RecordCount int
	FirstDate   sql.NullTime
	LastDate    sql.NullTime
}

// ListThreads returns conversation summaries, most recently active first.
func (db *DB) ListThreads(limit, offset int) ([]ThreadSummary, error) {
	rows, err := db.Query(`
		SELECT thread_id, MIN(subject), COUNT(*), MIN(date), MAX(date)
		FROM records
		GROUP BY thread_id
		ORDER BY MAX(date) IS NULL, MAX(date) DESC, thread_id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []ThreadSummary
	for rows.Next() {
		var t ThreadSummary
		if err := rows.Scan(&t.ThreadID, &t.Subject, &t.RecordCount, &t.FirstDate, &t.LastDate); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// StoreStats summarizes the store contents.
type StoreStats struct {
	Records  int
	Threads  int
	Earliest sql.NullTime
	Latest   sql.NullTime
}

// Stats reports record and thread counts plus the stored date range.
func (db *DB) Stats() (*StoreStats, error) {
	var s StoreStats
	err := db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT thread_id), MIN(date), MAX(date)
		FROM records
	`).Scan(&s.Records, &s.Threads, &s.Earliest, &s.Latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &s, nil
}
