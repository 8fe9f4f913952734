// Package report writes extracted record batches as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mbetts/mailsift/internal/extract"
)

// Columns is the output column order.
var Columns = []string{
	"id", "date", "subject", "from", "to", "cc", "bcc",
	"body_clean", "thread_id", "source_ref",
}

// Write emits one record batch, header row first, preserving batch order.
func Write(w io.Writer, records []extract.EmailRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the batch to path, creating parent directories as needed.
func WriteFile(path string, records []extract.EmailRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := Write(f, records); err != nil {
		return err
	}
	return f.Close()
}

func row(rec extract.EmailRecord) []string {
	date := ""
	if rec.Date != nil {
		date = rec.Date.UTC().Format(time.RFC3339)
	}
	return []string{
		rec.ID,
		date,
		rec.Subject,
		rec.From,
		strings.Join(rec.To, ", "),
		strings.Join(rec.Cc, ", "),
		strings.Join(rec.Bcc, ", "),
		rec.BodyClean,
		rec.ThreadID,
		rec.SourceRef,
	}
}
