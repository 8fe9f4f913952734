package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbetts/mailsift/internal/db"
)

type threadJSON struct {
	ThreadID    string     `json:"thread_id"`
	Subject     string     `json:"subject"`
	RecordCount int        `json:"record_count"`
	FirstDate   *time.Time `json:"first_date"`
	LastDate    *time.Time `json:"last_date"`
}

func toThreadJSON(t db.ThreadSummary) threadJSON {
	out := threadJSON{
		ThreadID:    t.ThreadID,
		Subject:     t.Subject,
		RecordCount: t.RecordCount,
	}
	if t.FirstDate.Valid {
		d := t.FirstDate.Time.UTC()
		out.FirstDate = &d
	}
	if t.LastDate.Valid {
		d := t.LastDate.Time.UTC()
		out.LastDate = &d
	}
	return out
}

// ListThreads handles GET /threads.
func (h *Handlers) ListThreads(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	threads, err := h.db.ListThreads(limit, offset)
	if err != nil {
		h.logger.Error("failed to list threads", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list threads")
		return
	}

	out := make([]threadJSON, 0, len(threads))
	for _, t := range threads {
		out = append(out, toThreadJSON(t))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"threads": out})
}

// GetThread handles GET /threads/{id}: the conversation's records oldest
// first.
func (h *Handlers) GetThread(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	records, err := h.db.ListByThread(id)
	if err != nil {
		h.logger.Error("failed to load thread", "thread_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load thread")
		return
	}
	if len(records) == 0 {
		h.writeError(w, http.StatusNotFound, "thread not found")
		return
	}

	out := make([]recordJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordJSON(rec))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"thread_id": id, "records": out})
}

// GetStats handles GET /stats.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Stats()
	if err != nil {
		h.logger.Error("failed to get stats", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	out := map[string]any{
		"records": stats.Records,
		"threads": stats.Threads,
	}
	if stats.Earliest.Valid {
		out["earliest"] = stats.Earliest.Time.UTC()
	}
	if stats.Latest.Valid {
		out["latest"] = stats.Latest.Time.UTC()
	}
	h.writeJSON(w, http.StatusOK, out)
}
