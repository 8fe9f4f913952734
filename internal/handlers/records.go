package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbetts/mailsift/internal/db"
)

const defaultPageSize = 50

// recordJSON is the wire shape of one record. Address lists come back as
// arrays; an absent date is null, never a zero time.
type recordJSON struct {
	ID        string     `json:"id"`
	Date      *time.Time `json:"date"`
	Subject   string     `json:"subject"`
	From      string     `json:"from"`
	To        []string   `json:"to"`
	Cc        []string   `json:"cc"`
	Bcc       []string   `json:"bcc"`
	BodyClean string     `json:"body_clean"`
	SourceRef string     `json:"source_ref"`
	ThreadID  string     `json:"thread_id"`
}

func toRecordJSON(rec db.Record) recordJSON {
	var date *time.Time
	if rec.Date.Valid {
		d := rec.Date.Time.UTC()
		date = &d
	}
	return recordJSON{
		ID:        rec.ID,
		Date:      date,
		Subject:   rec.Subject,
		From:      rec.Sender,
		To:        db.SplitAddresses(rec.Recipients),
		Cc:        db.SplitAddresses(rec.CC),
		Bcc:       db.SplitAddresses(rec.BCC),
		BodyClean: rec.BodyClean,
		SourceRef: rec.SourceRef,
		ThreadID:  rec.ThreadID,
	}
}

// ListRecords handles GET /records with limit/offset pagination.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	records, err := h.db.ListRecords(limit, offset)
	if err != nil {
		h.logger.Error("failed to list records", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	out := make([]recordJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordJSON(rec))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

// GetRecord handles GET /records/{id}.
func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.db.GetRecord(id)
	if err != nil {
		h.logger.Error("failed to get record", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}
	if rec == nil {
		h.writeError(w, http.StatusNotFound, "record not found")
		return
	}
	h.writeJSON(w, http.StatusOK, toRecordJSON(*rec))
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
