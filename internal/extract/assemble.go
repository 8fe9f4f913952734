package extract

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mbetts/mailsift/internal/normalize"
)

// Engine runs the extraction chain over parent bodies. It owns no mutable
// state beyond the injected normalizers, so one Engine is safe to share
// across workers.
type Engine struct {
	addrs *normalize.Addresses
	dates *normalize.Dates
}

// NewEngine creates an extraction engine using the given normalizers.
func NewEngine(addrs *normalize.Addresses, dates *normalize.Dates) *Engine {
	return &Engine{addrs: addrs, dates: dates}
}

// RawHeaders carries the top-level header strings a message reader supplies,
// before normalization.
type RawHeaders struct {
	From    string
	To      string
	Cc      string
	Bcc     string
	Subject string
	Date    string
}

// NestedResult is the outcome of extracting one parent body.
type NestedResult struct {
	Records  []EmailRecord
	Segments int
	Pseudo   int
}

// Top assembles the record for the top-level message of one source.
func (e *Engine) Top(fileID string, hdr RawHeaders, body string) EmailRecord {
	var from string
	if fl := e.addrs.List(hdr.From); len(fl) > 0 {
		from = fl[0]
	}
	return EmailRecord{
		ID:        RecordID(fileID, body),
		Date:      e.dates.Normalize(hdr.Date),
		Subject:   hdr.Subject,
		From:      from,
		To:        e.addrs.List(hdr.To),
		Cc:        e.addrs.List(hdr.Cc),
		Bcc:       e.addrs.List(hdr.Bcc),
		BodyClean: CleanBody(body),
		SourceRef: fileID,
	}
}

// Nested recovers every embedded message from a parent body. Each detected
// segment yields exactly one record; a segment nothing could parse still
// produces a pseudo-record rather than disappearing.
func (e *Engine) Nested(body, fileID, parentSubject string) NestedResult {
	segments := DetectSegments(body)
	res := NestedResult{Segments: len(segments)}
	for i, seg := range segments {
		rec, pseudo := e.assemble(seg, fileID, i, parentSubject)
		if pseudo {
			res.Pseudo++
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// assemble runs the fallback chain for one segment: classified dialect
// extractor, then the generic extractor, then a pseudo-record built from
// cleaned raw text with the Unknown sender placeholder.
func (e *Engine) assemble(seg Segment, fileID string, idx int, parentSubject string) (EmailRecord, bool) {
	var h HeaderFields
	switch Classify(seg.Text) {
	case DialectQuotedSender:
		h = e.extractQuoted(seg.Text)
	case DialectInternalStanza:
		h = e.extractStanza(seg.Text)
	case DialectGenericRFC822:
		h = e.extractGeneric(seg.Text)
	}

	if !h.usable() {
		h = e.extractGeneric(seg.Text)
	}

	pseudo := false
	if !h.usable() {
		pseudo = true
		h = HeaderFields{
			From: e.addrs.Normalize("Unknown"),
			Body: CleanBody(seg.Text),
		}
	}

	if h.Body == "" {
		h.Body = strings.TrimSpace(seg.Text)
	}
	subject := h.Subject
	if subject == "" {
		// Keeps an unlabeled nested message in its parent's thread.
		subject = parentSubject
	}

	return EmailRecord{
		ID:        NestedID(fileID, seg.Text, idx),
		Date:      h.Date,
		Subject:   subject,
		From:      h.From,
		To:        h.To,
		Cc:        h.Cc,
		Bcc:       h.Bcc,
		BodyClean: h.Body,
		SourceRef: fmt.Sprintf("%s-nested-%d", fileID, idx),
	}, pseudo
}

// RecordID derives the stable identifier for a top-level message: a
// truncated digest of the source file id, or of a bounded content sample
// when no file id exists.
func RecordID(fileID, content string) string {
	if fileID != "" {
		sum := md5.Sum([]byte(fileID))
		return hex.EncodeToString(sum[:])[:16]
	}
	return contentID(content)
}

// NestedID appends a per-file sequence suffix so nested records from one
// source stay distinct from the parent and from each other.
func NestedID(fileID, content string, idx int) string {
	return fmt.Sprintf("%s_n%d", RecordID(fileID, content), idx)
}

// contentID hashes a bounded start/middle/end sample so identifier cost
// stays constant on large inputs.
func contentID(content string) string {
	const window = 300
	data := content
	if len(content) > 1000 {
		mid := len(content)/2 - window/2
		data = content[:window] + content[mid:mid+window] + content[len(content)-window:]
	}
	sum := md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}
