// Package extract recovers structured message records from email bodies that
// embed older messages as forwarded or quoted text. It locates embedded
// message boundaries, classifies the header dialect of each span, pulls the
// header fields out per dialect, and assembles canonical records.
package extract

import "time"

// Segment is a contiguous span of a parent body believed to contain one
// embedded message. Segments produced for one body are non-overlapping and
// ordered by start offset.
type Segment struct {
	Start int
	End   int
	Text  string
}

// Dialect identifies the embedded-header convention a segment uses.
type Dialect string

const (
	// DialectQuotedSender is the `"Name" <addr> on <date>` convention,
	// optionally followed by a "Please respond to" line.
	DialectQuotedSender Dialect = "quoted_sender"

	// DialectInternalStanza covers the terse internal conventions: a bare
	// name line followed by a date line and a To: line, a "Sent by:"
	// stanza, or a dashed "Forwarded by" banner.
	DialectInternalStanza Dialect = "internal_stanza"

	// DialectGenericRFC822 is an inline labeled header block (From:, To:,
	// Subject:, ...) appearing mid-body.
	DialectGenericRFC822 Dialect = "generic_rfc822"

	// DialectUnknown routes the segment to the generic fallback chain.
	DialectUnknown Dialect = "unknown"
)

// HeaderFields is the best-effort result of one extraction pass over a
// segment. Missing fields stay empty; extraction never fails outright.
type HeaderFields struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Date    *time.Time
	Body    string
}

// usable reports whether the extraction produced enough signal to build a
// real record from, as opposed to escalating down the fallback chain. Any
// recovered recipient counts, cc and bcc included.
func (h HeaderFields) usable() bool {
	return h.From != "" || len(h.To) > 0 || len(h.Cc) > 0 || len(h.Bcc) > 0 || h.Subject != ""
}

// EmailRecord is the externally visible unit: one per top-level message and
// one per recovered embedded message. Records are immutable once assembled
// except for ThreadID, which is assigned after the whole batch exists.
type EmailRecord struct {
	ID        string
	Date      *time.Time
	Subject   string
	From      string
	To        []string
	Cc        []string
	Bcc       []string
	BodyClean string
	SourceRef string
	ThreadID  string
}
