package extract

import (
	"regexp"
	"strings"

	"github.com/mbetts/mailsift/internal/normalize"
)

var (
	sentByValueRe = regexp.MustCompile(`(?i)Sent by:\s*([^\n]+)`)
	fwdByNameRe   = regexp.MustCompile(`(?i)Forwarded by\s+([^/\n]+?)(?:/[^\n]*?)?\s+on\s`)
	dateLineRe    = regexp.MustCompile(`^` + datePat + `$`)
	dateAnyRe     = regexp.MustCompile(datePat)
)

// extractStanza handles the internal conventions with no From: label: the
// dashed "Forwarded by" banner, the "Sent by:" stanza, and the bare
// name/date/To: stanza. The "Sent by:" address names the person acting for
// a shared account and outranks both the banner forwarder and the name line.
func (e *Engine) extractStanza(content string) HeaderFields {
	var h HeaderFields
	lines := strings.Split(content, "\n")

	var sentBy, fromBanner, fromName string

	section := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		low := strings.ToLower(trimmed)

		switch {
		case strings.HasPrefix(low, "sent by:"):
			if m := sentByValueRe.FindStringSubmatch(line); m != nil {
				sentBy = e.addrs.Normalize(m[1])
			}
			section = ""

		case strings.Contains(low, "forwarded by"):
			if m := fwdByNameRe.FindStringSubmatch(line); m != nil {
				fromBanner = e.addrs.Normalize(m[1])
			}
			if h.Date == nil {
				if m := dateAnyRe.FindString(line); m != "" {
					h.Date = e.dates.Normalize(m)
				}
			}
			section = ""

		case strings.HasPrefix(low, "to:"):
			section = "to"
			h.To = append(h.To, e.addrs.List(trimmed[len("to:"):])...)

		case strings.HasPrefix(low, "cc:"):
			section = "cc"
			h.Cc = append(h.Cc, e.addrs.List(trimmed[len("cc:"):])...)

		case strings.HasPrefix(low, "subject:"):
			h.Subject = strings.TrimSpace(trimmed[len("subject:"):])
			section = ""

		case strings.HasPrefix(low, "bcc:"), strings.HasPrefix(low, "from:"), trimmed == "":
			section = ""

		case section != "" && !strings.HasPrefix(trimmed, "-"):
			toks := e.addrs.List(trimmed)
			if section == "to" {
				h.To = append(h.To, toks...)
			} else {
				h.Cc = append(h.Cc, toks...)
			}

		case fromName == "" && !strings.HasPrefix(trimmed, "-") && i+1 < len(lines) &&
			dateLineRe.MatchString(strings.TrimSpace(lines[i+1])):
			// Bare stanza: a name line immediately above a date line.
			fromName = e.addrs.Normalize(trimmed)
			if h.Date == nil {
				h.Date = e.dates.Normalize(strings.TrimSpace(lines[i+1]))
			}
		}
	}

	switch {
	case sentBy != "":
		h.From = sentBy
	case fromBanner != "":
		h.From = fromBanner
	default:
		h.From = fromName
	}

	e.recoverRecipients(content, &h)

	h.To = normalize.Dedup(h.To)
	h.Cc = normalize.Dedup(h.Cc)
	h.Body = isolateBody(content)
	return h
}

// recoverRecipients gathers secondary recipient evidence when the primary
// pass found a sender but no recipients: bracketed addresses on To:/cc:
// lines first, then every bracketed address in the segment other than the
// sender, provided a subject exists to corroborate the shape.
func (e *Engine) recoverRecipients(content string, h *HeaderFields) {
	if h.From == "" || len(h.To) > 0 {
		return
	}

	for _, line := range strings.Split(content, "\n") {
		low := strings.ToLower(strings.TrimSpace(line))
		switch {
		case strings.Contains(low, "to:") && strings.Contains(line, "<"):
			for _, m := range angleEmailRe.FindAllStringSubmatch(line, -1) {
				h.To = append(h.To, strings.ToLower(m[1]))
			}
		case strings.Contains(low, "cc:") && strings.Contains(line, "<"):
			for _, m := range angleEmailRe.FindAllStringSubmatch(line, -1) {
				h.Cc = append(h.Cc, strings.ToLower(m[1]))
			}
		case strings.Contains(low, "subject:") && h.Subject == "":
			if idx := strings.Index(low, "subject:"); idx >= 0 {
				h.Subject = strings.TrimSpace(line[idx+len("subject:"):])
			}
		}
	}

	if len(h.To) == 0 && h.Subject != "" {
		for _, m := range angleEmailRe.FindAllStringSubmatch(content, -1) {
			a := strings.ToLower(m[1])
			if a != h.From {
				h.To = append(h.To, a)
			}
		}
	}
}
