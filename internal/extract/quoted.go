package extract

import (
	"regexp"
	"strings"

	"github.com/mbetts/mailsift/internal/normalize"
)

var (
	angleEmailRe  = regexp.MustCompile(`<([^>]+@[^>]+)>`)
	onDateRe      = regexp.MustCompile(`\bon\s+(` + datePat + `)`)
	respondAddrRe = regexp.MustCompile(`(?i)Please respond to\s+<([^>]+)>`)
	quotedNameRe  = regexp.MustCompile(`"([^"]+)"`)
	ccSectionRe   = regexp.MustCompile(`(?si)\bcc:[ \t]+(.*?)(?:\n\w+:|Subject:|$)`)
)

// nameLookahead bounds the scan for a bracketed address belonging to a
// quoted name whose address wrapped onto a later line.
const nameLookahead = 200

// extractQuoted handles the `"Name" <addr> on <date>` dialect. The address
// on a "Please respond to" line is the original author and takes priority
// over the on-line address, which belongs to the forwarder.
func (e *Engine) extractQuoted(content string) HeaderFields {
	var h HeaderFields
	angleMode := pleaseRespondRe.MatchString(content)

	section := ""
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		low := strings.ToLower(trimmed)

		switch {
		case strings.HasPrefix(low, "please respond to"):
			if m := respondAddrRe.FindStringSubmatch(line); m != nil {
				h.From = strings.ToLower(strings.TrimSpace(m[1]))
			}
			section = ""

		case quotedOnLine(line):
			if h.From == "" {
				if m := angleEmailRe.FindStringSubmatch(line); m != nil {
					h.From = strings.ToLower(strings.TrimSpace(m[1]))
				}
			}
			if h.Date == nil {
				if m := onDateRe.FindStringSubmatch(line); m != nil {
					h.Date = e.dates.Normalize(m[1])
				}
			}
			section = ""

		case strings.HasPrefix(low, "to:"):
			section = "to"
			h.To = append(h.To, e.recipientTokens(trimmed[len("to:"):], angleMode)...)

		case strings.HasPrefix(low, "cc:"):
			section = "cc"
			h.Cc = append(h.Cc, e.recipientTokens(trimmed[len("cc:"):], angleMode)...)

		case strings.HasPrefix(low, "subject:"):
			h.Subject = strings.TrimSpace(trimmed[len("subject:"):])
			section = ""

		case strings.HasPrefix(low, "bcc:"), strings.HasPrefix(low, "from:"), trimmed == "":
			section = ""

		case section != "" && !strings.HasPrefix(trimmed, "-"):
			// Wrapped recipient list continues on the next line.
			toks := e.recipientTokens(trimmed, angleMode)
			if section == "to" {
				h.To = append(h.To, toks...)
			} else {
				h.Cc = append(h.Cc, toks...)
			}
		}
	}

	if angleMode && len(h.Cc) == 0 {
		h.Cc = ccFromSection(content, h.From, h.To)
	}

	h.To = normalize.Dedup(h.To)
	h.Cc = normalize.Dedup(h.Cc)
	h.Body = isolateBody(content)
	return h
}

// recipientTokens splits one recipient line. In angle mode (the "Please
// respond to" shape) only bracketed addresses count: quoted display names
// there routinely contain commas and wrap mid-name, so an unbracketed
// fragment is noise, not an address.
func (e *Engine) recipientTokens(text string, angleMode bool) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if angleMode {
		var out []string
		for _, m := range angleEmailRe.FindAllStringSubmatch(text, -1) {
			out = append(out, strings.ToLower(strings.TrimSpace(m[1])))
		}
		return out
	}
	return e.addrs.List(text)
}

// ccFromSection recovers cc recipients when line-by-line capture found none:
// each quoted name in the cc section is paired with the nearest bracketed
// address within a bounded look-ahead, falling back to every bracketed
// address in the section, then to every bracketed address in the segment
// that is not already the sender or a To recipient.
func ccFromSection(content, from string, to []string) []string {
	m := ccSectionRe.FindStringSubmatchIndex(content)
	if m == nil {
		return nil
	}
	secStart := m[2]
	section := content[m[2]:m[3]]

	var out []string
	for _, nm := range quotedNameRe.FindAllStringSubmatch(section, -1) {
		// Anchor inside the cc section: the same display name may also
		// appear earlier, on the sender line.
		pos := strings.Index(section, `"`+nm[1]+`"`)
		if pos < 0 {
			continue
		}
		start := secStart + pos
		window := content[start:min(start+nameLookahead, len(content))]
		if em := angleEmailRe.FindStringSubmatch(window); em != nil {
			out = append(out, strings.ToLower(em[1]))
		}
	}

	if len(out) == 0 {
		for _, em := range angleEmailRe.FindAllStringSubmatch(section, -1) {
			out = append(out, strings.ToLower(em[1]))
		}
	}

	if len(out) == 0 {
		taken := map[string]bool{from: true}
		for _, a := range to {
			taken[a] = true
		}
		for _, em := range angleEmailRe.FindAllStringSubmatch(content, -1) {
			a := strings.ToLower(em[1])
			if !taken[a] {
				out = append(out, a)
			}
		}
	}

	return normalize.Dedup(out)
}
