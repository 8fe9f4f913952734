package extract

import (
	"regexp"
	"strings"
)

var genericHeaderRes = map[string]*regexp.Regexp{}

var genericHeaderNames = []string{"From", "To", "Cc", "Bcc", "Subject", "Date"}

func init() {
	for _, name := range genericHeaderNames {
		genericHeaderRes[name] = regexp.MustCompile(`(?im)^[ \t]*` + name + `:[ \t]*(.*)$`)
	}
}

// extractGeneric applies direct labeled-header extraction with a single
// first-match-per-header rule. It is both the generic_rfc822 dialect
// extractor and the escalation step when a dialect extractor produced no
// usable signal.
func (e *Engine) extractGeneric(content string) HeaderFields {
	var h HeaderFields

	h.From = e.addrs.Normalize(genericHeader(content, "From"))
	h.To = e.addrs.List(genericHeader(content, "To"))
	h.Cc = e.addrs.List(genericHeader(content, "Cc"))
	h.Bcc = e.addrs.List(genericHeader(content, "Bcc"))
	h.Subject = genericHeader(content, "Subject")
	if ds := genericHeader(content, "Date"); ds != "" {
		h.Date = e.dates.Normalize(ds)
	}

	// Body is everything after the last position any header pattern
	// consumed; with no header match at all, fall back to front-cleaning.
	last := -1
	for _, name := range genericHeaderNames {
		if loc := genericHeaderRes[name].FindStringIndex(content); loc != nil && loc[1] > last {
			last = loc[1]
		}
	}
	if last >= 0 {
		h.Body = strings.TrimSpace(content[last:])
	} else {
		h.Body = CleanBody(content)
	}
	return h
}

func genericHeader(content, name string) string {
	if m := genericHeaderRes[name].FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
