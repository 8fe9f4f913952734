// Package normalize converts the heterogeneous address and date shapes found
// in corporate email text into canonical forms: lowercase addresses and UTC
// instants.
package normalize

import (
	"regexp"
	"strings"

	"github.com/zostay/go-addr/pkg/addr"
)

var (
	angleRe     = regexp.MustCompile(`<([^>]+)>`)
	bareEmailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// Addresses normalizes address-like tokens against a configured internal
// domain. Tokens without a literal address (bare names, Name/Dept/Org@Tag
// notation) are synthesized as lower(name), spaces to dots, at that domain.
type Addresses struct {
	domain string
}

// NewAddresses returns an address normalizer for the given internal domain.
func NewAddresses(domain string) *Addresses {
	if domain == "" {
		domain = "enron.com"
	}
	return &Addresses{domain: domain}
}

// Domain returns the configured internal domain.
func (a *Addresses) Domain() string {
	return a.domain
}

// Normalize converts one address-like token into a canonical lowercase
// address. It returns "" for empty or header-keyword tokens; it never fails.
func (a *Addresses) Normalize(token string) string {
	tok := strings.TrimSpace(token)
	if tok == "" {
		return ""
	}

	// Display-name + <address> pairs: the bracketed part wins.
	if m := angleRe.FindStringSubmatch(tok); m != nil {
		inner := strings.TrimSpace(m[1])
		if inner != "" {
			return strings.ToLower(inner)
		}
	}

	low := strings.ToLower(tok)
	if isHeaderKeyword(low) {
		return ""
	}

	// A token with a real dotted domain is already an address.
	if strings.Contains(tok, "@") && !isInternalNotation(tok) {
		if parsed, err := addr.ParseEmailAddress(tok); err == nil && parsed.Address() != "" {
			return strings.ToLower(parsed.Address())
		}
		if m := bareEmailRe.FindString(tok); m != "" {
			return strings.ToLower(m)
		}
		return low
	}

	// Internal slash notation: Name/Dept/Org@Tag keeps only the name.
	name := tok
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return a.synthesize(name)
}

// List normalizes a comma- or semicolon-separated recipient string, dropping
// empty results and duplicates while preserving first-seen order.
func (a *Addresses) List(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var out []string

	// Bracketed addresses take precedence: quoted display names may contain
	// commas, so splitting first would mangle them.
	if ms := angleRe.FindAllStringSubmatch(value, -1); len(ms) > 0 {
		for _, m := range ms {
			inner := strings.ToLower(strings.TrimSpace(m[1]))
			if strings.Contains(inner, "@") {
				out = append(out, inner)
			}
		}
		if len(out) > 0 {
			return Dedup(out)
		}
	}

	for _, part := range splitList(value) {
		if norm := a.Normalize(part); norm != "" {
			out = append(out, norm)
		}
	}
	return Dedup(out)
}

func (a *Addresses) synthesize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	low := strings.ToLower(name)
	if isHeaderKeyword(low) || strings.HasPrefix(low, "to:") || strings.HasPrefix(low, "cc:") {
		return ""
	}
	return strings.ReplaceAll(low, " ", ".") + "@" + a.domain
}

// Dedup removes duplicates from a list of addresses, preserving the order in
// which each address was first seen.
func Dedup(addrs []string) []string {
	if len(addrs) < 2 {
		return addrs
	}
	seen := make(map[string]struct{}, len(addrs))
	out := addrs[:0]
	for _, s := range addrs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func splitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
}

// isInternalNotation reports whether a token that contains '@' is internal
// directory notation rather than a deliverable address: either the slash form
// (Name/Dept/Org@Tag) or an undotted placeholder suffix like "@ECT".
func isInternalNotation(tok string) bool {
	at := strings.IndexByte(tok, '@')
	if at < 0 {
		return false
	}
	if slash := strings.IndexByte(tok, '/'); slash >= 0 && slash < at {
		return true
	}
	return !strings.Contains(tok[at+1:], ".")
}

func isHeaderKeyword(low string) bool {
	switch strings.TrimSpace(low) {
	case "to:", "cc:", "bcc:", "to", "cc", "bcc":
		return true
	}
	return false
}
