package extract

import "regexp"

var (
	pleaseRespondRe = regexp.MustCompile(`(?mi)^[ \t]*Please respond to\b`)
	quotedOnRe      = regexp.MustCompile(`(?m)^"[^"\n]+"\s*<[^>\n]+>\s+on\s+`)
	// Banner-shaped only: prose mentioning forwarding must not claim the
	// segment for the stanza extractor.
	forwardedByRe = regexp.MustCompile(`(?mi)^[ \t]*-{2,}[ \t]*Forwarded by\b`)
	sentByRe      = regexp.MustCompile(`(?mi)^[ \t]*Sent by:`)
	stanzaStartRe   = regexp.MustCompile(`(?m)^[ \t]*[A-Za-z][^\n<>]*\n[ \t]*` + datePat + `[ \t]*\n(?:[^\n]*\n){0,2}[ \t]*(?i:to|cc|subject):`)
	fromHeaderRe    = regexp.MustCompile(`(?mi)^[ \t]*From:`)
	toHeaderRe      = regexp.MustCompile(`(?mi)^[ \t]*To:`)
)

// dialectRules is the precedence-ordered discriminator table. The first rule
// whose discriminator matches decides the dialect.
var dialectRules = []struct {
	dialect Dialect
	match   func(string) bool
}{
	{DialectQuotedSender, func(s string) bool {
		return pleaseRespondRe.MatchString(s) || quotedOnRe.MatchString(s)
	}},
	{DialectInternalStanza, func(s string) bool {
		return stanzaStartRe.MatchString(s) || forwardedByRe.MatchString(s) || sentByRe.MatchString(s)
	}},
	{DialectGenericRFC822, func(s string) bool {
		return fromHeaderRe.MatchString(s) && toHeaderRe.MatchString(s)
	}},
}

// Classify decides which header dialect a segment uses. Unknown is a valid
// terminal outcome that routes the segment to the generic fallback chain;
// classification never fails.
func Classify(segment string) Dialect {
	for _, rule := range dialectRules {
		if rule.match(segment) {
			return rule.dialect
		}
	}
	return DialectUnknown
}
