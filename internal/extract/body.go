package extract

import (
	"regexp"
	"strings"
)

// Section markers seen at the top of business memo bodies. When one is
// present the body runs from the marker to the nearest end marker.
var sectionMarkers = []string{
	"STRUCTURE:",
	"INTRODUCTION:",
	"SUMMARY:",
	"BACKGROUND:",
	"OVERVIEW:",
	"ANALYSIS:",
	"REPORT:",
	"DETAILS:",
}

var endMarkers = []string{
	" - winmail.dat",
	"\n\n-----Original Message",
	"\n\n-----Forwarded",
	"\n------ End of Forwarded Message",
}

// Front-of-body quoting and signature patterns, applied in order: the text
// is cut at the first match of each pattern in turn.
var quotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)From: .*\n`),
	regexp.MustCompile(`(?i)On .* wrote:`),
	regexp.MustCompile(`(?i)-+Original Message-+`),
	regexp.MustCompile(`(_{2,}|={2,}|-{2,})[ \t]*\n+`),
	regexp.MustCompile(`(?is)Forwarded by .*? on .*?-{2,}`),
	regexp.MustCompile(`(?is)From:.*?To:.*?Subject:.*?\n`),
}

var headerishPrefixes = []string{"from:", "to:", "cc:", "subject:", "date:"}

var forwardedLineRe = regexp.MustCompile(`(?i)forwarded by`)

// isolateBody determines the header/body split inside a segment when an
// extractor could not separate them cleanly. Strategies in priority order:
// section markers, first blank line after a run of header-looking lines, a
// fixed skip past a "forwarded by" phrase, then front-stripping of quote
// patterns.
func isolateBody(content string) string {
	for _, marker := range sectionMarkers {
		start := strings.Index(content, marker)
		if start < 0 {
			continue
		}
		end := len(content)
		for _, em := range endMarkers {
			if pos := strings.Index(content[start:], em); pos >= 0 && start+pos < end {
				end = start + pos
			}
		}
		return strings.TrimSpace(content[start:end])
	}

	lines := strings.Split(content, "\n")

	inHeaders := false
	for i, line := range lines {
		low := strings.ToLower(strings.TrimSpace(line))
		if looksLikeHeader(low) || quotedOnLine(line) {
			inHeaders = true
			continue
		}
		if inHeaders && low == "" {
			if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" && !looksLikeHeader(strings.ToLower(strings.TrimSpace(lines[i+1]))) {
				return strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			}
		}
	}

	// The dashed banner itself plus its header pair is typically 3 lines.
	for i, line := range lines {
		if forwardedLineRe.MatchString(line) && i+3 < len(lines) {
			return strings.TrimSpace(strings.Join(lines[i+3:], "\n"))
		}
	}

	return CleanBody(content)
}

// CleanBody strips quoted replies and signature blocks from the front of a
// body: the text is truncated at the first occurrence of each known quoting
// pattern, applied in sequence.
func CleanBody(body string) string {
	if body == "" {
		return ""
	}
	clean := body
	for _, re := range quotePatterns {
		if loc := re.FindStringIndex(clean); loc != nil {
			clean = clean[:loc[0]]
		}
	}
	return strings.TrimSpace(clean)
}

func looksLikeHeader(low string) bool {
	for _, p := range headerishPrefixes {
		if strings.HasPrefix(low, p) {
			return true
		}
	}
	return false
}

// quotedOnLine reports whether a line is a `"Name" <addr> on <date>` sender
// line, which counts as a header for the blank-line heuristic.
func quotedOnLine(line string) bool {
	return strings.Contains(line, `"`) && strings.Contains(line, "<") &&
		strings.Contains(line, ">") && strings.Contains(line, " on ")
}
