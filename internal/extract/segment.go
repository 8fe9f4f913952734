package extract

import (
	"regexp"
	"sort"
)

// minSegmentLen drops spurious boundary matches: a span shorter than this
// cannot hold a header block plus any content.
const minSegmentLen = 24

// datePat is the internal MM/DD/YYYY HH:MM[:SS] AM/PM shape, shared by
// several boundary and classifier patterns.
const datePat = `\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2}(?::\d{2})?\s*[AP]M`

// Boundary patterns are grouped into tiers of decreasing structural
// specificity. A lower tier is consulted only when every higher tier matched
// nothing, so generic patterns never fragment well-structured banners.
var boundaryTiers = [][]*regexp.Regexp{
	// Tier 1: explicit structural markers.
	{
		// Dashed "Forwarded by ... on ..." banner.
		regexp.MustCompile(`(?mi)^[ \t]*-{5,}[ \t]*Forwarded by .+? on .+?-{3,}`),
		// Quoted sender with an "on <date>" clause.
		regexp.MustCompile(`(?m)^"[^"\n]+"\s*<[^>\n]+>\s+on\s+` + datePat),
		// Original Message divider.
		regexp.MustCompile(`(?mi)^[ \t]*-{3,}[ \t]*Original Message[ \t]*-{3,}`),
	},
	// Tier 2: inline labeled header block (From: with a To: nearby).
	{
		regexp.MustCompile(`(?mi)^from:[^\n]*\n(?:[^\n]*\n){0,3}[ \t]*to:`),
	},
	// Tier 3: bare internal stanza (name line, date line, To: line).
	{
		regexp.MustCompile(`(?m)^[ \t]*[A-Za-z][^\n<>]*\n[ \t]*` + datePat + `[ \t]*\n(?:[ \t]*Sent by:[^\n]*\n)?[ \t]*[Tt]o:`),
	},
}

// DetectSegments scans a parent body for embedded-message start markers and
// returns the ordered, non-overlapping candidate segments. Each segment runs
// from an accepted start to just before the next accepted start, or to the
// end of the body. Segments below the minimum length are dropped, not merged.
func DetectSegments(body string) []Segment {
	if body == "" {
		return nil
	}

	var starts []int
	for _, tier := range boundaryTiers {
		for _, re := range tier {
			for _, loc := range re.FindAllStringIndex(body, -1) {
				starts = append(starts, loc[0])
			}
		}
		if len(starts) > 0 {
			break
		}
	}
	if len(starts) == 0 {
		return nil
	}

	sort.Ints(starts)
	starts = dedupInts(starts)

	segments := make([]Segment, 0, len(starts))
	for i, start := range starts {
		end := len(body)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end-start < minSegmentLen {
			continue
		}
		segments = append(segments, Segment{
			Start: start,
			End:   end,
			Text:  body[start:end],
		})
	}
	return segments
}

func dedupInts(xs []int) []int {
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
