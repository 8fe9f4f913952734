package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layouts are tried in order, most specific first. The MM/DD/YYYY shapes are
// the internal corporate convention; the rest are RFC 5322 variants seen in
// the wild. Every layout parses against the default zone: explicit offsets
// win outright, zone abbreviations resolve against the zone, and naive
// shapes are interpreted in it.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06 3:04 PM",
}

var dateComponentsRe = regexp.MustCompile(
	`(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AP]M)?`)

// Dates parses heterogeneous date strings into UTC instants. Strings with no
// explicit offset are assumed to be in the default zone.
type Dates struct {
	loc *time.Location
}

// NewDates returns a date normalizer using the named default zone. An
// unknown zone name falls back to UTC.
func NewDates(zone string) *Dates {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	return &Dates{loc: loc}
}

// Location returns the configured default zone.
func (d *Dates) Location() *time.Location {
	return d.loc
}

// Normalize parses a date string into a UTC instant. It returns nil when no
// strategy matches; it never falls back to the current time.
func (d *Dates) Normalize(value string) *time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, d.loc)
		if err != nil {
			continue
		}
		if fabricatedZone(t) {
			// The abbreviation is unknown to the default zone, so the
			// instant cannot be trusted. Every other layout would invent
			// the same zone, so go straight to the fallbacks.
			break
		}
		u := t.UTC()
		return &u
	}

	if t, ok := d.fromComponents(s); ok {
		u := t.UTC()
		return &u
	}

	// Last resort: the permissive parser used for RFC-ish strings the fixed
	// table misses.
	if t, err := dateparse.ParseIn(s, d.loc); err == nil && !fabricatedZone(t) {
		u := t.UTC()
		return &u
	}

	return nil
}

// fabricatedZone reports whether a parsed time sits in a zone the parser
// invented: a named abbreviation with a zero offset. Parsing fabricates such
// a zone when the abbreviation is unknown to the reference location, and the
// wall-clock time then masquerades as UTC.
func fabricatedZone(t time.Time) bool {
	name, offset := t.Zone()
	if offset != 0 {
		return false
	}
	switch name {
	case "", "UTC", "GMT", "UT":
		return false
	}
	return true
}

// fromComponents extracts MM/DD/YYYY HH:MM[:SS] [AM|PM] components directly
// when no whole-string layout matched (for example when trailing text
// follows the date).
func (d *Dates) fromComponents(s string) (time.Time, bool) {
	m := dateComponentsRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}

	switch m[7] {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, d.loc), true
}
