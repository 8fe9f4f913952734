package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var threadPrefixRe = regexp.MustCompile(`^(?i:re|fwd|fw|forward):\s*`)

// ThreadID derives a deterministic conversation identifier from the
// normalized subject and participant set. A single leading reply/forward
// prefix is stripped, and participants are the sorted deduplicated
// non-empty union of the sender and the To recipients, so the result is
// independent of extraction order and of recipient ordering.
func ThreadID(subject, from string, to []string) string {
	subj := threadPrefixRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(subject)), "")

	seen := make(map[string]struct{}, len(to)+1)
	participants := make([]string, 0, len(to)+1)
	for _, p := range append([]string{from}, to...) {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		participants = append(participants, p)
	}
	sort.Strings(participants)

	key := subj + "|" + strings.Join(participants, "|")
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(key)).String()
}

// AssignThreadIDs stamps every record in a finished batch with its thread
// identifier. It runs only after the whole batch exists, since the id
// depends on nothing but each record's own normalized fields.
func AssignThreadIDs(records []EmailRecord) {
	for i := range records {
		records[i].ThreadID = ThreadID(records[i].Subject, records[i].From, records[i].To)
	}
}
