package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoStanzaBody = `Jeff Richter
12/07/2000 06:31 AM
To: Phillip K Allen/HOU/ECT@ECT
cc:
Subject: DJ Cal-ISO Pays

Power prices spiked overnight.

Sara Shackleton
12/08/2000 09:15 AM
To: Mark Taylor/HOU/ECT@ECT
cc:
Subject: ISDA Update

Draft attached for review.
`

func TestDetectSegments_ForwardedBanner(t *testing.T) {
	body := "----- Forwarded by Jane Doe on 01/02/2001 09:00 AM -----\nTo: John Smith\nSubject: Numbers\n\nSee attached."

	segments := DetectSegments(body)
	require.Len(t, segments, 1)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, len(body), segments[0].End)
	assert.Equal(t, body, segments[0].Text)
}

func TestDetectSegments_TwoStanzas(t *testing.T) {
	segments := DetectSegments(twoStanzaBody)
	require.Len(t, segments, 2)

	assert.True(t, strings.HasPrefix(segments[0].Text, "Jeff Richter"))
	assert.True(t, strings.HasPrefix(segments[1].Text, "Sara Shackleton"))
	assert.Equal(t, segments[1].Start, segments[0].End)
}

func TestDetectSegments_NonOverlappingAndOrdered(t *testing.T) {
	bodies := []string{
		twoStanzaBody,
		"----- Forwarded by A B on 01/02/2001 09:00 AM -----\nTo: x\nSubject: one\n\nfirst\n\n----- Forwarded by C D on 01/03/2001 10:00 AM -----\nTo: y\nSubject: two\n\nsecond",
		"no boundaries in this text at all",
	}

	for _, body := range bodies {
		segments := DetectSegments(body)
		for i := 1; i < len(segments); i++ {
			assert.Greater(t, segments[i].Start, segments[i-1].Start)
			assert.GreaterOrEqual(t, segments[i].Start, segments[i-1].End, "segments must not overlap")
		}
		for _, seg := range segments {
			assert.Equal(t, body[seg.Start:seg.End], seg.Text)
		}
	}
}

func TestDetectSegments_StructuralTierSuppressesGeneric(t *testing.T) {
	// A banner and an inline From: block in one body: the generic pattern
	// must not fragment the structured match.
	body := "intro text long enough here\n----- Forwarded by Jane Doe on 01/02/2001 09:00 AM -----\nFrom: someone@example.com\nTo: other@example.com\nSubject: hi\n\ncontent"

	segments := DetectSegments(body)
	require.Len(t, segments, 1)
	assert.True(t, strings.HasPrefix(segments[0].Text, "----- Forwarded by"))
}

func TestDetectSegments_ShortSegmentsDroppedNotMerged(t *testing.T) {
	// The first divider's span ends at the second divider and is below the
	// minimum length, so only the second segment survives.
	body := "---Original Message---\n---Original Message---\nsome content to keep here."

	segments := DetectSegments(body)
	require.Len(t, segments, 1)
	assert.Equal(t, 23, segments[0].Start)
	assert.Equal(t, len(body), segments[0].End)
}

func TestDetectSegments_EmptyBody(t *testing.T) {
	assert.Empty(t, DetectSegments(""))
	assert.Empty(t, DetectSegments("plain reply with no quoting at all"))
}
