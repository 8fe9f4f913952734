package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDates_Normalize_RFC822WithOffset(t *testing.T) {
	d := NewDates("America/Chicago")

	got := d.Normalize("Tue, 14 May 2001 16:39:00 -0700")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2001, 5, 14, 23, 39, 0, 0, time.UTC), *got)
}

func TestDates_Normalize_OffsetRepresentationsAgree(t *testing.T) {
	d := NewDates("America/Chicago")

	numeric := d.Normalize("Thu, 01 Feb 2001 10:00:00 +0000")
	named := d.Normalize("Thu, 01 Feb 2001 10:00:00 GMT")
	require.NotNil(t, numeric)
	require.NotNil(t, named)
	assert.True(t, numeric.Equal(*named), "+0000 and GMT should map to the same instant")
}

func TestDates_Normalize_AbbreviationResolvedAgainstDefaultZone(t *testing.T) {
	d := NewDates("America/Chicago")

	// CST is -0600 regardless of what the calendar date would observe.
	cst := d.Normalize("Thu, 13 Sep 2001 10:30:00 CST")
	require.NotNil(t, cst)
	assert.Equal(t, time.Date(2001, 9, 13, 16, 30, 0, 0, time.UTC), *cst)

	cdt := d.Normalize("Thu, 13 Sep 2001 10:30:00 CDT")
	require.NotNil(t, cdt)
	assert.Equal(t, time.Date(2001, 9, 13, 15, 30, 0, 0, time.UTC), *cdt)

	// The abbreviation and numeric forms of the same offset agree.
	numeric := d.Normalize("Thu, 13 Sep 2001 10:30:00 -0600")
	require.NotNil(t, numeric)
	assert.True(t, cst.Equal(*numeric))
}

func TestDates_Normalize_UnknownAbbreviationRejected(t *testing.T) {
	d := NewDates("America/Chicago")

	// An abbreviation the default zone cannot resolve must come back absent,
	// never as a zero-offset instant.
	assert.Nil(t, d.Normalize("Thu, 13 Sep 2001 10:30:00 PST"))
}

func TestDates_Normalize_InternalShapeUsesDefaultZone(t *testing.T) {
	d := NewDates("America/Chicago")

	// January 2nd is CST, UTC-6.
	got := d.Normalize("01/02/2001 09:00 AM")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2001, 1, 2, 15, 0, 0, 0, time.UTC), *got)
}

func TestDates_Normalize_InternalShapeWithSeconds(t *testing.T) {
	d := NewDates("America/Chicago")

	got := d.Normalize("09/26/2000 01:18:45 PM")
	require.NotNil(t, got)
	// September is CDT, UTC-5.
	assert.Equal(t, time.Date(2000, 9, 26, 18, 18, 45, 0, time.UTC), *got)
}

func TestDates_Normalize_TwelveHourEdges(t *testing.T) {
	d := NewDates("UTC")

	midnight := d.Normalize("12/31/2001 12:15 AM")
	require.NotNil(t, midnight)
	assert.Equal(t, 0, midnight.Hour())

	noon := d.Normalize("12/31/2001 12:15 PM")
	require.NotNil(t, noon)
	assert.Equal(t, 12, noon.Hour())
}

func TestDates_Normalize_ComponentFallbackWithTrailingText(t *testing.T) {
	d := NewDates("UTC")

	got := d.Normalize("03/28/2001 02:07 PM something trailing")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2001, 3, 28, 14, 7, 0, 0, time.UTC), *got)
}

func TestDates_Normalize_UnparseableReturnsNil(t *testing.T) {
	d := NewDates("America/Chicago")

	assert.Nil(t, d.Normalize(""))
	assert.Nil(t, d.Normalize("Unknown"))
	assert.Nil(t, d.Normalize("not a date at all"))
}

func TestDates_Normalize_UnknownZoneFallsBackToUTC(t *testing.T) {
	d := NewDates("Mars/Olympus_Mons")
	assert.Equal(t, time.UTC, d.Location())

	got := d.Normalize("01/02/2001 09:00 AM")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2001, 1, 2, 9, 0, 0, 0, time.UTC), *got)
}
