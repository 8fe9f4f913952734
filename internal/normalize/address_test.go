package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddresses_Normalize_BracketedAddress(t *testing.T) {
	n := NewAddresses("enron.com")

	assert.Equal(t, "jdoe@example.com", n.Normalize("<jdoe@example.com>"))
	assert.Equal(t, "cbpres@austin.rr.com", n.Normalize(`"George Richards" <cbpres@austin.rr.com>`))
	assert.Equal(t, "pallen@enron.com", n.Normalize(`"Phillip Allen" <PALLEN@ENRON.COM>`))
}

func TestAddresses_Normalize_PlainAddress(t *testing.T) {
	n := NewAddresses("enron.com")

	assert.Equal(t, "jdoe@example.com", n.Normalize("JDoe@Example.com"))
	// Already canonical input stays untouched
	assert.Equal(t, "jdoe@example.com", n.Normalize("jdoe@example.com"))
}

func TestAddresses_Normalize_InternalNotation(t *testing.T) {
	n := NewAddresses("enron.com")

	// Slash notation keeps only the name segment
	assert.Equal(t, "accounting@enron.com", n.Normalize("Accounting/NY/Corp@Tag"))
	assert.Equal(t, "phillip.k.allen@enron.com", n.Normalize("Phillip K Allen/HOU/ECT@ECT"))
	// Undotted placeholder suffix without slashes
	assert.Equal(t, "parking.&.transportation@enron.com", n.Normalize("Parking & Transportation@ENRON"))
}

func TestAddresses_Normalize_BareName(t *testing.T) {
	n := NewAddresses("enron.com")

	assert.Equal(t, "jane.doe@enron.com", n.Normalize("Jane Doe"))
	assert.Equal(t, "unknown@enron.com", n.Normalize("Unknown"))
}

func TestAddresses_Normalize_KeywordAndEmptyTokens(t *testing.T) {
	n := NewAddresses("enron.com")

	assert.Empty(t, n.Normalize(""))
	assert.Empty(t, n.Normalize("   "))
	assert.Empty(t, n.Normalize("to:"))
	assert.Empty(t, n.Normalize("cc:"))
	assert.Empty(t, n.Normalize("To: everyone downstream"))
}

func TestAddresses_Normalize_Idempotent(t *testing.T) {
	n := NewAddresses("enron.com")

	inputs := []string{
		"<JDoe@Example.com>",
		"Accounting/NY/Corp@Tag",
		"Jane Doe",
		"jdoe@example.com",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "normalize should be idempotent for %q", in)
	}
}

func TestAddresses_List_SplitsAndDedups(t *testing.T) {
	n := NewAddresses("enron.com")

	got := n.List("Jane Doe, jdoe@example.com; Jane Doe, Accounting/NY/Corp@Tag")
	assert.Equal(t, []string{"jane.doe@enron.com", "jdoe@example.com", "accounting@enron.com"}, got)
}

func TestAddresses_List_PrefersBracketedAddresses(t *testing.T) {
	n := NewAddresses("enron.com")

	// Quoted display names contain commas; bracketed addresses must win.
	got := n.List(`"Lewter, Larry" <retwell@mail.sanmarcos.net>, "Crocker, Claudia L." <clclegal2@aol.com>`)
	assert.Equal(t, []string{"retwell@mail.sanmarcos.net", "clclegal2@aol.com"}, got)
}

func TestAddresses_List_DropsMalformedTokens(t *testing.T) {
	n := NewAddresses("enron.com")

	got := n.List("to:, jdoe@example.com, ,")
	assert.Equal(t, []string{"jdoe@example.com"}, got)
}

func TestDedup_PreservesFirstSeenOrder(t *testing.T) {
	got := Dedup([]string{"b@x.com", "a@x.com", "b@x.com", "c@x.com", "a@x.com"})
	assert.Equal(t, []string{"b@x.com", "a@x.com", "c@x.com"}, got)
}
