package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssignment_Modern(t *testing.T) {
	roster := DefaultRoster()

	a := ParseAssignment("Kishore | 11:00 AM - 1:00 PM", roster)
	assert.Equal(t, []string{"Kishore"}, a.Members)
	assert.Equal(t, "11:00 AM - 1:00 PM", a.TimeSlot)
	assert.Equal(t, 2, a.Team)

	a = ParseAssignment("Arjun, Meena | 2:00 PM - 4:00 PM", roster)
	assert.Equal(t, []string{"Arjun", "Meena"}, a.Members)
	assert.Equal(t, "2:00 PM - 4:00 PM", a.TimeSlot)
	assert.Equal(t, 1, a.Team)
}

func TestParseAssignment_ModernNoSlot(t *testing.T) {
	a := ParseAssignment("Priya, Suresh", DefaultRoster())
	assert.Equal(t, []string{"Priya", "Suresh"}, a.Members)
	assert.Empty(t, a.TimeSlot)
	assert.Equal(t, 3, a.Team)
}

func TestParseAssignment_Legacy(t *testing.T) {
	roster := DefaultRoster()

	a := ParseAssignment("Scheduled: Team 2 at 11:00 AM - 1:00 PM (Grid: 1,3)", roster)
	assert.Equal(t, 2, a.Team)
	assert.Equal(t, "11:00 AM - 1:00 PM", a.TimeSlot)
	assert.Empty(t, a.Members)

	// Legacy cells sometimes name members instead of a team number.
	a = ParseAssignment("Scheduled: Deepa, Sanjay at 9:00 AM (Grid: 0,0)", roster)
	assert.Equal(t, []string{"Deepa", "Sanjay"}, a.Members)
	assert.Equal(t, "9:00 AM", a.TimeSlot)
	assert.Equal(t, 5, a.Team)
}

func TestParseAssignment_CaseInsensitiveInference(t *testing.T) {
	a := ParseAssignment("kishore r | 10:00 AM", DefaultRoster())
	assert.Equal(t, 2, a.Team)
}

func TestParseAssignment_Unknown(t *testing.T) {
	a := ParseAssignment("", DefaultRoster())
	assert.Zero(t, a)

	a = ParseAssignment("Zorro | 10:00 AM", DefaultRoster())
	assert.Equal(t, []string{"Zorro"}, a.Members)
	assert.Equal(t, 0, a.Team)
}

func TestIsAssignmentCell(t *testing.T) {
	tests := []struct {
		in     string
		expect bool
	}{
		{"Kishore | 11:00 AM - 1:00 PM", true},
		{"Scheduled: Team 3 at 2:00 PM (Grid: 2,1)", true},
		{"Paneer Tikka", false},
		{"Naan", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, IsAssignmentCell(tt.in), "input %q", tt.in)
	}
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitNames(" a , b ,, "))
	assert.Nil(t, splitNames("  "))
}
