package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// Assignment is the structured form of a "team assignment" cell.
type Assignment struct {
	Members  []string `json:"members,omitempty"`
	TimeSlot string   `json:"time_slot,omitempty"`
	Team     int      `json:"team,omitempty"` // 1..MaxTeams, 0 = undetermined
}

var (
	// Legacy encoding written by the old grid UI:
	//   Scheduled: <team> at <slot> (Grid: <row>,<col>)
	legacyAssignmentRe = regexp.MustCompile(`^Scheduled:\s*(.+?)\s+at\s+(.+?)\s*\(Grid:\s*\d+\s*,\s*\d+\s*\)$`)
	teamNumberRe       = regexp.MustCompile(`^[Tt]eam\s*(\d)$`)
)

// ParseAssignment parses a team-assignment cell in any of its historical
// encodings. Blank or unrecognized input yields the zero Assignment, never
// an error.
func ParseAssignment(raw string, roster Roster) Assignment {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Assignment{}
	}

	var a Assignment
	if m := legacyAssignmentRe.FindStringSubmatch(raw); m != nil {
		teamPart := strings.TrimSpace(m[1])
		a.TimeSlot = strings.TrimSpace(m[2])
		if tm := teamNumberRe.FindStringSubmatch(teamPart); tm != nil {
			a.Team, _ = strconv.Atoi(tm[1])
		} else {
			a.Members = splitNames(teamPart)
		}
	} else {
		// Modern encoding: "name, name | slot".
		segments := strings.SplitN(raw, "|", 2)
		a.Members = splitNames(segments[0])
		if len(segments) > 1 {
			a.TimeSlot = strings.TrimSpace(segments[1])
		}
	}

	if a.Team == 0 && len(a.Members) > 0 {
		a.Team = roster.InferTeam(a.Members)
	}
	return a
}

// splitNames splits a comma-separated name list, trimming and dropping
// empties.
func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// IsAssignmentCell reports whether a cell looks like a team-assignment
// encoding rather than free text. Used by TransformRow to recover from
// column drift caused by unquoted commas in the recipes cell.
func IsAssignmentCell(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return strings.Contains(s, "|") || legacyAssignmentRe.MatchString(s)
}
