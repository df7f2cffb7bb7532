package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kitchenops/demosync/internal/model"
)

// Column positions in the sheet export. The trailing "status" column is a
// legacy duplicate of the lead-status column and is not consumed.
const (
	colClientName = iota
	colClientEmail
	colClientMobile
	colLeadStatus
	colSalesRep
	colAssignee
	colDemoDateTime
	colRecipes
	colAssignment
	colMediaLink
	colAssignedTeam
	colAssignedSlot
	colStatus

	rowWidth = colStatus + 1
)

// minRowFields is the minimum field count for a row to be considered at
// all; anything shorter is structural noise, not a misaligned record.
const minRowFields = 6

// TransformOptions carries the per-sheet context for row transformation.
type TransformOptions struct {
	Source model.Source
	Roster Roster
	Now    time.Time
}

// TransformRow turns one tokenized CSV row into a canonical demo record.
// It returns nil for rows that are too short or missing an identity-bearing
// field (client name, client email, assignee) — those rows cannot be merged
// or referenced later, so they are dropped rather than stored partially.
func TransformRow(row []string, index int, opts TransformOptions) *model.DemoRecord {
	if len(row) < minRowFields {
		return nil
	}

	padded := make([]string, rowWidth)
	copy(padded, row)

	name := strings.TrimSpace(padded[colClientName])
	email := strings.TrimSpace(padded[colClientEmail])
	assignee := strings.ToLower(strings.TrimSpace(padded[colAssignee]))
	if name == "" || email == "" || assignee == "" {
		return nil
	}

	// An unquoted comma inside the recipes cell shifts every later column
	// right by one per comma. Recover by locating the first cell after the
	// recipes position that looks like an assignment encoding: everything
	// between the recipes column and that cell is recipe spillover.
	recipeCells := []string{padded[colRecipes]}
	assignmentIdx := colAssignment
	for j := colAssignment; j < len(row) && j < rowWidth; j++ {
		if IsAssignmentCell(row[j]) {
			recipeCells = append([]string{padded[colRecipes]}, row[colRecipes+1:j]...)
			assignmentIdx = j
			break
		}
	}
	shift := assignmentIdx - colAssignment

	field := func(col int) string {
		if col+shift < len(padded) {
			return padded[col+shift]
		}
		return ""
	}

	assignmentCell := field(colAssignment)
	assignment := ParseAssignment(assignmentCell, opts.Roster)

	date, clock := NormalizeDateTime(padded[colDemoDateTime], opts.Now)

	rec := &model.DemoRecord{
		ID:              fmt.Sprintf("%s-%d", opts.Source, index),
		Source:          opts.Source,
		ClientName:      name,
		ClientEmail:     email,
		ClientMobile:    strings.TrimSpace(padded[colClientMobile]),
		LeadStatus:      NormalizeStatus(padded[colLeadStatus]),
		DemoDate:        date,
		DemoTime:        clock,
		SalesRep:        strings.TrimSpace(padded[colSalesRep]),
		Assignee:        assignee,
		Recipes:         splitRecipes(recipeCells),
		AssignedMembers: assignment.Members,
		AssignedSlot:    assignment.TimeSlot,
		AssignedTeam:    assignment.Team,
		MediaLink:       strings.TrimSpace(field(colMediaLink)),
		// The raw assignment cell is preserved verbatim so the audit
		// trail keeps the original encoding even after structured
		// parsing.
		Notes: assignmentCell,
	}

	if team, ok := parseTeamNumber(field(colAssignedTeam)); ok {
		rec.AssignedTeam = team
	}
	if slot := strings.TrimSpace(field(colAssignedSlot)); slot != "" {
		rec.AssignedSlot = slot
	}

	return rec
}

// splitRecipes flattens comma-separated recipe cells into a trimmed,
// empty-filtered list.
func splitRecipes(cells []string) []string {
	var recipes []string
	for _, cell := range cells {
		for _, part := range strings.Split(cell, ",") {
			if r := strings.TrimSpace(part); r != "" {
				recipes = append(recipes, r)
			}
		}
	}
	return recipes
}

// parseTeamNumber accepts "3" or "Team 3" style cells within 1..MaxTeams.
func parseTeamNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := teamNumberRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > MaxTeams {
		return 0, false
	}
	return n, true
}
