package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDemoTime is the clock value used when a cell carries no usable time.
const DefaultDemoTime = "10:00 AM"

var (
	slashSemiRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})\s*;\s*(\d{1,2}):(\d{2})$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})(?:\s+(.+))?$`)
)

// genericLayouts are tried in order for ISO-ish and free-form date cells.
type genericLayout struct {
	layout  string
	hasTime bool
}

var genericLayouts = []genericLayout{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
	{"January 2, 2006", false},
	{"Jan 2, 2006", false},
	{"2 January 2006", false},
}

// NormalizeDateTime parses the heterogeneous date/time encodings found in
// spreadsheet cells into an ISO date and a 12-hour clock string. It is
// total: any unparseable input yields (now's date, DefaultDemoTime).
func NormalizeDateTime(raw string, now time.Time) (string, string) {
	fallbackDate := now.Format("2006-01-02")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallbackDate, DefaultDemoTime
	}

	// DD/MM/YY;HH:MM — semicolon-separated date and 24h time.
	if m := slashSemiRe.FindStringSubmatch(raw); m != nil {
		if date, ok := buildISODate(m[1], m[2], m[3]); ok {
			hour, _ := strconv.Atoi(m[4])
			minute, _ := strconv.Atoi(m[5])
			if hour < 24 && minute < 60 {
				return date, clock12(hour, minute)
			}
			return date, DefaultDemoTime
		}
	}

	// DD/MM/YYYY or DD/MM/YY, optionally followed by a free-text time
	// suffix which is passed through verbatim.
	if m := slashDateRe.FindStringSubmatch(raw); m != nil {
		if date, ok := buildISODate(m[1], m[2], m[3]); ok {
			if suffix := strings.TrimSpace(m[4]); suffix != "" {
				return date, suffix
			}
			return date, DefaultDemoTime
		}
	}

	// ISO-like strings and anything else: generic layouts, extracting the
	// time component when the layout carries one.
	if date, clock, ok := parseGeneric(raw); ok {
		return date, clock
	}

	return fallbackDate, DefaultDemoTime
}

func parseGeneric(raw string) (string, string, bool) {
	for _, gl := range genericLayouts {
		t, err := time.Parse(gl.layout, raw)
		if err != nil {
			continue
		}
		if gl.hasTime {
			return t.Format("2006-01-02"), clock12(t.Hour(), t.Minute()), true
		}
		return t.Format("2006-01-02"), DefaultDemoTime, true
	}
	return "", "", false
}

// buildISODate validates day/month ranges and expands two-digit years
// (YY<50 becomes 20YY, otherwise 19YY).
func buildISODate(dayStr, monthStr, yearStr string) (string, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)

	if len(yearStr) <= 2 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// clock12 renders a 24h hour/minute pair as "H:MM AM/PM". Hour 0 renders
// as 12 AM, hour 12 as 12 PM.
func clock12(hour, minute int) string {
	suffix := "AM"
	h := hour
	switch {
	case hour == 0:
		h = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		h = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}
