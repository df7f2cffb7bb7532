// Package ingest turns raw spreadsheet exports into canonical demo-request
// records: CSV tokenization, date/time and status normalization, schedule
// assignment parsing, row transformation, deduplication, and override
// merging. Everything here is pure and network-free.
package ingest

import "strings"

// ParseCSV tokenizes raw CSV text into rows of string fields. Line endings
// are normalized, blank lines skipped, and rows may have irregular widths;
// column-count enforcement happens later in TransformRow.
//
// The scanner is hand-rolled rather than encoding/csv because the sheet
// exports in the wild mix standard `""` quote escaping with backslash
// escapes and stray quotes mid-field, which encoding/csv rejects.
func ParseCSV(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, parseLine(line))
	}
	return rows
}

func parseLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				// Escaped quote: emit one literal quote, stay in-quote.
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == '\\' && i+1 < len(runes):
			// Backslash escapes the next character literally.
			cur.WriteRune(runes[i+1])
			i++
		case c == ',' && !inQuotes:
			fields = append(fields, stripSurroundingQuotes(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	fields = append(fields, stripSurroundingQuotes(cur.String()))
	return fields
}

// stripSurroundingQuotes removes a matching pair of quotes that survived
// tokenization (e.g. from a field like `"x""y"` where the scanner kept the
// escaped quote).
func stripSurroundingQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
