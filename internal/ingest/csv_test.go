package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_QuotedComma(t *testing.T) {
	rows := ParseCSV(`"Acme, Inc.",a@b.com,999`)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Acme, Inc.", "a@b.com", "999"}, rows[0])
}

func TestParseCSV_EscapedQuote(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		expect []string
	}{
		{"doubled quote", `"say ""hi""",b`, []string{`say "hi"`, "b"}},
		{"backslash quote", `say \"hi\",b`, []string{`say "hi"`, "b"}},
		{"backslash comma", `a\,b,c`, []string{"a,b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ParseCSV(tt.in)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.expect, rows[0])
		})
	}
}

func TestParseCSV_LineEndings(t *testing.T) {
	rows := ParseCSV("a,b\r\nc,d\re,f\n")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b"}, rows[0])
	assert.Equal(t, []string{"c", "d"}, rows[1])
	assert.Equal(t, []string{"e", "f"}, rows[2])
}

func TestParseCSV_SkipsBlankLines(t *testing.T) {
	rows := ParseCSV("a,b\n\n   \nc,d\n")
	require.Len(t, rows, 2)
}

func TestParseCSV_NewlineInsideQuotes(t *testing.T) {
	// The exports never emit embedded newlines; a quoted field is still
	// terminated at end of line rather than spanning rows.
	rows := ParseCSV("\"a\nb\",c")
	require.Len(t, rows, 2)
}

func TestParseCSV_IrregularWidths(t *testing.T) {
	rows := ParseCSV("a,b,c\nx\n1,2")
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 3)
	assert.Len(t, rows[1], 1)
	assert.Len(t, rows[2], 2)
}

func TestParseCSV_Empty(t *testing.T) {
	assert.Empty(t, ParseCSV(""))
	assert.Empty(t, ParseCSV("\n\n"))
}

func TestStripSurroundingQuotes(t *testing.T) {
	assert.Equal(t, "x", stripSurroundingQuotes(`"x"`))
	assert.Equal(t, `"x`, stripSurroundingQuotes(`"x`))
	assert.Equal(t, "", stripSurroundingQuotes(""))
	assert.Equal(t, `"`, stripSurroundingQuotes(`"`))
}
