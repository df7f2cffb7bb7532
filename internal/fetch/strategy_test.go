package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/kitchenops/demosync/internal/fetcher"
)

func testFetcher() *fetcher.HTTPFetcher {
	return fetcher.New(fetcher.Options{})
}

func xlsxBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("DemoSchedule")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestCSVExportStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("\"Acme, Inc.\",a@b.com,999\nBeta,b@b.com,111\n")) //nolint:errcheck
	}))
	defer srv.Close()

	s := &CSVExportStrategy{Fetcher: testFetcher(), Label: "gviz-csv", URL: srv.URL}
	rows, err := s.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Acme, Inc.", "a@b.com", "999"}, rows[0])
}

func TestCSVExportStrategy_SignInPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>Sign in - accounts.google.com</body></html>`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := &CSVExportStrategy{Fetcher: testFetcher(), Label: "export-csv", URL: srv.URL}
	_, err := s.Rows(context.Background())
	require.Error(t, err)

	var se *StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ClassPermission, se.Class)
	assert.Equal(t, "export-csv", se.Strategy)
}

func TestCSVExportStrategy_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := &CSVExportStrategy{Fetcher: testFetcher(), Label: "export-csv", URL: srv.URL}
	_, err := s.Rows(context.Background())
	var se *StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ClassNotFound, se.Class)
}

func TestXLSXExportStrategy(t *testing.T) {
	body := xlsxBytes(t, [][]string{
		{"Acme", "a@b.com", "999"},
		{"Beta", "b@b.com", "111"},
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write(body) //nolint:errcheck
	}))
	defer srv.Close()

	s := &XLSXExportStrategy{Fetcher: testFetcher(), URL: srv.URL}
	rows, err := s.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Acme", "a@b.com", "999"}, rows[0])
	assert.Equal(t, []string{"Beta", "b@b.com", "111"}, rows[1])
}

func TestXLSXExportStrategy_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a zip archive")) //nolint:errcheck
	}))
	defer srv.Close()

	s := &XLSXExportStrategy{Fetcher: testFetcher(), URL: srv.URL}
	_, err := s.Rows(context.Background())
	var se *StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ClassMalformed, se.Class)
}

func TestExportURLs(t *testing.T) {
	gviz, csvURL, xlsxURL := ExportURLs("", "abc123", "7")
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/gviz/tq?tqx=out:csv&gid=7", gviz)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=7", csvURL)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/export?format=xlsx&gid=7", xlsxURL)

	gviz, _, _ = ExportURLs("http://127.0.0.1:9999", "abc123", "0")
	assert.Equal(t, "http://127.0.0.1:9999/spreadsheets/d/abc123/gviz/tq?tqx=out:csv&gid=0", gviz)
}
