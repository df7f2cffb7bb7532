package fetch

import (
	"context"
	"fmt"

	"github.com/tealeg/xlsx/v2"

	"github.com/kitchenops/demosync/internal/fetcher"
	"github.com/kitchenops/demosync/internal/ingest"
	"github.com/kitchenops/demosync/pkg/sheets"
)

// Strategy is one concrete transport attempt for fetching sheet rows.
// Strategies return raw rows; transformation and reconciliation happen in
// the orchestrator so every transport feeds the same pipeline.
type Strategy interface {
	Name() string
	Rows(ctx context.Context) ([][]string, error)
}

// APIStrategy reads the sheet through the authenticated values API.
type APIStrategy struct {
	Client        sheets.Client
	SpreadsheetID string
	ReadRange     string
}

func (s *APIStrategy) Name() string { return "sheets-api" }

func (s *APIStrategy) Rows(ctx context.Context) ([][]string, error) {
	return s.Client.GetValues(ctx, s.SpreadsheetID, s.ReadRange)
}

// CSVExportStrategy fetches one of the public CSV export URL variants.
type CSVExportStrategy struct {
	Fetcher *fetcher.HTTPFetcher
	Label   string // distinguishes the URL variants in logs
	URL     string
}

func (s *CSVExportStrategy) Name() string { return s.Label }

func (s *CSVExportStrategy) Rows(ctx context.Context) ([][]string, error) {
	resp, err := s.Fetcher.Get(ctx, s.URL, nil)
	if err != nil {
		return nil, err
	}
	if serr := ClassifyExport(s.Label, resp.StatusCode, resp.ContentType, resp.Body); serr != nil {
		return nil, serr
	}
	return ingest.ParseCSV(string(resp.Body)), nil
}

// XLSXExportStrategy fetches the XLSX export and flattens the first sheet
// to rows. Last in the strategy order; it survives CSV-export quirks like
// unquoted commas because cells arrive pre-tokenized.
type XLSXExportStrategy struct {
	Fetcher *fetcher.HTTPFetcher
	URL     string
}

func (s *XLSXExportStrategy) Name() string { return "xlsx-export" }

func (s *XLSXExportStrategy) Rows(ctx context.Context) ([][]string, error) {
	resp, err := s.Fetcher.Get(ctx, s.URL, nil)
	if err != nil {
		return nil, err
	}
	if serr := ClassifyExport(s.Name(), resp.StatusCode, resp.ContentType, resp.Body); serr != nil {
		return nil, serr
	}

	f, err := xlsx.OpenBinary(resp.Body)
	if err != nil {
		return nil, &StrategyError{
			Strategy: s.Name(),
			Class:    ClassMalformed,
			Err:      fmt.Errorf("open xlsx: %w", err),
		}
	}
	if len(f.Sheets) == 0 {
		return nil, &StrategyError{
			Strategy: s.Name(),
			Class:    ClassMalformed,
			Err:      fmt.Errorf("xlsx has no sheets"),
		}
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.String())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// DefaultExportBase is the public Google Sheets host. Tests override it
// per sheet source.
const DefaultExportBase = "https://docs.google.com"

// ExportURLs builds the public export URL variants for a sheet tab.
func ExportURLs(exportBase, spreadsheetID, gid string) (gviz, csv, xlsxURL string) {
	if exportBase == "" {
		exportBase = DefaultExportBase
	}
	base := fmt.Sprintf("%s/spreadsheets/d/%s", exportBase, spreadsheetID)
	gviz = fmt.Sprintf("%s/gviz/tq?tqx=out:csv&gid=%s", base, gid)
	csv = fmt.Sprintf("%s/export?format=csv&gid=%s", base, gid)
	xlsxURL = fmt.Sprintf("%s/export?format=xlsx&gid=%s", base, gid)
	return gviz, csv, xlsxURL
}
