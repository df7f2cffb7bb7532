// Package sync composes the fetch cascade, the ingestion pipeline, and the
// override store into the operations the CLI and HTTP surface call.
package sync

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitchenops/demosync/internal/fetch"
	"github.com/kitchenops/demosync/internal/fetcher"
	"github.com/kitchenops/demosync/internal/ingest"
	"github.com/kitchenops/demosync/internal/model"
	"github.com/kitchenops/demosync/internal/store"
	"github.com/kitchenops/demosync/pkg/sheets"
)

// SheetSource describes one origin sheet tab fed through its own strategy
// cascade.
type SheetSource struct {
	Name          string
	SpreadsheetID string
	GID           string
	ReadRange     string
	Source        model.Source

	// ExportBase overrides the public export host. Empty means
	// fetch.DefaultExportBase.
	ExportBase string
}

// Service wires the pipeline together.
type Service struct {
	store        store.Store
	sheetsClient sheets.Client // nil when no API credentials are configured
	httpFetcher  *fetcher.HTTPFetcher
	roster       ingest.Roster
	sources      []SheetSource
	timeout      time.Duration
	writeBack    bool
	now          func() time.Time
}

// Options configures a Service.
type Options struct {
	Store        store.Store
	SheetsClient sheets.Client
	Fetcher      *fetcher.HTTPFetcher
	Roster       ingest.Roster
	Sources      []SheetSource
	Timeout      time.Duration
	WriteBack    bool
}

// New creates a Service.
func New(opts Options) *Service {
	if opts.Roster == nil {
		opts.Roster = ingest.DefaultRoster()
	}
	if opts.Timeout == 0 {
		opts.Timeout = fetch.DefaultStrategyTimeout
	}
	return &Service{
		store:        opts.Store,
		sheetsClient: opts.SheetsClient,
		httpFetcher:  opts.Fetcher,
		roster:       opts.Roster,
		sources:      opts.Sources,
		timeout:      opts.Timeout,
		writeBack:    opts.WriteBack,
		now:          time.Now,
	}
}

// WithNow fixes the clock for testing.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) orchestratorFor(src SheetSource) *fetch.Orchestrator {
	var strategies []fetch.Strategy
	if s.sheetsClient != nil {
		readRange := src.ReadRange
		if readRange == "" {
			readRange = src.Name
		}
		strategies = append(strategies, &fetch.APIStrategy{
			Client:        s.sheetsClient,
			SpreadsheetID: src.SpreadsheetID,
			ReadRange:     readRange,
		})
	}
	gviz, csvURL, xlsxURL := fetch.ExportURLs(src.ExportBase, src.SpreadsheetID, src.GID)
	strategies = append(strategies,
		&fetch.CSVExportStrategy{Fetcher: s.httpFetcher, Label: "gviz-csv", URL: gviz},
		&fetch.CSVExportStrategy{Fetcher: s.httpFetcher, Label: "export-csv", URL: csvURL},
		&fetch.XLSXExportStrategy{Fetcher: s.httpFetcher, URL: xlsxURL},
	)

	return &fetch.Orchestrator{
		SheetName:  src.Name,
		Strategies: strategies,
		Timeout:    s.timeout,
		Transform: ingest.TransformOptions{
			Source: src.Source,
			Roster: s.roster,
			Now:    s.now(),
		},
	}
}

// FetchAndReconcile runs every configured sheet through its strategy
// cascade (sheets concurrently, strategies within a sheet sequentially),
// concatenates the results, and applies stored overrides. The two sheets'
// identity spaces are never deduplicated against each other.
func (s *Service) FetchAndReconcile(ctx context.Context) ([]*model.DemoRecord, error) {
	results := make([][]*model.DemoRecord, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			records, err := s.orchestratorFor(src).Fetch(gctx)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*model.DemoRecord
	for _, records := range results {
		all = append(all, records...)
	}

	overrides, err := s.store.ListOverrides(ctx, "")
	if err != nil {
		// Live sheet data is still usable without stored edits.
		zap.L().Warn("sync: listing overrides failed, returning unmerged records", zap.Error(err))
		return all, nil
	}
	stored := store.OverrideMap(overrides)

	for _, orphan := range ingest.Orphans(all, stored) {
		zap.L().Warn("sync: orphaned override (identity absent from fetch)",
			zap.String("identity", orphan.Identity.String()),
			zap.String("override_id", orphan.ID),
		)
	}

	return ingest.MergeOverrides(all, stored), nil
}

// Orphans returns stored overrides whose identities are absent from the
// given fetched set.
func (s *Service) Orphans(ctx context.Context, fetched []*model.DemoRecord) ([]model.Override, error) {
	overrides, err := s.store.ListOverrides(ctx, "")
	if err != nil {
		return nil, err
	}
	return ingest.Orphans(fetched, store.OverrideMap(overrides)), nil
}

// SaveOverride persists the editable fields of a record (recipes, notes)
// and, when write-back is enabled, pushes the assignment cell to the
// spreadsheet. The write-back is best-effort: failures are logged, never
// returned, and there is no exactly-once guarantee.
func (s *Service) SaveOverride(ctx context.Context, rec *model.DemoRecord) (*model.Override, error) {
	ov := model.Override{
		Identity: rec.Identity(),
		Source:   rec.Source,
		Recipes:  rec.Recipes,
		Notes:    rec.Notes,
	}
	if existing, err := s.store.GetOverride(ctx, ov.Identity); err == nil && existing != nil {
		ov.ID = existing.ID
	}

	stored, err := s.store.SetOverride(ctx, ov)
	if err != nil {
		return nil, err
	}

	if s.writeBack && s.sheetsClient != nil {
		s.writeBackAssignment(ctx, rec)
	}
	return stored, nil
}

// DeleteOverride clears the stored edits for an identity.
func (s *Service) DeleteOverride(ctx context.Context, id model.Identity) error {
	return s.store.DeleteOverride(ctx, id)
}

func (s *Service) writeBackAssignment(ctx context.Context, rec *model.DemoRecord) {
	src, ok := s.sourceFor(rec.Source)
	if !ok {
		return
	}
	row, ok := rowFromRecordID(rec.ID)
	if !ok {
		return
	}

	cell := encodeAssignmentCell(rec)
	writeRange := fmt.Sprintf("%s!I%d", src.Name, row)
	if err := s.sheetsClient.UpdateValues(ctx, src.SpreadsheetID, writeRange, [][]string{{cell}}); err != nil {
		zap.L().Warn("sync: assignment write-back failed",
			zap.String("record", rec.ID),
			zap.String("range", writeRange),
			zap.Error(err),
		)
		return
	}
	zap.L().Info("sync: assignment written back",
		zap.String("record", rec.ID),
		zap.String("range", writeRange),
	)
}

func (s *Service) sourceFor(source model.Source) (SheetSource, bool) {
	for _, src := range s.sources {
		if src.Source == source {
			return src, true
		}
	}
	return SheetSource{}, false
}

// rowFromRecordID maps a record ID like "demo_schedule-3" back to its
// 1-based sheet row (offset by the header row).
func rowFromRecordID(id string) (int, bool) {
	idx := strings.LastIndex(id, "-")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0, false
	}
	return n + 2, true
}

// encodeAssignmentCell renders the modern "members | slot" encoding.
func encodeAssignmentCell(rec *model.DemoRecord) string {
	cell := strings.Join(rec.AssignedMembers, ", ")
	if rec.AssignedSlot != "" {
		cell += " | " + rec.AssignedSlot
	}
	return cell
}
