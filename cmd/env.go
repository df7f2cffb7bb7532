package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kitchenops/demosync/internal/fetcher"
	"github.com/kitchenops/demosync/internal/ingest"
	"github.com/kitchenops/demosync/internal/model"
	"github.com/kitchenops/demosync/internal/store"
	syncsvc "github.com/kitchenops/demosync/internal/sync"
	"github.com/kitchenops/demosync/pkg/sheets"
)

// syncEnv bundles the service with the resources that need closing.
type syncEnv struct {
	Store   store.Store
	Service *syncsvc.Service
}

func (e *syncEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// initService builds the sync service from config: the override store,
// the optional authenticated sheets client, the HTTP fetcher, and the
// roster.
func initService(ctx context.Context) (*syncEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	var sheetsClient sheets.Client
	if cfg.Sheets.Token != "" {
		sheetsClient = sheets.NewClient(
			sheets.StaticTokenSource(cfg.Sheets.Token),
			sheets.WithBaseURL(cfg.Sheets.APIBaseURL),
		)
	} else {
		zap.L().Info("no sheets token configured, using public export strategies only")
	}

	roster := ingest.DefaultRoster()
	if cfg.Roster.Path != "" {
		roster, err = ingest.LoadRoster(cfg.Roster.Path)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	svc := syncsvc.New(syncsvc.Options{
		Store:        st,
		SheetsClient: sheetsClient,
		Fetcher: fetcher.New(fetcher.Options{
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      cfg.Fetch.StrategyTimeout(),
			RateLimiters: fetcher.DefaultRateLimiters(),
		}),
		Roster:    roster,
		Timeout:   cfg.Fetch.StrategyTimeout(),
		WriteBack: cfg.Sheets.WriteBack,
		Sources: []syncsvc.SheetSource{
			{
				Name:          cfg.Sheets.DemoSheetName,
				SpreadsheetID: cfg.Sheets.SpreadsheetID,
				GID:           cfg.Sheets.DemoGID,
				Source:        model.SourceDemoSchedule,
			},
			{
				Name:          cfg.Sheets.KitchenSheetName,
				SpreadsheetID: cfg.Sheets.SpreadsheetID,
				GID:           cfg.Sheets.KitchenGID,
				Source:        model.SourceKitchenRequest,
			},
		},
	})

	return &syncEnv{Store: st, Service: svc}, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		return st, nil
	case "", "sqlite":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
