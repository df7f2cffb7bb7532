package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kitchenops/demosync/internal/config"
	"github.com/kitchenops/demosync/internal/model"
	syncsvc "github.com/kitchenops/demosync/internal/sync"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testCfg(t *testing.T) {
	t.Helper()
	oldCfg := cfg
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "test.db"),
		},
	}
	t.Cleanup(func() { cfg = oldCfg })
}

func TestWriteRecords_ToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "records.json")
	oldOutput := syncOutput
	syncOutput = out
	t.Cleanup(func() { syncOutput = oldOutput })

	require.NoError(t, writeRecords(syncsvc.FallbackRecords()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var records []*model.DemoRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.NotEmpty(t, rec.ClientName)
		assert.NotEmpty(t, rec.ClientEmail)
		assert.Contains(t, []model.LeadStatus{
			model.StatusPlanned, model.StatusRescheduled, model.StatusCancelled, model.StatusGiven,
		}, rec.LeadStatus)
	}
}

func TestInitStore_UnknownDriver(t *testing.T) {
	testCfg(t)
	cfg.Store.Driver = "mongodb"

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestInitService_SQLite(t *testing.T) {
	testCfg(t)

	env, err := initService(context.Background())
	require.NoError(t, err)
	defer env.Close()

	assert.NotNil(t, env.Store)
	assert.NotNil(t, env.Service)
}

func TestInitService_BadRosterPath(t *testing.T) {
	testCfg(t)
	cfg.Roster.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := initService(context.Background())
	assert.Error(t, err)
}
