package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitchenops/demosync/internal/fetch"
	"github.com/kitchenops/demosync/internal/model"
	syncsvc "github.com/kitchenops/demosync/internal/sync"
)

var (
	syncLimit    int
	syncOffline  bool
	syncOutput   string
	syncFallback bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch, normalize, and reconcile demo requests",
	Long: `Runs the full pipeline: tries each transport strategy per sheet in
order (values API, CSV exports, XLSX export), parses and deduplicates the
rows, merges stored edits, and prints the canonical records as JSON.

Examples:
  # Live fetch
  demosync sync

  # Print the embedded sample data without touching the network
  demosync sync --offline

  # Keep going with sample data when every strategy fails
  demosync sync --fallback --output records.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if syncOffline {
			return writeRecords(syncsvc.FallbackRecords())
		}

		env, err := initService(ctx)
		if err != nil {
			return eris.Wrap(err, "sync: init service")
		}
		defer env.Close()

		records, err := env.Service.FetchAndReconcile(ctx)
		if err != nil {
			var se *fetch.StrategyError
			if errors.As(err, &se) {
				zap.L().Error("sync: all strategies exhausted",
					zap.String("class", string(se.Class)),
					zap.String("remediation", se.Remediation()),
					zap.Error(err),
				)
			}
			if !syncFallback {
				return err
			}
			zap.L().Warn("sync: falling back to sample data")
			records = syncsvc.FallbackRecords()
		}

		if syncLimit > 0 && syncLimit < len(records) {
			records = records[:syncLimit]
		}

		zap.L().Info("sync complete", zap.Int("records", len(records)))
		return writeRecords(records)
	},
}

func init() {
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "max records to print (0 = all)")
	syncCmd.Flags().BoolVar(&syncOffline, "offline", false, "print embedded sample data, skip all fetching")
	syncCmd.Flags().BoolVar(&syncFallback, "fallback", false, "on total fetch failure, print sample data instead of failing")
	syncCmd.Flags().StringVar(&syncOutput, "output", "", "write records JSON to file (default: stdout)")
	rootCmd.AddCommand(syncCmd)
}

func writeRecords(records []*model.DemoRecord) error {
	w := os.Stdout
	if syncOutput != "" {
		f, err := os.Create(syncOutput)
		if err != nil {
			return eris.Wrap(err, "sync: create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
