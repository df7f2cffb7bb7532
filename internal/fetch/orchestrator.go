package fetch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitchenops/demosync/internal/ingest"
	"github.com/kitchenops/demosync/internal/model"
)

// Orchestrator tries an ordered list of strategies for one sheet, strictly
// sequentially, short-circuiting on the first success. Each attempt gets
// its own timeout. On exhaustion the last classified error is surfaced.
type Orchestrator struct {
	SheetName  string
	Strategies []Strategy
	Timeout    time.Duration
	Transform  ingest.TransformOptions
}

// DefaultStrategyTimeout bounds one strategy attempt.
const DefaultStrategyTimeout = 15 * time.Second

// Fetch runs the strategy cascade and returns the parsed, transformed,
// and deduplicated records from the first strategy that succeeds.
func (o *Orchestrator) Fetch(ctx context.Context) ([]*model.DemoRecord, error) {
	timeout := o.Timeout
	if timeout == 0 {
		timeout = DefaultStrategyTimeout
	}

	var last *StrategyError
	for _, strategy := range o.Strategies {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		rows, err := strategy.Rows(attemptCtx)
		cancel()

		if err != nil {
			last = Classify(strategy.Name(), err)
			zap.L().Warn("fetch strategy failed",
				zap.String("sheet", o.SheetName),
				zap.String("strategy", strategy.Name()),
				zap.String("class", string(last.Class)),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				return nil, Classify(strategy.Name(), ctx.Err())
			}
			continue
		}

		records := o.transform(rows)
		zap.L().Info("fetch strategy succeeded",
			zap.String("sheet", o.SheetName),
			zap.String("strategy", strategy.Name()),
			zap.Int("rows", len(rows)),
			zap.Int("records", len(records)),
		)
		return records, nil
	}

	if last == nil {
		last = &StrategyError{
			Strategy: "none",
			Class:    ClassOther,
			Err:      context.Canceled,
		}
	}
	return nil, last
}

func (o *Orchestrator) transform(rows [][]string) []*model.DemoRecord {
	rows = dropHeaderRow(rows)

	records := make([]*model.DemoRecord, 0, len(rows))
	for i, row := range rows {
		if rec := ingest.TransformRow(row, i, o.Transform); rec != nil {
			records = append(records, rec)
		}
	}
	return ingest.Reconcile(records, o.Transform.Now)
}

// dropHeaderRow removes the leading row when it looks like column titles
// rather than data: the email column of a data row always carries "@".
func dropHeaderRow(rows [][]string) [][]string {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return rows
	}
	if !strings.Contains(rows[0][1], "@") {
		return rows[1:]
	}
	return rows
}
