package ingest

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/internal/pipeline"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// GraphName identifies the daily ingestion pipeline
const GraphName = "daily_ingest"

// BuildGraph assembles the daily ingestion DAG: per-symbol extract →
// transform chains running independently, a fan-in load, then the three
// forecast provisioning tasks in strict order.
// ⭐ SSOT: 수집 파이프라인 구성은 이 함수에서만
func BuildGraph(
	cfg config.IngestConfig,
	extractor *Extractor,
	loader *Loader,
	tableProvisioner *ForecastTableProvisioner,
	modelProvisioner *ModelProvisioner,
	inserter *ForecastInserter,
	log *logger.Logger,
) (*pipeline.Graph, error) {
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols configured")
	}

	g := pipeline.New(GraphName, log)

	var buildErr error
	add := func(name string, fn pipeline.TaskFunc, deps ...string) {
		if buildErr == nil {
			buildErr = g.Add(name, fn, deps...)
		}
	}

	// Per-branch handoff slots. The graph's dependency edges guarantee a
	// slot is written before its reader starts, with no concurrent access.
	raws := make([]contracts.RawSeries, len(cfg.Symbols))
	batches := make([][]contracts.PriceRecord, len(cfg.Symbols))

	loadDeps := make([]string, 0, len(cfg.Symbols))
	for i, symbol := range cfg.Symbols {
		extractName := "extract_" + symbol
		transformName := "transform_" + symbol

		add(extractName, func(ctx context.Context) error {
			raw, err := extractor.Extract(ctx, symbol)
			if err != nil {
				return err
			}
			raws[i] = raw
			return nil
		})

		add(transformName, func(ctx context.Context) error {
			records, err := Transform(raws[i])
			if err != nil {
				return err
			}
			batches[i] = records
			return nil
		}, extractName)

		loadDeps = append(loadDeps, transformName)
	}

	add("load", func(ctx context.Context) error {
		return loader.Load(ctx, batches...)
	}, loadDeps...)

	add("create_forecast_table", func(ctx context.Context) error {
		return tableProvisioner.Provision(ctx)
	}, "load")

	add("create_forecasting_model", func(ctx context.Context) error {
		return modelProvisioner.Provision(ctx)
	}, "create_forecast_table")

	add("insert_forecast_data", func(ctx context.Context) error {
		return inserter.Insert(ctx)
	}, "create_forecasting_model")

	if buildErr != nil {
		return nil, fmt.Errorf("build %s graph: %w", GraphName, buildErr)
	}

	return g, nil
}
