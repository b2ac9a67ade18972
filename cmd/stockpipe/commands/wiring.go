package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/catherineraj6/lab1-226/internal/ingest"
	"github.com/catherineraj6/lab1-226/internal/marketdata"
	"github.com/catherineraj6/lab1-226/internal/scheduler"
	"github.com/catherineraj6/lab1-226/internal/warehouse"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/database"
	"github.com/catherineraj6/lab1-226/pkg/httpclient"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// ═══════════════════════════════════════════════════════════
// Shared Wiring
// 모든 커맨드가 동일한 조립 경로를 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// initRuntime loads config and builds the logger
func initRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}

// ingestDeps bundles the Pipeline A components and their warehouse handle
type ingestDeps struct {
	wh               *warehouse.Warehouse
	extractor        *ingest.Extractor
	loader           *ingest.Loader
	tableProvisioner *ingest.ForecastTableProvisioner
	modelProvisioner *ingest.ModelProvisioner
	inserter         *ingest.ForecastInserter
}

// Close releases the warehouse connection
func (d *ingestDeps) Close() {
	d.wh.Close()
}

// initIngestDeps wires the ingestion pipeline components
func initIngestDeps(cfg *config.Config, log *logger.Logger) (*ingestDeps, error) {
	wh, err := warehouse.New(cfg.Snowflake, cfg.Snowflake.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect to warehouse: %w", err)
	}

	httpClient := httpclient.New(log, cfg.Vantage.Timeout)
	client := marketdata.NewClient(cfg.Vantage, httpClient, log)

	return &ingestDeps{
		wh:               wh,
		extractor:        ingest.NewExtractor(client, cfg.Ingest.WindowDays, log),
		loader:           ingest.NewLoader(wh, cfg.Ingest.PricesTable, log),
		tableProvisioner: ingest.NewForecastTableProvisioner(wh, cfg.Ingest.ForecastTable, log),
		modelProvisioner: ingest.NewModelProvisioner(wh, cfg.Ingest.ModelName, cfg.Ingest.PricesTable, log),
		inserter:         ingest.NewForecastInserter(wh, cfg.Ingest.ForecastTable, cfg.Ingest.ModelName, log),
	}, nil
}

// initLedger connects the optional run ledger. Returns (nil, nil, nil)
// when no RUNS_DATABASE_URL is configured.
func initLedger(cfg *config.Config, log *logger.Logger) (*scheduler.Ledger, *database.DB, error) {
	if !cfg.RunsDB.Enabled() {
		return nil, nil, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to runs database: %w", err)
	}

	ledger := scheduler.NewLedger(db.Pool, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ledger.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure ledger schema: %w", err)
	}

	log.Info("Run ledger connected")
	return ledger, db, nil
}
