package jobs

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/ingest"
	"github.com/catherineraj6/lab1-226/internal/pipeline"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// Recorder persists pipeline run reports. Jobs tolerate a nil Recorder:
// recording is best-effort and never fails the run.
type Recorder interface {
	Record(ctx context.Context, report *pipeline.Report) error
}

// IngestJob runs the daily price ingestion pipeline:
// per-symbol extract/transform, fan-in load, forecast provisioning.
type IngestJob struct {
	cfg              config.IngestConfig
	schedule         string
	extractor        *ingest.Extractor
	loader           *ingest.Loader
	tableProvisioner *ingest.ForecastTableProvisioner
	modelProvisioner *ingest.ModelProvisioner
	inserter         *ingest.ForecastInserter
	recorder         Recorder
	logger           *logger.Logger
}

// NewIngestJob creates the ingestion job
func NewIngestJob(
	cfg config.IngestConfig,
	schedule string,
	extractor *ingest.Extractor,
	loader *ingest.Loader,
	tableProvisioner *ingest.ForecastTableProvisioner,
	modelProvisioner *ingest.ModelProvisioner,
	inserter *ingest.ForecastInserter,
	recorder Recorder,
	log *logger.Logger,
) *IngestJob {
	return &IngestJob{
		cfg:              cfg,
		schedule:         schedule,
		extractor:        extractor,
		loader:           loader,
		tableProvisioner: tableProvisioner,
		modelProvisioner: modelProvisioner,
		inserter:         inserter,
		recorder:         recorder,
		logger:           log,
	}
}

// Name returns the job name
func (j *IngestJob) Name() string {
	return ingest.GraphName
}

// Schedule returns the cron schedule expression
func (j *IngestJob) Schedule() string {
	return j.schedule
}

// Run builds and executes the ingestion graph. The graph is rebuilt per
// run so every run gets fresh per-branch handoff slots.
func (j *IngestJob) Run(ctx context.Context) error {
	graph, err := ingest.BuildGraph(j.cfg, j.extractor, j.loader, j.tableProvisioner, j.modelProvisioner, j.inserter, j.logger)
	if err != nil {
		return fmt.Errorf("build ingest graph: %w", err)
	}

	report, runErr := graph.Run(ctx)
	recordReport(ctx, j.recorder, report, j.logger)
	return runErr
}

// recordReport persists a run report when a recorder is configured.
// Ledger failures are logged, not propagated: the pipeline outcome wins.
func recordReport(ctx context.Context, recorder Recorder, report *pipeline.Report, log *logger.Logger) {
	if recorder == nil || report == nil {
		return
	}
	if err := recorder.Record(ctx, report); err != nil {
		log.WithError(err).Warn("Failed to record pipeline run")
	}
}
