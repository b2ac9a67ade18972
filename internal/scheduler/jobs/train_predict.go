package jobs

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/internal/forecast"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// TrainPredictJob runs the warehouse-native model train/predict pipeline.
// One session is opened per run and shared by all three tasks.
type TrainPredictJob struct {
	cfg      config.ForecastConfig
	schedule string
	pool     contracts.SessionPool
	recorder Recorder
	logger   *logger.Logger
}

// NewTrainPredictJob creates the train/predict job
func NewTrainPredictJob(
	cfg config.ForecastConfig,
	schedule string,
	pool contracts.SessionPool,
	recorder Recorder,
	log *logger.Logger,
) *TrainPredictJob {
	return &TrainPredictJob{
		cfg:      cfg,
		schedule: schedule,
		pool:     pool,
		recorder: recorder,
		logger:   log,
	}
}

// Name returns the job name
func (j *TrainPredictJob) Name() string {
	return forecast.GraphName
}

// Schedule returns the cron schedule expression
func (j *TrainPredictJob) Schedule() string {
	return j.schedule
}

// Run opens the shared session, executes the train/predict graph on it,
// and closes the session on every exit path.
func (j *TrainPredictJob) Run(ctx context.Context) error {
	session, err := j.pool.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("open train/predict session: %w", err)
	}
	defer session.Close()

	graph, err := forecast.BuildGraph(j.cfg, session, j.logger)
	if err != nil {
		return fmt.Errorf("build train/predict graph: %w", err)
	}

	report, runErr := graph.Run(ctx)
	recordReport(ctx, j.recorder, report, j.logger)
	return runErr
}
