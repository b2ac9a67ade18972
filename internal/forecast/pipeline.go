package forecast

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/internal/pipeline"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// GraphName identifies the train/predict pipeline
const GraphName = "train_predict"

// BuildGraph assembles the strictly sequential train/predict DAG:
// provision the forecast function, train the model, materialize the
// predictions. All three tasks share one session; the caller opens it
// before the run and closes it after.
// ⭐ SSOT: 학습/예측 파이프라인 구성은 이 함수에서만
func BuildGraph(cfg config.ForecastConfig, session contracts.Session, log *logger.Logger) (*pipeline.Graph, error) {
	provisioner := NewFunctionProvisioner(session, cfg.FunctionName, log)
	trainer := NewTrainer(session, cfg.TrainInputTable, cfg.TrainView, cfg.FunctionName, log)
	predictor := NewPredictor(session, cfg.FunctionName, cfg.TrainInputTable, cfg.ForecastTable, cfg.FinalTable, log)

	g := pipeline.New(GraphName, log)

	var buildErr error
	add := func(name string, fn pipeline.TaskFunc, deps ...string) {
		if buildErr == nil {
			buildErr = g.Add(name, fn, deps...)
		}
	}

	add("create_forecast_function", func(ctx context.Context) error {
		return provisioner.Provision(ctx)
	})

	add("train", func(ctx context.Context) error {
		return trainer.Train(ctx)
	}, "create_forecast_function")

	add("predict", func(ctx context.Context) error {
		return predictor.Predict(ctx)
	}, "train")

	if buildErr != nil {
		return nil, fmt.Errorf("build %s graph: %w", GraphName, buildErr)
	}

	return g, nil
}
