package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catherineraj6/lab1-226/internal/forecast"
	"github.com/catherineraj6/lab1-226/internal/warehouse"
)

// trainPredictCmd represents the train-predict command
var trainPredictCmd = &cobra.Command{
	Use:   "train-predict",
	Short: "학습/예측 파이프라인 1회 실행",
	Long: `모델 학습/예측 파이프라인을 즉시 1회 실행합니다.

이 명령어는:
- 예측 함수 재생성
- 학습 뷰 생성 후 웨어하우스 네이티브 모델 학습
- 7일 예측 생성, 실적+예측 최종 테이블 구축

세 작업은 하나의 세션을 공유하며 순차 실행됩니다.

Example:
  go run ./cmd/stockpipe train-predict`,
	RunE: runTrainPredict,
}

func init() {
	rootCmd.AddCommand(trainPredictCmd)
}

func runTrainPredict(cmd *cobra.Command, args []string) error {
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	PrintRunHeader("Model Train / Predict", "Model     : "+cfg.Forecast.FunctionName)

	wh, err := warehouse.New(cfg.Snowflake, cfg.Snowflake.MLDatabase, log)
	if err != nil {
		return fmt.Errorf("connect to warehouse: %w", err)
	}
	defer wh.Close()

	ctx := context.Background()

	// One session shared by all three tasks
	session, err := wh.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	graph, err := forecast.BuildGraph(cfg.Forecast, session, log)
	if err != nil {
		return err
	}

	report, runErr := graph.Run(ctx)
	PrintReport(report)

	return runErr
}
