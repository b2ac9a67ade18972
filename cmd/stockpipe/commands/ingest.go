package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catherineraj6/lab1-226/internal/ingest"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "주가 수집 파이프라인 1회 실행",
	Long: `일일 주가 수집 파이프라인을 즉시 1회 실행합니다.

이 명령어는:
- 심볼별로 시세 API에서 최근 90일 일봉 추출
- 평탄화 후 stock_prices 테이블에 트랜잭션 적재
- 예측 테이블/모델 재생성 및 예측 데이터 삽입

Example:
  go run ./cmd/stockpipe ingest
  go run ./cmd/stockpipe ingest --symbols AAPL,GOOG,MSFT`,
	RunE: runIngest,
}

var ingestSymbols string

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Flags
	ingestCmd.Flags().StringVar(&ingestSymbols, "symbols", "", "쉼표로 구분된 심볼 목록 (기본: 설정값)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	// Override symbols if flag is set
	if ingestSymbols != "" {
		var symbols []string
		for _, s := range strings.Split(ingestSymbols, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				symbols = append(symbols, trimmed)
			}
		}
		if len(symbols) == 0 {
			return fmt.Errorf("--symbols must list at least one symbol")
		}
		cfg.Ingest.Symbols = symbols
	}

	PrintRunHeader("Daily Price Ingestion", "Symbols   : "+strings.Join(cfg.Ingest.Symbols, ", "))

	deps, err := initIngestDeps(cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	graph, err := ingest.BuildGraph(cfg.Ingest, deps.extractor, deps.loader,
		deps.tableProvisioner, deps.modelProvisioner, deps.inserter, log)
	if err != nil {
		return err
	}

	report, runErr := graph.Run(context.Background())
	PrintReport(report)

	return runErr
}
