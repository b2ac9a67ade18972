package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockpipe",
	Short: "주가 수집 + 웨어하우스 예측 파이프라인",
	Long: `Stockpipe Unified CLI

일일 주가 수집(ETL)과 웨어하우스 네이티브 예측 모델의
학습/예측을 수행하는 두 개의 파이프라인.

Usage:
  go run ./cmd/stockpipe [command]

Examples:
  go run ./cmd/stockpipe ingest
  go run ./cmd/stockpipe train-predict
  go run ./cmd/stockpipe scheduler start
  go run ./cmd/stockpipe api
  go run ./cmd/stockpipe test-warehouse`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
