package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/catherineraj6/lab1-226/internal/warehouse"
)

// testWarehouseCmd represents the test-warehouse command
var testWarehouseCmd = &cobra.Command{
	Use:   "test-warehouse",
	Short: "웨어하우스 연결 테스트",
	Long: `두 파이프라인이 사용하는 웨어하우스 데이터베이스에 연결해
접속 가능 여부와 서버 버전을 확인합니다.

Example:
  go run ./cmd/stockpipe test-warehouse`,
	RunE: runTestWarehouse,
}

func init() {
	rootCmd.AddCommand(testWarehouseCmd)
}

func runTestWarehouse(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Warehouse Connection Test ===")

	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	databases := []string{cfg.Snowflake.Database, cfg.Snowflake.MLDatabase}

	for _, db := range databases {
		fmt.Printf("\nTesting database %q...\n", db)

		wh, err := warehouse.New(cfg.Snowflake, db, log)
		if err != nil {
			return fmt.Errorf("connect to %s: %w", db, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		if err := wh.Ping(ctx); err != nil {
			cancel()
			wh.Close()
			return fmt.Errorf("ping %s: %w", db, err)
		}

		version, err := wh.Version(ctx)
		cancel()
		wh.Close()
		if err != nil {
			return fmt.Errorf("query version on %s: %w", db, err)
		}

		fmt.Printf("✅ %s reachable (server version %s)\n", db, version)
	}

	fmt.Println("\nAll warehouse connections OK")
	return nil
}
