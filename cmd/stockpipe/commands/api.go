package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/catherineraj6/lab1-226/internal/api"
	"github.com/catherineraj6/lab1-226/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `운영용 REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 작업/실행 이력 조회 엔드포인트 제공
- 파이프라인 수동 트리거 제공

Endpoints:
  GET  /health                    - Health check
  GET  /api/jobs                  - 등록된 작업과 통계
  POST /api/jobs/{name}/run       - 작업 즉시 실행
  GET  /api/jobs/{name}/history   - 작업 실행 이력
  GET  /api/runs                  - 영속화된 실행 기록 (레저 필요)

Example:
  go run ./cmd/stockpipe api
  go run ./cmd/stockpipe api --port 8088
  go run ./cmd/stockpipe api --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: 설정값)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "크론 스케줄러도 함께 시작")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stockpipe API Server ===")

	// 1. Load config and logger
	cfg, log, err := initRuntime()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize scheduler (jobs registered, cron not started unless asked)
	sched, ledger, cleanup, err := initSchedulerWithLedger()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	// 3. Create handlers and router
	jobsHandler := handlers.NewJobsHandler(sched, log)
	runsHandler := handlers.NewRunsHandler(ledger, log)
	router := api.NewRouter(jobsHandler, runsHandler, log)

	// 4. Create server
	server := api.New(cfg, log, router)

	// 5. Optionally start the cron schedule alongside the API
	if apiWithScheduler {
		sched.Start()
		defer sched.Stop()
		log.Info("Scheduler started alongside API server")
	}

	// 6. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/jobs")
	fmt.Println("  POST /api/jobs/{name}/run")
	fmt.Println("  GET  /api/jobs/{name}/history")
	fmt.Println("  GET  /api/runs")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
