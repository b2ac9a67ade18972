package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/catherineraj6/lab1-226/internal/scheduler"
	"github.com/catherineraj6/lab1-226/internal/scheduler/jobs"
	"github.com/catherineraj6/lab1-226/internal/warehouse"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

이 명령어는:
- 스케줄러 데몬 시작
- 등록된 작업 조회
- 작업 실행 이력 조회

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행
  status  - 작업 실행 상태 조회

Example:
  go run ./cmd/stockpipe scheduler start
  go run ./cmd/stockpipe scheduler list
  go run ./cmd/stockpipe scheduler run daily_ingest`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- daily_ingest: 매일 자정 (주가 수집 + 예측 데이터 재생성)
- train_predict: 매일 새벽 2:30 (모델 학습 및 예측)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "작업 실행 상태 조회",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stockpipe Scheduler ===")

	// Initialize dependencies
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	// Run synchronously so the connection stays alive for the whole run
	if err := sched.RunJobAndWait(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("✅ Job completed")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		if stat.LastSuccess != nil {
			fmt.Printf("   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}

		if stat.LastFailure != nil {
			fmt.Printf("   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

// initScheduler wires both pipeline jobs into a scheduler
func initScheduler() (*scheduler.Scheduler, func(), error) {
	sched, _, cleanup, err := initSchedulerWithLedger()
	return sched, cleanup, err
}

// initSchedulerWithLedger additionally exposes the run ledger (nil when
// no RUNS_DATABASE_URL is configured) for the API's /api/runs endpoint
func initSchedulerWithLedger() (*scheduler.Scheduler, *scheduler.Ledger, func(), error) {
	// 1. Load config and logger
	cfg, log, err := initRuntime()
	if err != nil {
		return nil, nil, nil, err
	}

	// 2. Connect the optional run ledger
	ledger, ledgerDB, err := initLedger(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	var recorder jobs.Recorder
	if ledger != nil {
		recorder = ledger
	}

	// 3. Wire the ingestion pipeline
	ingestDeps, err := initIngestDeps(cfg, log)
	if err != nil {
		if ledgerDB != nil {
			ledgerDB.Close()
		}
		return nil, nil, nil, err
	}

	// 4. Wire the train/predict pipeline against the ML database
	mlWarehouse, err := warehouse.New(cfg.Snowflake, cfg.Snowflake.MLDatabase, log)
	if err != nil {
		ingestDeps.Close()
		if ledgerDB != nil {
			ledgerDB.Close()
		}
		return nil, nil, nil, err
	}

	// 5. Create scheduler and register jobs
	sched := scheduler.New(cfg.Scheduler, log)

	ingestJob := jobs.NewIngestJob(cfg.Ingest, cfg.Scheduler.IngestSchedule,
		ingestDeps.extractor, ingestDeps.loader,
		ingestDeps.tableProvisioner, ingestDeps.modelProvisioner, ingestDeps.inserter,
		recorder, log)
	if err := sched.AddJob(ingestJob); err != nil {
		return nil, nil, nil, fmt.Errorf("register ingest job: %w", err)
	}

	trainPredictJob := jobs.NewTrainPredictJob(cfg.Forecast, cfg.Scheduler.TrainPredictSchedule,
		mlWarehouse, recorder, log)
	if err := sched.AddJob(trainPredictJob); err != nil {
		return nil, nil, nil, fmt.Errorf("register train/predict job: %w", err)
	}

	cleanup := func() {
		ingestDeps.Close()
		mlWarehouse.Close()
		if ledgerDB != nil {
			ledgerDB.Close()
		}
	}

	return sched, ledger, cleanup, nil
}
