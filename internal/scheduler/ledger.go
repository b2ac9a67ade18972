package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catherineraj6/lab1-226/internal/pipeline"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

const createRunsTableSQL = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
    run_id      UUID PRIMARY KEY,
    pipeline    TEXT NOT NULL,
    started_at  TIMESTAMPTZ NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL,
    success     BOOLEAN NOT NULL,
    tasks       JSONB NOT NULL
)`

const createRunsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_pipeline_runs_pipeline
ON pipeline_runs (pipeline, started_at DESC)`

// Ledger persists pipeline run reports to Postgres. It is the local
// counterpart of an orchestrator's metadata database and is entirely
// optional; without it, run history lives in memory only.
// ⭐ SSOT: 실행 이력 영속화는 이 레저에서만
type Ledger struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewLedger creates a run ledger on the given pool
func NewLedger(pool *pgxpool.Pool, log *logger.Logger) *Ledger {
	return &Ledger{pool: pool, logger: log}
}

// EnsureSchema creates the runs table and index if they do not exist
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, createRunsTableSQL); err != nil {
		return fmt.Errorf("create pipeline_runs table: %w", err)
	}
	if _, err := l.pool.Exec(ctx, createRunsIndexSQL); err != nil {
		return fmt.Errorf("create pipeline_runs index: %w", err)
	}
	return nil
}

// Record persists one pipeline run report
func (l *Ledger) Record(ctx context.Context, report *pipeline.Report) error {
	tasks, err := json.Marshal(report.Tasks)
	if err != nil {
		return fmt.Errorf("marshal task results: %w", err)
	}

	_, err = l.pool.Exec(ctx, `
		INSERT INTO pipeline_runs (run_id, pipeline, started_at, finished_at, success, tasks)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, report.RunID, report.Pipeline, report.StartedAt, report.FinishedAt, report.Success, tasks)
	if err != nil {
		return fmt.Errorf("insert pipeline run: %w", err)
	}

	l.logger.WithFields(map[string]interface{}{
		"run_id":   report.RunID,
		"pipeline": report.Pipeline,
		"success":  report.Success,
	}).Debug("Pipeline run recorded")

	return nil
}

// RunRecord is one persisted pipeline run
type RunRecord struct {
	RunID      string                `json:"run_id"`
	Pipeline   string                `json:"pipeline"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Success    bool                  `json:"success"`
	Tasks      []pipeline.TaskResult `json:"tasks"`
}

// Recent returns the most recent persisted runs, newest first.
// An empty pipeline name matches every pipeline.
func (l *Ledger) Recent(ctx context.Context, pipelineName string, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT run_id, pipeline, started_at, finished_at, success, tasks
		FROM pipeline_runs
		WHERE ($1 = '' OR pipeline = $1)
		ORDER BY started_at DESC
		LIMIT $2`

	rows, err := l.pool.Query(ctx, query, pipelineName, limit)
	if err != nil {
		return nil, fmt.Errorf("query pipeline runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0, limit)
	for rows.Next() {
		var rec RunRecord
		var tasks []byte
		if err := rows.Scan(&rec.RunID, &rec.Pipeline, &rec.StartedAt, &rec.FinishedAt, &rec.Success, &tasks); err != nil {
			return nil, fmt.Errorf("scan pipeline run: %w", err)
		}
		if err := json.Unmarshal(tasks, &rec.Tasks); err != nil {
			return nil, fmt.Errorf("unmarshal task results: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pipeline runs: %w", err)
	}

	return records, nil
}
