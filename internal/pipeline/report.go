package pipeline

import (
	"fmt"
	"time"
)

// TaskState represents the lifecycle state of a task within one run
type TaskState string

const (
	// TaskPending 대기 중
	TaskPending TaskState = "pending"
	// TaskRunning 실행 중
	TaskRunning TaskState = "running"
	// TaskSuccess 성공
	TaskSuccess TaskState = "success"
	// TaskFailed 실패
	TaskFailed TaskState = "failed"
	// TaskSkipped 상위 작업 실패로 건너뜀
	TaskSkipped TaskState = "skipped"
)

// TaskResult records the outcome of a single task in a run
type TaskResult struct {
	Name     string    `json:"name"`
	State    TaskState `json:"state"`
	Duration int64     `json:"duration_ms"`
	Error    string    `json:"error,omitempty"`
}

// Report summarizes one pipeline run.
// Every task of the graph appears exactly once, in declaration order.
type Report struct {
	RunID      string       `json:"run_id"`
	Pipeline   string       `json:"pipeline"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Success    bool         `json:"success"`
	Tasks      []TaskResult `json:"tasks"`
}

// Duration returns the wall-clock duration of the run
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed returns the results of tasks that failed
func (r *Report) Failed() []TaskResult {
	var failed []TaskResult
	for _, t := range r.Tasks {
		if t.State == TaskFailed {
			failed = append(failed, t)
		}
	}
	return failed
}

// Err returns an error describing the first failed task, or nil on success
func (r *Report) Err() error {
	for _, t := range r.Tasks {
		if t.State == TaskFailed {
			return fmt.Errorf("task %s failed: %s", t.Name, t.Error)
		}
	}
	return nil
}
