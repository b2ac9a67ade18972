package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// TaskFunc is the body of a single task
type TaskFunc func(ctx context.Context) error

// task is one node of the graph
type task struct {
	name string
	fn   TaskFunc
	deps []string
}

// Graph is a named DAG of tasks. Independent tasks run concurrently;
// a task starts only after every dependency has succeeded.
// ⭐ SSOT: 파이프라인 실행 순서는 이 그래프에서만 결정
type Graph struct {
	name   string
	tasks  map[string]*task
	order  []string // declaration order, for deterministic reports
	logger *logger.Logger
}

// New creates an empty graph
func New(name string, log *logger.Logger) *Graph {
	return &Graph{
		name:   name,
		tasks:  make(map[string]*task),
		order:  nil,
		logger: log.WithComponent("pipeline").WithField("pipeline", name),
	}
}

// Add registers a task with its dependencies. Task names must be unique.
func (g *Graph) Add(name string, fn TaskFunc, deps ...string) error {
	if name == "" {
		return fmt.Errorf("task name must not be empty")
	}
	if _, exists := g.tasks[name]; exists {
		return fmt.Errorf("duplicate task name: %s", name)
	}
	if fn == nil {
		return fmt.Errorf("task %s has no function", name)
	}

	g.tasks[name] = &task{name: name, fn: fn, deps: deps}
	g.order = append(g.order, name)
	return nil
}

// Size returns the number of registered tasks
func (g *Graph) Size() int {
	return len(g.tasks)
}

// validate checks that all dependencies exist and the graph is acyclic
func (g *Graph) validate() error {
	for _, t := range g.tasks {
		for _, dep := range t.deps {
			if _, ok := g.tasks[dep]; !ok {
				return fmt.Errorf("task %s depends on unknown task %s", t.name, dep)
			}
		}
	}

	// Kahn's algorithm: if not every task can be ordered, there is a cycle
	indegree := make(map[string]int, len(g.tasks))
	dependents := make(map[string][]string, len(g.tasks))
	for _, t := range g.tasks {
		indegree[t.name] = len(t.deps)
		for _, dep := range t.deps {
			dependents[dep] = append(dependents[dep], t.name)
		}
	}

	queue := make([]string, 0, len(g.tasks))
	for name, d := range indegree {
		if d == 0 {
			queue = append(queue, name)
		}
	}

	ordered := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered++
		for _, next := range dependents[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if ordered != len(g.tasks) {
		return fmt.Errorf("pipeline %s contains a dependency cycle", g.name)
	}

	return nil
}

// Run executes the graph. Tasks whose dependencies are all satisfied run
// concurrently. The first failure marks every transitive dependent as
// skipped; tasks that are already running finish, and independent branches
// still execute. The returned error is the first task failure, if any.
func (g *Graph) Run(ctx context.Context) (*Report, error) {
	if len(g.tasks) == 0 {
		return nil, fmt.Errorf("pipeline %s has no tasks", g.name)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Pipeline:  g.name,
		StartedAt: time.Now(),
	}

	log := g.logger.WithField("run_id", report.RunID)
	log.Infof("Pipeline started with %d tasks", len(g.tasks))

	results := make(map[string]*TaskResult, len(g.tasks))
	for _, name := range g.order {
		results[name] = &TaskResult{Name: name, State: TaskPending}
	}

	remaining := make(map[string]int, len(g.tasks))
	dependents := make(map[string][]string, len(g.tasks))
	for _, t := range g.tasks {
		remaining[t.name] = len(t.deps)
		for _, dep := range t.deps {
			dependents[dep] = append(dependents[dep], t.name)
		}
	}

	type doneMsg struct {
		name     string
		err      error
		duration time.Duration
	}
	doneCh := make(chan doneMsg)

	start := func(name string) {
		results[name].State = TaskRunning
		log.WithField("task", name).Debug("Task started")
		go func(t *task) {
			startedAt := time.Now()
			err := t.fn(ctx)
			doneCh <- doneMsg{name: t.name, err: err, duration: time.Since(startedAt)}
		}(g.tasks[name])
	}

	// skip marks a task and all its transitive dependents as skipped
	var skip func(name string)
	skip = func(name string) {
		for _, next := range dependents[name] {
			if results[next].State == TaskPending {
				results[next].State = TaskSkipped
				log.WithField("task", next).Warn("Task skipped")
				skip(next)
			}
		}
	}

	running := 0
	for _, name := range g.order {
		if remaining[name] == 0 {
			start(name)
			running++
		}
	}

	for running > 0 {
		msg := <-doneCh
		running--

		result := results[msg.name]
		result.Duration = msg.duration.Milliseconds()

		if msg.err != nil {
			result.State = TaskFailed
			result.Error = msg.err.Error()
			log.WithError(msg.err).WithField("task", msg.name).Error("Task failed")
			skip(msg.name)
			continue
		}

		result.State = TaskSuccess
		log.WithFields(map[string]interface{}{
			"task":        msg.name,
			"duration_ms": result.Duration,
		}).Info("Task completed")

		for _, next := range dependents[msg.name] {
			if results[next].State != TaskPending {
				continue
			}
			remaining[next]--
			if remaining[next] == 0 {
				start(next)
				running++
			}
		}
	}

	report.FinishedAt = time.Now()
	report.Success = true
	for _, name := range g.order {
		report.Tasks = append(report.Tasks, *results[name])
		if results[name].State != TaskSuccess {
			report.Success = false
		}
	}

	if err := report.Err(); err != nil {
		log.WithError(err).Error("Pipeline failed")
		return report, err
	}

	log.WithField("duration_ms", report.Duration().Milliseconds()).Info("Pipeline completed")
	return report, nil
}
