package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

// recorder collects task completion order under a lock
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) hit(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

func (r *recorder) index(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return -1
}

func noop(ctx context.Context) error { return nil }

func TestAddDuplicateName(t *testing.T) {
	g := New("test", newTestLogger())

	if err := g.Add("a", noop); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := g.Add("a", noop); err == nil {
		t.Error("Expected error for duplicate task name")
	}
}

func TestAddEmptyName(t *testing.T) {
	g := New("test", newTestLogger())
	if err := g.Add("", noop); err == nil {
		t.Error("Expected error for empty task name")
	}
}

func TestRunEmptyGraph(t *testing.T) {
	g := New("test", newTestLogger())
	if _, err := g.Run(context.Background()); err == nil {
		t.Error("Expected error for empty graph")
	}
}

func TestRunUnknownDependency(t *testing.T) {
	g := New("test", newTestLogger())
	g.Add("a", noop, "missing")

	if _, err := g.Run(context.Background()); err == nil {
		t.Error("Expected error for unknown dependency")
	}
}

func TestRunCycle(t *testing.T) {
	g := New("test", newTestLogger())
	g.Add("a", noop, "b")
	g.Add("b", noop, "a")

	if _, err := g.Run(context.Background()); err == nil {
		t.Error("Expected error for dependency cycle")
	}
}

func TestRunLinearOrder(t *testing.T) {
	rec := &recorder{}
	g := New("test", newTestLogger())

	g.Add("extract", func(ctx context.Context) error { rec.hit("extract"); return nil })
	g.Add("transform", func(ctx context.Context) error { rec.hit("transform"); return nil }, "extract")
	g.Add("load", func(ctx context.Context) error { rec.hit("load"); return nil }, "transform")

	report, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.Success {
		t.Error("Expected report.Success")
	}

	want := []string{"extract", "transform", "load"}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.order) != len(want) {
		t.Fatalf("Expected %d executions, got %v", len(want), rec.order)
	}
	for i, name := range want {
		if rec.order[i] != name {
			t.Errorf("Expected position %d to be %s, got %s", i, name, rec.order[i])
		}
	}
}

func TestRunFanIn(t *testing.T) {
	rec := &recorder{}
	g := New("test", newTestLogger())

	g.Add("extract_AAPL", func(ctx context.Context) error { rec.hit("extract_AAPL"); return nil })
	g.Add("extract_GOOG", func(ctx context.Context) error { rec.hit("extract_GOOG"); return nil })
	g.Add("load", func(ctx context.Context) error { rec.hit("load"); return nil }, "extract_AAPL", "extract_GOOG")

	report, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !report.Success {
		t.Error("Expected report.Success")
	}

	// load must come after both extracts
	li := rec.index("load")
	if li < rec.index("extract_AAPL") || li < rec.index("extract_GOOG") {
		t.Errorf("load ran before its dependencies: %v", rec.order)
	}
}

func TestRunConcurrentBranches(t *testing.T) {
	g := New("test", newTestLogger())

	delay := 100 * time.Millisecond
	g.Add("branch_a", func(ctx context.Context) error { time.Sleep(delay); return nil })
	g.Add("branch_b", func(ctx context.Context) error { time.Sleep(delay); return nil })

	start := time.Now()
	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	elapsed := time.Since(start)

	// Run serially this would take at least 2*delay
	if elapsed >= 2*delay {
		t.Errorf("Independent branches did not run concurrently: took %v", elapsed)
	}
}

func TestRunFailureSkipsDependents(t *testing.T) {
	rec := &recorder{}
	g := New("test", newTestLogger())

	bang := errors.New("boom")
	g.Add("extract", func(ctx context.Context) error { return bang })
	g.Add("transform", func(ctx context.Context) error { rec.hit("transform"); return nil }, "extract")
	g.Add("load", func(ctx context.Context) error { rec.hit("load"); return nil }, "transform")
	g.Add("unrelated", func(ctx context.Context) error { rec.hit("unrelated"); return nil })

	report, err := g.Run(context.Background())
	if err == nil {
		t.Fatal("Expected Run to return the task error")
	}
	if report == nil {
		t.Fatal("Expected a report even on failure")
	}
	if report.Success {
		t.Error("Expected report.Success to be false")
	}

	states := make(map[string]TaskState)
	for _, tr := range report.Tasks {
		states[tr.Name] = tr.State
	}

	if states["extract"] != TaskFailed {
		t.Errorf("Expected extract to be failed, got %s", states["extract"])
	}
	if states["transform"] != TaskSkipped {
		t.Errorf("Expected transform to be skipped, got %s", states["transform"])
	}
	if states["load"] != TaskSkipped {
		t.Errorf("Expected load to be skipped, got %s", states["load"])
	}
	if states["unrelated"] != TaskSuccess {
		t.Errorf("Expected unrelated branch to succeed, got %s", states["unrelated"])
	}

	// Skipped tasks must never have executed
	if rec.index("transform") != -1 || rec.index("load") != -1 {
		t.Errorf("Skipped task executed: %v", rec.order)
	}

	failed := report.Failed()
	if len(failed) != 1 || failed[0].Name != "extract" {
		t.Errorf("Expected exactly extract in Failed(), got %v", failed)
	}
}

func TestReportCoversEveryTaskOnce(t *testing.T) {
	g := New("test", newTestLogger())
	names := []string{"a", "b", "c", "d"}
	g.Add("a", noop)
	g.Add("b", noop, "a")
	g.Add("c", noop, "a")
	g.Add("d", noop, "b", "c")

	report, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.RunID == "" {
		t.Error("Expected a run id")
	}

	seen := make(map[string]int)
	for _, tr := range report.Tasks {
		seen[tr.Name]++
	}
	for _, name := range names {
		if seen[name] != 1 {
			t.Errorf("Expected task %s exactly once in report, got %d", name, seen[name])
		}
	}

	// Declaration order is preserved in the report
	for i, name := range names {
		if report.Tasks[i].Name != name {
			t.Errorf("Expected report position %d to be %s, got %s", i, name, report.Tasks[i].Name)
		}
	}
}
