package commands

import (
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/pipeline"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintRunHeader prints a formatted pipeline run header
func PrintRunHeader(title, detail string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	if detail != "" {
		fmt.Println("───────────────────────────────────────────────────────────")
		fmt.Printf("  %s\n", detail)
	}
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintReport prints a per-task summary of one pipeline run
func PrintReport(report *pipeline.Report) {
	if report == nil {
		return
	}

	fmt.Printf("\nRun %s (%s)\n", report.RunID, report.Pipeline)
	for _, task := range report.Tasks {
		marker := stateMarker(task.State)
		if task.Error != "" {
			fmt.Printf("  %s %-28s %6dms  %s\n", marker, task.Name, task.Duration, task.Error)
			continue
		}
		fmt.Printf("  %s %-28s %6dms\n", marker, task.Name, task.Duration)
	}

	if report.Success {
		fmt.Printf("\n✅ Pipeline completed in %.1fs\n", report.Duration().Seconds())
	} else {
		fmt.Printf("\n❌ Pipeline failed after %.1fs\n", report.Duration().Seconds())
	}
}

func stateMarker(state pipeline.TaskState) string {
	switch state {
	case pipeline.TaskSuccess:
		return "✅"
	case pipeline.TaskFailed:
		return "❌"
	case pipeline.TaskSkipped:
		return "⏭️"
	default:
		return "•"
	}
}
