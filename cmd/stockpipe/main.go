package main

import (
	"os"

	"github.com/catherineraj6/lab1-226/cmd/stockpipe/commands"
)

// main is the entry point for the stockpipe CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/stockpipe [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
