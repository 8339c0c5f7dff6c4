package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/lk2023060901/binpack-go/cmd/binpack/commands"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// UnpackRecords 的缺省并发数取 GOMAXPROCS，需要先按容器 CPU 配额修正。
	undo, _ := maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	defer undo()

	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		commands.PrintErr("Error: %v", err)
		undo()
		os.Exit(1)
	}
}
