// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/driftline/cmd"
)

// main is the entry point for the driftline CLI.
func main() {
	// Long-running commands (the worker pool in particular) stop cleanly on
	// SIGINT/SIGTERM through this context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
