// Scantext indexes the text inside scanned images and answers semantic
// queries against them from the command line, a TUI, or an MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferrule-labs/scantext/internal/adapters/driving/cli"
)

// version is set via ldflags during release builds.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
