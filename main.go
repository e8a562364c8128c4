package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amafra/tonecapture/cmd"
	"github.com/amafra/tonecapture/internal/buildinfo"
	"github.com/amafra/tonecapture/internal/runtime"
)

// Set with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := &runtime.Context{}
	defer func() {
		if err := rc.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing: %v\n", err)
		}
	}()

	if err := cmd.RootCommand(rc, buildinfo.NewContext(version, buildDate)).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
