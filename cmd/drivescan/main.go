package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CaptainMirage/drivescan/internal/cli"
)

// version is set at build time via -ldflags.
//
//nolint:gochecknoglobals // Build metadata.
var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal cancels the scans in flight so the partial report can
	// still print; a second one terminates the process the usual way.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
		signal.Stop(sigCh)
	}()

	if err := cli.New(version).Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "drivescan: %v\n", err)
		os.Exit(1)
	}
}
