package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/prodbyeagle/eagle/internal/platform"
	"github.com/prodbyeagle/eagle/internal/ui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(Version, platform.NewDetector(), os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		ui.NewPrinter(os.Stdout, os.Stderr).Error("Error: %v", err)
		stop()
		os.Exit(1)
	}
}
