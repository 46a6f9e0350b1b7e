// Package main provides the entry point for the dropsort daemon.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/dropsort/dropsort/internal/di"
	"github.com/dropsort/dropsort/internal/logger"
)

func main() {
	injector := di.NewContainer()

	// Bootstrap everything: config, logger, rules, journal, category
	// directories, watcher. Any failure here means the daemon cannot
	// operate correctly, so exit non-zero.
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start dropsort: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	// Block until an interrupt arrives. The watcher and its pump run on
	// their own goroutines; this goroutine only waits.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down dropsort gracefully...")

	// Shutdown all services in reverse order: the watcher pump stops before
	// the journal closes. Handles implementing do.Shutdownable are closed
	// automatically.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("dropsort stopped")
}
