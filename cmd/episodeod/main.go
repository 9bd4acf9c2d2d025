// Package main provides the entry point for the Episodeo sync daemon.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/di"
	"github.com/episodeo/episodeo-server/internal/logger"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap daemon: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down daemon gracefully...")

	// The DI container shuts services down in reverse dependency order.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
