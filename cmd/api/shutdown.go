package main

import (
	"context"
	"os"

	"go.uber.org/zap"
)

type stopper interface {
	Stop()
}

// awaitShutdown waits for a signal on quit, then stops the worker before the
// server so no indexing job is cut off. The returned channel is closed once
// both have stopped; main must not return before that.
func awaitShutdown(quit <-chan os.Signal, worker stopper, shutdownServer func() error, cancel context.CancelFunc, log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		<-quit

		log.Info("shutting down server")
		worker.Stop()
		if err := shutdownServer(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
		cancel()
	}()

	return done
}
