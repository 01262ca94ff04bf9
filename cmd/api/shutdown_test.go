package main

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"
)

type orderRecorder struct {
	mu    sync.Mutex
	steps []string
}

func (o *orderRecorder) add(step string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, step)
}

type slowWorker struct {
	rec *orderRecorder
}

func (w slowWorker) Stop() {
	time.Sleep(20 * time.Millisecond)
	w.rec.add("worker")
}

func TestAwaitShutdownStopsWorkerBeforeServer(t *testing.T) {
	rec := &orderRecorder{}
	quit := make(chan os.Signal, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := awaitShutdown(quit, slowWorker{rec: rec}, func() error {
		rec.add("server")
		return nil
	}, cancel, zap.NewNop())

	select {
	case <-done:
		t.Fatalf("done closed before any signal")
	case <-time.After(10 * time.Millisecond):
	}

	quit <- syscall.SIGTERM

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("shutdown did not finish")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.steps) != 2 || rec.steps[0] != "worker" || rec.steps[1] != "server" {
		t.Fatalf("unexpected shutdown order %v", rec.steps)
	}
	if ctx.Err() == nil {
		t.Fatalf("expected context to be cancelled after shutdown")
	}
}
