package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/config"
	"jobportal/resume-screener/internal/models"
)

type recordingIndexer struct {
	mu   sync.Mutex
	ids  []uuid.UUID
	done chan uuid.UUID
}

func (r *recordingIndexer) IndexResume(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
	select {
	case r.done <- id:
	default:
	}
	return nil
}

func TestWorkerProcessesEnqueuedResume(t *testing.T) {
	t.Parallel()

	indexer := &recordingIndexer{done: make(chan uuid.UUID, 1)}
	w := NewWorker(newStubResumeRepo(), indexer, config.WorkerConfig{Concurrency: 1, QueueSize: 4, PollInterval: time.Hour}, zap.NewNop())

	w.Start(context.Background())
	defer w.Stop()

	id := uuid.New()
	if !w.EnqueueResume(id) {
		t.Fatalf("expected enqueue to succeed")
	}

	select {
	case got := <-indexer.done:
		if got != id {
			t.Fatalf("indexed %s, want %s", got, id)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("resume was not processed")
	}
}

func TestWorkerPollsPendingResumes(t *testing.T) {
	t.Parallel()

	pending := &models.Resume{ID: uuid.New(), IndexStatus: models.IndexPending}
	indexer := &recordingIndexer{done: make(chan uuid.UUID, 10)}
	w := NewWorker(newStubResumeRepo(pending), indexer, config.WorkerConfig{Concurrency: 1, QueueSize: 4, PollInterval: 10 * time.Millisecond}, zap.NewNop())

	w.Start(context.Background())
	defer w.Stop()

	select {
	case got := <-indexer.done:
		if got != pending.ID {
			t.Fatalf("indexed %s, want %s", got, pending.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("pending resume was not picked up by the poller")
	}
}

func TestWorkerEnqueueDoesNotBlock(t *testing.T) {
	t.Parallel()

	w := NewWorker(newStubResumeRepo(), &recordingIndexer{}, config.WorkerConfig{Concurrency: 1, QueueSize: 1, PollInterval: time.Hour}, zap.NewNop())

	if !w.EnqueueResume(uuid.New()) {
		t.Fatalf("expected first enqueue to fit the queue")
	}
	if w.EnqueueResume(uuid.New()) {
		t.Fatalf("expected enqueue on a full queue to be refused")
	}

	w.Stop()
	if w.EnqueueResume(uuid.New()) {
		t.Fatalf("expected enqueue after stop to be refused")
	}
}

func TestWorkerRequeuesStaleIndexing(t *testing.T) {
	t.Parallel()

	stale := &models.Resume{ID: uuid.New(), IndexStatus: models.IndexRunning, UpdatedAt: time.Now().Add(-time.Hour)}
	fresh := &models.Resume{ID: uuid.New(), IndexStatus: models.IndexRunning, UpdatedAt: time.Now()}
	repo := newStubResumeRepo(stale, fresh)
	indexer := &recordingIndexer{done: make(chan uuid.UUID, 10)}

	w := NewWorker(repo, indexer, config.WorkerConfig{
		Concurrency:  1,
		QueueSize:    4,
		PollInterval: 10 * time.Millisecond,
		StaleAfter:   time.Minute,
	}, zap.NewNop())

	w.Start(context.Background())
	defer w.Stop()

	select {
	case got := <-indexer.done:
		if got != stale.ID {
			t.Fatalf("indexed %s, want stale resume %s", got, stale.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stale resume was never handed out again")
	}

	if got := repo.status(fresh.ID); got != models.IndexRunning {
		t.Fatalf("expected in-flight resume to be left alone, got %s", got)
	}
}
