package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/config"
	"jobportal/resume-screener/internal/models"
)

const pendingBatchSize = 10

// PendingResumeFinder lists resumes still waiting to be indexed and returns
// abandoned indexing runs to the pending state.
type PendingResumeFinder interface {
	FindPendingIndex(limit int) ([]models.Resume, error)
	RequeueStaleIndexing(olderThan time.Duration) (int64, error)
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	// EnqueueResume never blocks. It reports false when the queue is full
	// or the worker has stopped; the poller picks such resumes up later.
	EnqueueResume(resumeID uuid.UUID) bool
}

type worker struct {
	pending      PendingResumeFinder
	indexer      ResumeIndexer
	log          *zap.Logger
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	staleAfter   time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	pending PendingResumeFinder,
	indexer ResumeIndexer,
	cfg config.WorkerConfig,
	log *zap.Logger,
) Worker {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}

	return &worker{
		pending:      pending,
		indexer:      indexer,
		log:          log,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		staleAfter:   staleAfter,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("starting indexing worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker. It waits for in-flight jobs to finish.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping indexing worker")
		close(w.stopChan)
	})
	w.wg.Wait()
}

// EnqueueResume implements Worker.
func (w *worker) EnqueueResume(resumeID uuid.UUID) bool {
	select {
	case <-w.stopChan:
		w.log.Warn("worker stopped, resume not enqueued", zap.Stringer("resume_id", resumeID))
		return false
	default:
	}

	select {
	case w.jobQueue <- resumeID:
		w.log.Debug("resume enqueued", zap.Stringer("resume_id", resumeID))
		return true
	default:
		w.log.Warn("indexing queue full, leaving resume for poller", zap.Stringer("resume_id", resumeID))
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case resumeID := <-w.jobQueue:
			log := w.log.With(zap.Int("worker", workerID), zap.Stringer("resume_id", resumeID))
			if err := w.indexer.IndexResume(ctx, resumeID); err != nil {
				log.Error("indexing job failed", zap.Error(err))
				continue
			}
			log.Debug("indexing job done")
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Runs left in the indexing state by a previous process are picked up
	// as soon as they go stale.
	w.requeueStale()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.requeueStale()

			pending, err := w.pending.FindPendingIndex(pendingBatchSize)
			if err != nil {
				w.log.Warn("failed to fetch pending resumes", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("found pending resumes", zap.Int("count", len(pending)))
			}

			for _, resume := range pending {
				w.EnqueueResume(resume.ID)
			}
		}
	}
}

func (w *worker) requeueStale() {
	n, err := w.pending.RequeueStaleIndexing(w.staleAfter)
	if err != nil {
		w.log.Warn("failed to requeue stale resumes", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("requeued stale resumes", zap.Int64("count", n), zap.Duration("stale_after", w.staleAfter))
	}
}
