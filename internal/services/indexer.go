package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/models"
	"jobportal/resume-screener/internal/repositories"
)

const (
	indexChunkSize    = 1000
	indexChunkOverlap = 200
)

// ResumeIndexer embeds a stored resume into the vector collection.
type ResumeIndexer interface {
	IndexResume(ctx context.Context, resumeID uuid.UUID) error
}

type resumeIndexer struct {
	resumeRepo repositories.ResumeRepository
	embedder   Embedder
	qdrant     QdrantService
	chunker    TextChunker
	log        *zap.Logger
}

func NewResumeIndexer(
	resumeRepo repositories.ResumeRepository,
	embedder Embedder,
	qdrant QdrantService,
	chunker TextChunker,
	log *zap.Logger,
) ResumeIndexer {
	return &resumeIndexer{
		resumeRepo: resumeRepo,
		embedder:   embedder,
		qdrant:     qdrant,
		chunker:    chunker,
		log:        log,
	}
}

// IndexResume implements ResumeIndexer. A resume that is not pending is
// skipped so the same id may be enqueued more than once.
func (r *resumeIndexer) IndexResume(ctx context.Context, resumeID uuid.UUID) error {
	claimed, err := r.resumeRepo.ClaimForIndexing(resumeID)
	if err != nil {
		return err
	}
	if !claimed {
		r.log.Debug("resume not pending, skipping", zap.Stringer("resume_id", resumeID))
		return nil
	}

	resume, err := r.resumeRepo.FindByID(resumeID)
	if err != nil {
		return r.fail(resumeID, err)
	}

	chunks, err := r.indexText(ctx, resume)
	if err != nil {
		return r.fail(resumeID, err)
	}

	if err := r.resumeRepo.MarkIndexed(resumeID); err != nil {
		return r.fail(resumeID, err)
	}

	r.log.Info("resume indexed",
		zap.Stringer("resume_id", resumeID),
		zap.Int("chunks", chunks),
	)
	return nil
}

func (r *resumeIndexer) indexText(ctx context.Context, resume *models.Resume) (int, error) {
	docID := resume.ID.String()

	// Replace any chunks left by an earlier attempt.
	if err := r.qdrant.DeleteDocument(ctx, DocTypeResume, docID); err != nil {
		return 0, err
	}

	chunks := r.chunker.ChunkText(resume.ExtractedText, indexChunkSize, indexChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("resume %s has no text to index", docID)
	}

	for i, chunk := range chunks {
		embedding, err := r.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("chunk %d: %w", i, err)
		}

		if err := r.qdrant.UpsertChunk(ctx, docID, DocTypeResume, chunk, embedding); err != nil {
			return 0, fmt.Errorf("chunk %d: %w", i, err)
		}
	}

	return len(chunks), nil
}

func (r *resumeIndexer) fail(resumeID uuid.UUID, cause error) error {
	r.log.Error("resume indexing failed", zap.Stringer("resume_id", resumeID), zap.Error(cause))

	if err := r.resumeRepo.MarkIndexFailed(resumeID, cause.Error()); err != nil {
		r.log.Error("failed to record indexing error", zap.Stringer("resume_id", resumeID), zap.Error(err))
	}

	return cause
}
