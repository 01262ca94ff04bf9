package services

import (
	"context"
	"strings"

	"jobportal/resume-screener/internal/logger"
	"jobportal/resume-screener/internal/models"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
	snippetLength      = 300
)

// ResumeSearcher finds indexed resumes similar to free text, such as a job
// description.
type ResumeSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error)
}

type resumeSearcher struct {
	embedder Embedder
	qdrant   QdrantService
}

func NewResumeSearcher(embedder Embedder, qdrant QdrantService) ResumeSearcher {
	return &resumeSearcher{embedder: embedder, qdrant: qdrant}
}

// searchDocTypes covers uploaded resumes and those ingested from disk.
var searchDocTypes = []string{DocTypeResume, DocTypeResumeFile}

// Search implements ResumeSearcher. Results hold one hit per resume, carrying
// the score and text of its best matching chunk, ordered by score. A hit's
// DocType tells whether ResumeID is a stored resume id or a file name.
func (s *resumeSearcher) Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newPipelineError(KindInvalidInput, "Search query required", nil)
	}

	limit = clampSearchLimit(limit)

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, newPipelineError(KindUpstreamCallFailed, "AI service request failed", err)
	}

	// Several chunks of one resume can rank together, so over-fetch before
	// collapsing by resume.
	results, err := s.qdrant.SearchSimilar(ctx, embedding, searchDocTypes, limit*3)
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, res := range results {
		key := res.DocType + "/" + res.DocID
		if _, ok := seen[key]; ok || res.DocID == "" {
			continue
		}
		seen[key] = struct{}{}

		hits = append(hits, models.SearchHit{
			ResumeID: res.DocID,
			DocType:  res.DocType,
			Score:    res.Score,
			Snippet:  logger.TruncateForLog(res.Text, snippetLength),
		})
		if len(hits) == limit {
			break
		}
	}

	return hits, nil
}

func clampSearchLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultSearchLimit
	case limit > maxSearchLimit:
		return maxSearchLimit
	default:
		return limit
	}
}
