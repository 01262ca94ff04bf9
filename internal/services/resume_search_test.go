package services

import (
	"context"
	"errors"
	"testing"
)

func TestSearchCollapsesChunksPerResume(t *testing.T) {
	t.Parallel()

	qdrant := &stubQdrant{results: []SearchResult{
		{DocID: "a", DocType: DocTypeResume, Score: 0.91, Text: "Go, Postgres"},
		{DocID: "a", DocType: DocTypeResume, Score: 0.85, Text: "Kubernetes"},
		{DocID: "b", DocType: DocTypeResume, Score: 0.80, Text: "Python"},
		{DocID: "", DocType: DocTypeResume, Score: 0.70, Text: "orphan"},
		{DocID: "c", DocType: DocTypeResume, Score: 0.60, Text: "Rust"},
	}}

	hits, err := NewResumeSearcher(&stubEmbedder{}, qdrant).Search(context.Background(), "backend engineer", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %+v", hits)
	}
	if hits[0].ResumeID != "a" || hits[0].Score != 0.91 || hits[0].Snippet != "Go, Postgres" {
		t.Fatalf("unexpected first hit %+v", hits[0])
	}
	if hits[1].ResumeID != "b" {
		t.Fatalf("unexpected second hit %+v", hits[1])
	}
}

func TestSearchKeepsFileAndStoredResumesApart(t *testing.T) {
	t.Parallel()

	qdrant := &stubQdrant{results: []SearchResult{
		{DocID: "alice.pdf", DocType: DocTypeResumeFile, Score: 0.95, Text: "Go"},
		{DocID: "alice.pdf", DocType: DocTypeResume, Score: 0.90, Text: "Go"},
		{DocID: "alice.pdf", DocType: DocTypeResumeFile, Score: 0.50, Text: "Rust"},
	}}

	hits, err := NewResumeSearcher(&stubEmbedder{}, qdrant).Search(context.Background(), "go", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(qdrant.searchTypes) != 2 || qdrant.searchTypes[0] != DocTypeResume || qdrant.searchTypes[1] != DocTypeResumeFile {
		t.Fatalf("expected both doc types to be searched, got %v", qdrant.searchTypes)
	}
	if len(hits) != 2 {
		t.Fatalf("expected one hit per doc type, got %+v", hits)
	}
	if hits[0].DocType != DocTypeResumeFile || hits[1].DocType != DocTypeResume {
		t.Fatalf("expected hits to carry their doc type, got %+v", hits)
	}
}

func TestSearchValidation(t *testing.T) {
	t.Parallel()

	embedder := &stubEmbedder{}
	_, err := NewResumeSearcher(embedder, &stubQdrant{}).Search(context.Background(), "   ", 5)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if embedder.calls != 0 {
		t.Fatalf("expected no embedding call")
	}
}

func TestSearchEmbeddingFailure(t *testing.T) {
	t.Parallel()

	embedder := &stubEmbedder{err: errors.New("boom")}
	_, err := NewResumeSearcher(embedder, &stubQdrant{}).Search(context.Background(), "go", 5)
	if !errors.Is(err, ErrUpstreamCallFailed) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
}

func TestClampSearchLimit(t *testing.T) {
	t.Parallel()

	cases := map[int]int{-1: defaultSearchLimit, 0: defaultSearchLimit, 7: 7, 500: maxSearchLimit}
	for in, want := range cases {
		if got := clampSearchLimit(in); got != want {
			t.Fatalf("clampSearchLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
