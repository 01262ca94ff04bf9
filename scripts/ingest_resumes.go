package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/config"
	"jobportal/resume-screener/internal/logger"
	"jobportal/resume-screener/internal/services"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

var rootCmd = &cobra.Command{
	Use:   "ingest-resumes",
	Short: "Extract, embed and index a folder of PDF resumes into the vector store",
	RunE:  run,
}

func init() {
	rootCmd.Flags().String("dir", "", "folder containing PDF resumes")
	rootCmd.Flags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.Flags().BoolP("json", "j", false, "json format for logging")

	_ = rootCmd.MarkFlagRequired("dir")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	debug, _ := cmd.Flags().GetBool("debug")
	jsonLogs, _ := cmd.Flags().GetBool("json")

	log, err := logger.New(jsonLogs, debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, log)
	if err != nil {
		return fmt.Errorf("initializing gemini: %w", err)
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant, log)
	if err != nil {
		return fmt.Errorf("initializing qdrant: %w", err)
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		return fmt.Errorf("initializing collection: %w", err)
	}

	ing := &ingester{
		parser:   services.NewPDFParserService(cfg.Resume.MaxFileSize, cfg.Resume.MinTextLength),
		chunker:  services.NewTextChunker(),
		embedder: geminiService,
		store:    qdrantService,
		log:      log,
	}

	summary, err := ing.ingestDir(ctx, dir)
	if err != nil {
		return err
	}

	log.Info("ingestion finished",
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("failed", len(summary.Failed)),
	)
	for name, reason := range summary.Failed {
		log.Warn("resume not ingested", zap.String("file", name), zap.String("reason", reason))
	}

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d resumes failed to ingest", len(summary.Failed), len(summary.Failed)+len(summary.Succeeded))
	}
	return nil
}

// chunkStore is the part of the vector store the ingester writes to.
type chunkStore interface {
	UpsertChunk(ctx context.Context, docID, docType, text string, embedding []float32) error
	DeleteDocument(ctx context.Context, docType string, docID string) error
}

type ingester struct {
	parser   services.PDFParserService
	chunker  services.TextChunker
	embedder services.Embedder
	store    chunkStore
	log      *zap.Logger
}

type ingestSummary struct {
	Succeeded []string
	Failed    map[string]string
}

// ingestDir indexes every .pdf file directly inside dir. Each file is keyed
// by its base name, and chunks from an earlier run are replaced.
func (i *ingester) ingestDir(ctx context.Context, dir string) (*ingestSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	summary := &ingestSummary{Failed: make(map[string]string)}
	for _, name := range files {
		chunks, err := i.ingestFile(ctx, filepath.Join(dir, name), name)
		if err != nil {
			summary.Failed[name] = err.Error()
			continue
		}

		i.log.Info("resume ingested", zap.String("file", name), zap.Int("chunks", chunks))
		summary.Succeeded = append(summary.Succeeded, name)
	}

	return summary, nil
}

func (i *ingester) ingestFile(ctx context.Context, path, docID string) (int, error) {
	doc, err := i.parser.ExtractFile(path)
	if err != nil {
		return 0, err
	}

	i.log.Debug("text extracted",
		zap.String("file", docID),
		zap.Int("pages", doc.PageCount),
		zap.Int("characters", doc.CharCount),
	)

	if err := i.store.DeleteDocument(ctx, services.DocTypeResumeFile, docID); err != nil {
		return 0, err
	}

	chunks := i.chunker.ChunkText(doc.Text, chunkSize, chunkOverlap)
	for n, chunk := range chunks {
		embedding, err := i.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("embedding chunk %d: %w", n+1, err)
		}

		if err := i.store.UpsertChunk(ctx, docID, services.DocTypeResumeFile, chunk, embedding); err != nil {
			return 0, fmt.Errorf("storing chunk %d: %w", n+1, err)
		}
	}

	return len(chunks), nil
}
