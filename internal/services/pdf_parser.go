package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// PDFParserService turns uploaded PDF bytes into plain text.
type PDFParserService interface {
	Extract(data []byte, mediaType string) (*ExtractedDocument, error)
	ExtractFile(filePath string) (*ExtractedDocument, error)
}

// ExtractedDocument is the per-request extraction result. It is never persisted
// by the parser itself.
type ExtractedDocument struct {
	Text        string
	SourceBytes int
	CharCount   int
	PageCount   int
}

type pdfParserService struct {
	maxFileSize   int64
	minTextLength int

	// readText is swapped in tests; production uses readPDFText.
	readText func(data []byte) (string, int, error)
}

func NewPDFParserService(maxFileSize int64, minTextLength int) PDFParserService {
	return &pdfParserService{
		maxFileSize:   maxFileSize,
		minTextLength: minTextLength,
		readText:      readPDFText,
	}
}

// Extract implements PDFParserService.
func (p *pdfParserService) Extract(data []byte, mediaType string) (*ExtractedDocument, error) {
	if !IsPDFMediaType(mediaType) {
		return nil, newPipelineError(KindUnsupportedMediaType, fmt.Sprintf("unsupported media type %q", mediaType), nil)
	}

	if int64(len(data)) > p.maxFileSize {
		return nil, newPipelineError(KindPayloadTooLarge,
			fmt.Sprintf("payload is %d bytes, limit is %d", len(data), p.maxFileSize), nil)
	}

	text, pages, err := p.readText(data)
	if err != nil {
		return nil, newPipelineError(KindExtractionFailed, "failed to read PDF", err)
	}

	text = strings.TrimSpace(text)
	chars := utf8.RuneCountInString(text)
	if chars < p.minTextLength {
		return nil, newPipelineError(KindInsufficientContent,
			fmt.Sprintf("extracted %d characters, need at least %d", chars, p.minTextLength), nil)
	}

	return &ExtractedDocument{
		Text:        text,
		SourceBytes: len(data),
		CharCount:   chars,
		PageCount:   pages,
	}, nil
}

// ExtractFile implements PDFParserService.
func (p *pdfParserService) ExtractFile(filePath string) (*ExtractedDocument, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return p.Extract(data, "application/pdf")
}

// IsPDFMediaType accepts any declared type mentioning pdf, e.g.
// "application/pdf" or "application/x-pdf".
func IsPDFMediaType(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "pdf")
}

func readPDFText(data []byte) (text string, pages int, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, pages, err = "", 0, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Keep whatever the other pages yield.
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), totalPage, nil
}
