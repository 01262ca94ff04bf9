package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"jobportal/resume-screener/internal/logger"
	"jobportal/resume-screener/internal/models"
)

const defaultMaxLogLength = 200

// ResumePipeline runs the two request-scoped flows: parsing an uploaded resume
// and screening resume text against a job description. Each call is strictly
// sequential and shares no state with concurrent calls.
type ResumePipeline interface {
	Parse(ctx context.Context, data []byte, mediaType string) (*ParsedResume, error)
	Screen(ctx context.Context, resumeText, jobDescription string) (*models.ScreeningResult, error)
}

type ParsedResume struct {
	Document *ExtractedDocument
	Resume   *models.StructuredResume
}

type resumePipeline struct {
	pdfParser     PDFParserService
	generator     TextGenerator
	promptBuilder *PromptBuilder
	log           *zap.Logger
	maxLogLen     int
}

func NewResumePipeline(pdfParser PDFParserService, generator TextGenerator, log *zap.Logger) ResumePipeline {
	return &resumePipeline{
		pdfParser:     pdfParser,
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		log:           log,
		maxLogLen:     defaultMaxLogLength,
	}
}

// Parse implements ResumePipeline.
func (p *resumePipeline) Parse(ctx context.Context, data []byte, mediaType string) (*ParsedResume, error) {
	doc, err := p.pdfParser.Extract(data, mediaType)
	if err != nil {
		p.log.Info("resume rejected before AI call",
			zap.String("kind", string(ErrorKindOf(err))),
			zap.String("media_type", mediaType),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return nil, err
	}

	p.log.Debug("resume text extracted",
		zap.Int("source_bytes", doc.SourceBytes),
		zap.Int("characters", doc.CharCount),
		zap.Int("pages", doc.PageCount),
	)

	prompt := p.promptBuilder.BuildResumeParsePrompt(doc.Text)
	payload, err := p.generate(ctx, "parse", prompt, ParseParams)
	if err != nil {
		return nil, err
	}

	resume, err := ShapeResume(payload)
	if err != nil {
		return nil, err
	}

	return &ParsedResume{Document: doc, Resume: resume}, nil
}

// Screen implements ResumePipeline.
func (p *resumePipeline) Screen(ctx context.Context, resumeText, jobDescription string) (*models.ScreeningResult, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, newPipelineError(KindInvalidInput, "Resume text and job description required", nil)
	}

	prompt := p.promptBuilder.BuildResumeScreeningPrompt(resumeText, jobDescription)
	payload, err := p.generate(ctx, "screen", prompt, ScreenParams)
	if err != nil {
		return nil, err
	}

	return ShapeScreening(payload)
}

// generate sends one prompt and recovers the JSON object from the answer.
func (p *resumePipeline) generate(ctx context.Context, variant, prompt string, params GenerationParams) ([]byte, error) {
	p.log.Debug("gemini generate content request",
		zap.String("variant", variant),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateText(ctx, prompt, params)
	if err != nil {
		return nil, err
	}

	p.log.Debug("gemini generate content response",
		zap.String("variant", variant),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	payload, err := RecoverJSON(raw)
	if err != nil {
		var fields []zap.Field
		fields = append(fields, zap.String("variant", variant), zap.String("raw_response", raw))
		var ue *UnparseableResponseError
		if errors.As(err, &ue) {
			fields = append(fields, zap.NamedError("first_error", ue.FirstErr), zap.NamedError("second_error", ue.SecondErr))
		}
		p.log.Error("failed to parse AI response as JSON", fields...)
		return nil, err
	}

	return payload, nil
}
