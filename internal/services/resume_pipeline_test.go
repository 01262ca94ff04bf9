package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
	lastParams GenerationParams
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string, params GenerationParams) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastParams = params
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubParser struct {
	doc *ExtractedDocument
	err error
}

func (s *stubParser) Extract([]byte, string) (*ExtractedDocument, error) {
	return s.doc, s.err
}

func (s *stubParser) ExtractFile(string) (*ExtractedDocument, error) {
	return s.doc, s.err
}

var resumeText = strings.Repeat("Jane Roe, backend engineer, Go and Postgres. ", 5)

func TestPipelineParse(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: "```json\n{\"full_name\": \"Jane Roe\", \"skills\": {\"technical\": [\"Go\"]}}\n```"}
	parser := &stubParser{doc: &ExtractedDocument{Text: resumeText, CharCount: len(resumeText)}}
	pipeline := NewResumePipeline(parser, gen, zap.NewNop())

	parsed, err := pipeline.Parse(context.Background(), []byte("%PDF"), "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Document.Text != resumeText {
		t.Fatalf("expected extracted text to be returned")
	}
	if parsed.Resume.FullName != "Jane Roe" || parsed.Resume.Skills.Technical[0] != "Go" {
		t.Fatalf("unexpected resume %+v", parsed.Resume)
	}
	if parsed.Resume.WorkExperience == nil {
		t.Fatalf("expected parse path to apply defaults")
	}
	if !strings.Contains(gen.lastPrompt, resumeText) {
		t.Fatalf("expected resume text in prompt")
	}
	if gen.lastParams != ParseParams {
		t.Fatalf("expected parse generation params, got %+v", gen.lastParams)
	}
}

func TestPipelineParseRejectsWithoutAICall(t *testing.T) {
	t.Parallel()

	for _, want := range []error{ErrUnsupportedMediaType, ErrPayloadTooLarge, ErrInsufficientContent, ErrExtractionFailed} {
		gen := &stubGenerator{response: `{}`}
		parser := &stubParser{err: newPipelineError(want.(*PipelineError).Kind, "rejected", nil)}
		pipeline := NewResumePipeline(parser, gen, zap.NewNop())

		_, err := pipeline.Parse(context.Background(), []byte("x"), "application/pdf")
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if gen.calls != 0 {
			t.Fatalf("expected no AI call for %v, got %d", want, gen.calls)
		}
	}
}

func TestPipelineParseWithRealExtractor(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: `{}`}
	parser := &pdfParserService{
		maxFileSize:   5 * 1024 * 1024,
		minTextLength: 100,
		readText: func([]byte) (string, int, error) {
			return "Jane Roe", 1, nil
		},
	}
	pipeline := NewResumePipeline(parser, gen, zap.NewNop())

	_, err := pipeline.Parse(context.Background(), []byte("%PDF"), "application/pdf")
	if !errors.Is(err, ErrInsufficientContent) {
		t.Fatalf("expected insufficient content, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no AI call")
	}
}

func TestPipelineScreen(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: "```json\n{ \"match_score\": 72, \"gaps\": [\"Kubernetes\"], \"summary\": \"Good fit\" }\n```"}
	pipeline := NewResumePipeline(&stubParser{}, gen, zap.NewNop())

	result, err := pipeline.Screen(context.Background(), "Go developer", "Backend role")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MatchScore != 72 {
		t.Fatalf("expected fenced match_score to survive, got %v", result.MatchScore)
	}
	if len(result.Weaknesses) != 1 || result.Summary != "Good fit" {
		t.Fatalf("unexpected result %+v", result)
	}
	if gen.lastParams != ScreenParams {
		t.Fatalf("expected screening params, got %+v", gen.lastParams)
	}
	if !strings.Contains(gen.lastPrompt, "JOB DESCRIPTION:\nBackend role") {
		t.Fatalf("expected job description in prompt")
	}
}

func TestPipelineScreenRequiresInputs(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: `{}`}
	pipeline := NewResumePipeline(&stubParser{}, gen, zap.NewNop())

	for _, in := range [][2]string{{"", "job"}, {"resume", ""}, {"  ", "job"}} {
		_, err := pipeline.Screen(context.Background(), in[0], in[1])
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", in, err)
		}
		var pe *PipelineError
		if !errors.As(err, &pe) || pe.Message != "Resume text and job description required" {
			t.Fatalf("unexpected error message: %v", err)
		}
	}
	if gen.calls != 0 {
		t.Fatalf("expected no AI call")
	}
}

func TestPipelinePropagatesAIErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		gen  *stubGenerator
		want error
	}{
		{
			name: "upstream",
			gen:  &stubGenerator{err: newPipelineError(KindUpstreamCallFailed, "AI service request failed", errors.New("dial tcp"))},
			want: ErrUpstreamCallFailed,
		},
		{
			name: "empty",
			gen:  &stubGenerator{err: newPipelineError(KindEmptyAIResponse, "Empty response from Gemini API", nil)},
			want: ErrEmptyAIResponse,
		},
		{
			name: "unparseable",
			gen:  &stubGenerator{response: "Sorry, I cannot help with that."},
			want: ErrUnparseableResponse,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pipeline := NewResumePipeline(&stubParser{}, tc.gen, zap.NewNop())
			result, err := pipeline.Screen(context.Background(), "resume", "job")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if result != nil {
				t.Fatalf("expected no partial result")
			}
			if tc.gen.calls != 1 {
				t.Fatalf("expected exactly one AI call, got %d", tc.gen.calls)
			}
		})
	}
}
