package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnsupportedMediaType ErrorKind = "unsupported_media_type"
	KindPayloadTooLarge      ErrorKind = "payload_too_large"
	KindExtractionFailed     ErrorKind = "extraction_failed"
	KindInsufficientContent  ErrorKind = "insufficient_content"
	KindInvalidInput         ErrorKind = "invalid_input"
	KindEmptyAIResponse      ErrorKind = "empty_ai_response"
	KindUnparseableResponse  ErrorKind = "unparseable_response"
	KindUpstreamCallFailed   ErrorKind = "upstream_call_failed"
)

// PipelineError is returned by every stage of the resume pipeline. Message is
// safe to show to end users; Err carries the underlying cause for logs.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches any PipelineError of the same kind, so callers can test against
// the sentinel values below with errors.Is.
func (e *PipelineError) Is(target error) bool {
	pe, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return pe.Kind == e.Kind
}

var (
	ErrUnsupportedMediaType = &PipelineError{Kind: KindUnsupportedMediaType, Message: "unsupported media type"}
	ErrPayloadTooLarge      = &PipelineError{Kind: KindPayloadTooLarge, Message: "payload too large"}
	ErrExtractionFailed     = &PipelineError{Kind: KindExtractionFailed, Message: "text extraction failed"}
	ErrInsufficientContent  = &PipelineError{Kind: KindInsufficientContent, Message: "insufficient text content"}
	ErrInvalidInput         = &PipelineError{Kind: KindInvalidInput, Message: "invalid input"}
	ErrEmptyAIResponse      = &PipelineError{Kind: KindEmptyAIResponse, Message: "empty response from AI"}
	ErrUnparseableResponse  = &PipelineError{Kind: KindUnparseableResponse, Message: "unparseable AI response"}
	ErrUpstreamCallFailed   = &PipelineError{Kind: KindUpstreamCallFailed, Message: "AI service request failed"}
)

func newPipelineError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// UnparseableResponseError is returned when neither the cleaned response nor
// its brace-trimmed form parse as a JSON object.
type UnparseableResponseError struct {
	Raw       string
	Attempts  int
	FirstErr  error
	SecondErr error
}

func (e *UnparseableResponseError) Error() string {
	return fmt.Sprintf("failed to parse AI response as JSON after %d attempts: %v; %v", e.Attempts, e.FirstErr, e.SecondErr)
}

func (e *UnparseableResponseError) Is(target error) bool {
	return target == ErrUnparseableResponse
}

func (e *UnparseableResponseError) Unwrap() []error {
	return []error{e.FirstErr, e.SecondErr}
}

// ErrorKindOf returns the kind of the first PipelineError in err's chain, or
// the empty kind when err did not originate in the pipeline.
func ErrorKindOf(err error) ErrorKind {
	var ue *UnparseableResponseError
	if errors.As(err, &ue) {
		return KindUnparseableResponse
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
