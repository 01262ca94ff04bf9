package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"jobportal/resume-screener/internal/models"
	"jobportal/resume-screener/internal/services"
)

const (
	msgNoFile             = "No file uploaded"
	msgInvalidFormat      = "Invalid file format. Please upload PDF files only."
	msgFileTooLarge       = "File too large. Maximum size is %dMB."
	msgParseFailed        = "Failed to parse PDF. Please check if the file is valid."
	msgInsufficientText   = "Could not extract sufficient text from PDF. The file may be scanned or protected."
	msgInvalidPayload     = "Invalid request payload"
	msgAIUnparseable      = "Failed to parse AI response as JSON"
	msgParseWithAIPrefix  = "Error parsing resume with AI: "
	msgScreenWithAIPrefix = "Error screening resume with AI: "
)

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Success: false,
		Message: message,
	})
}

// extractionMessage maps upload rejections to the message shown to users.
// It reports false for errors that did not come from the extractor.
func extractionMessage(err error, maxFileSize int64) (string, bool) {
	switch services.ErrorKindOf(err) {
	case services.KindUnsupportedMediaType:
		return msgInvalidFormat, true
	case services.KindPayloadTooLarge:
		return fmt.Sprintf(msgFileTooLarge, maxFileSize/(1024*1024)), true
	case services.KindExtractionFailed:
		return msgParseFailed, true
	case services.KindInsufficientContent:
		return msgInsufficientText, true
	}
	return "", false
}

// aiReason renders the cause of an AI-side failure for the response message.
func aiReason(err error) string {
	if errors.Is(err, services.ErrUnparseableResponse) {
		return msgAIUnparseable
	}

	var pe *services.PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}

	return err.Error()
}

// statusFor maps a pipeline error to an HTTP status. Rejections of the
// caller's input are 400, everything else is 500.
func statusFor(err error) int {
	switch services.ErrorKindOf(err) {
	case services.KindUnsupportedMediaType,
		services.KindPayloadTooLarge,
		services.KindExtractionFailed,
		services.KindInsufficientContent,
		services.KindInvalidInput:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
