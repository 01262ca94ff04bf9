package handlers

import (
	"encoding/json"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/models"
	"jobportal/resume-screener/internal/repositories"
	"jobportal/resume-screener/internal/services"
)

// ResumeQueue receives stored resumes for background indexing.
type ResumeQueue interface {
	EnqueueResume(resumeID uuid.UUID) bool
}

type UploadHandler struct {
	pipeline       services.ResumePipeline
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	queue          ResumeQueue
	maxFileSize    int64
	log            *zap.Logger
}

func NewUploadHandler(
	pipeline services.ResumePipeline,
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	queue ResumeQueue,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		pipeline:       pipeline,
		resumeRepo:     resumeRepo,
		storageService: storageService,
		queue:          queue,
		maxFileSize:    maxFileSize,
		log:            log,
	}
}

// HandleUpload handles POST /resume/upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgNoFile)
	}

	src, err := file.Open()
	if err != nil {
		h.log.Warn("failed to open uploaded file", zap.String("filename", file.Filename), zap.Error(err))
		return fail(c, fiber.StatusBadRequest, msgParseFailed)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.log.Warn("failed to read uploaded file", zap.String("filename", file.Filename), zap.Error(err))
		return fail(c, fiber.StatusBadRequest, msgParseFailed)
	}

	parsed, err := h.pipeline.Parse(c.UserContext(), data, file.Header.Get(fiber.HeaderContentType))
	if err != nil {
		if msg, ok := extractionMessage(err, h.maxFileSize); ok {
			return fail(c, fiber.StatusBadRequest, msg)
		}
		h.log.Error("resume parse failed", zap.String("filename", file.Filename), zap.Error(err))
		return fail(c, statusFor(err), msgParseWithAIPrefix+aiReason(err))
	}

	resp := models.UploadResponse{
		Success:          true,
		ExtractedText:    parsed.Document.Text,
		StructuredResume: parsed.Resume,
	}

	if id, ok := h.store(file.Filename, data, parsed); ok {
		resp.ResumeID = id.String()
	}

	return c.JSON(resp)
}

// store archives the upload and records the parsed resume. Failures are
// logged only; the caller already has its result.
func (h *UploadHandler) store(filename string, data []byte, parsed *services.ParsedResume) (uuid.UUID, bool) {
	if h.resumeRepo == nil {
		return uuid.Nil, false
	}

	structured, err := json.Marshal(parsed.Resume)
	if err != nil {
		h.log.Error("failed to encode structured resume", zap.Error(err))
		return uuid.Nil, false
	}

	var filePath string
	if h.storageService != nil {
		filePath, err = h.storageService.SaveBytes(data)
		if err != nil {
			h.log.Warn("failed to archive upload", zap.String("filename", filename), zap.Error(err))
		}
	}

	resume := &models.Resume{
		ID:               uuid.New(),
		OriginalFileName: filename,
		FilePath:         filePath,
		SizeBytes:        int64(len(data)),
		PageCount:        parsed.Document.PageCount,
		ExtractedText:    parsed.Document.Text,
		StructuredData:   string(structured),
		IndexStatus:      models.IndexPending,
	}

	if err := h.resumeRepo.Create(resume); err != nil {
		h.log.Error("failed to store resume", zap.String("filename", filename), zap.Error(err))
		if filePath != "" {
			if err := h.storageService.DeleteFile(filePath); err != nil {
				h.log.Warn("failed to remove orphaned upload", zap.String("path", filePath), zap.Error(err))
			}
		}
		return uuid.Nil, false
	}

	h.log.Info("resume stored",
		zap.Stringer("resume_id", resume.ID),
		zap.String("filename", filename),
		zap.Int("pages", resume.PageCount),
	)

	if h.queue != nil {
		h.queue.EnqueueResume(resume.ID)
	}

	return resume.ID, true
}
