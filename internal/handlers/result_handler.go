package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/models"
	"jobportal/resume-screener/internal/repositories"
)

// ResultHandler serves stored resumes and screenings.
type ResultHandler struct {
	resumeRepo    repositories.ResumeRepository
	screeningRepo repositories.ScreeningRepository
	log           *zap.Logger
}

func NewResultHandler(
	resumeRepo repositories.ResumeRepository,
	screeningRepo repositories.ScreeningRepository,
	log *zap.Logger,
) *ResultHandler {
	return &ResultHandler{
		resumeRepo:    resumeRepo,
		screeningRepo: screeningRepo,
		log:           log,
	}
}

// HandleGetResume handles GET /resumes/:id
func (h *ResultHandler) HandleGetResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid resume ID format")
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Resume not found")
		}
		h.log.Error("failed to load resume", zap.Stringer("resume_id", id), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to load resume")
	}

	resp := models.ResumeResponse{
		Success:          true,
		ID:               resume.ID.String(),
		OriginalFileName: resume.OriginalFileName,
		PageCount:        resume.PageCount,
		ExtractedText:    resume.ExtractedText,
		IndexStatus:      string(resume.IndexStatus),
		IndexError:       resume.IndexError,
		CreatedAt:        resume.CreatedAt,
	}

	if resume.StructuredData != "" {
		var structured models.StructuredResume
		if err := json.Unmarshal([]byte(resume.StructuredData), &structured); err != nil {
			h.log.Warn("stored structured resume is invalid", zap.Stringer("resume_id", id), zap.Error(err))
		} else {
			resp.StructuredResume = &structured
		}
	}

	return c.JSON(resp)
}

// HandleGetScreening handles GET /screenings/:id
func (h *ResultHandler) HandleGetScreening(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid screening ID format")
	}

	screening, err := h.screeningRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Screening not found")
		}
		h.log.Error("failed to load screening", zap.Stringer("screening_id", id), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to load screening")
	}

	resp := models.ScreeningResponse{
		Success:        true,
		ID:             screening.ID.String(),
		JobDescription: screening.JobDescription,
		CreatedAt:      screening.CreatedAt,
	}
	if screening.ResumeID != nil {
		resp.ResumeID = screening.ResumeID.String()
	}

	var result models.ScreeningResult
	if err := json.Unmarshal([]byte(screening.ResultData), &result); err != nil {
		h.log.Warn("stored screening result is invalid", zap.Stringer("screening_id", id), zap.Error(err))
	} else {
		resp.Result = &result
	}

	return c.JSON(resp)
}
