package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/models"
	"jobportal/resume-screener/internal/repositories"
	"jobportal/resume-screener/internal/services"
)

type ScreenHandler struct {
	pipeline      services.ResumePipeline
	resumeRepo    repositories.ResumeRepository
	screeningRepo repositories.ScreeningRepository
	log           *zap.Logger
}

func NewScreenHandler(
	pipeline services.ResumePipeline,
	resumeRepo repositories.ResumeRepository,
	screeningRepo repositories.ScreeningRepository,
	log *zap.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		pipeline:      pipeline,
		resumeRepo:    resumeRepo,
		screeningRepo: screeningRepo,
		log:           log,
	}
}

// HandleScreen handles POST /resume/screen
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	var req models.ScreenRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	var resumeID *uuid.UUID
	if req.ResumeID != "" {
		id, err := uuid.Parse(req.ResumeID)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid resumeId format")
		}
		resumeID = &id
	}

	// A given resumeId must exist even when resumeText is sent alongside it,
	// so screenings never link to a missing resume.
	resumeText := req.ResumeText
	if resumeID != nil && h.resumeRepo != nil {
		resume, err := h.resumeRepo.FindByID(*resumeID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fail(c, fiber.StatusNotFound, "Resume not found")
			}
			h.log.Error("failed to load resume for screening", zap.Stringer("resume_id", *resumeID), zap.Error(err))
			return fail(c, fiber.StatusInternalServerError, "Failed to load resume")
		}
		if strings.TrimSpace(resumeText) == "" {
			resumeText = resume.ExtractedText
		}
	}

	result, err := h.pipeline.Screen(c.UserContext(), resumeText, req.JobDescription)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return fail(c, fiber.StatusBadRequest, aiReason(err))
		}
		h.log.Error("resume screening failed", zap.Error(err))
		return fail(c, statusFor(err), msgScreenWithAIPrefix+aiReason(err))
	}

	resp := models.ScreenResponse{
		Success:         true,
		ScreeningResult: *result,
	}

	if id, ok := h.store(resumeID, req.JobDescription, result); ok {
		resp.ScreeningID = id.String()
	}

	return c.JSON(resp)
}

// store records the screening. Failures are logged only.
func (h *ScreenHandler) store(resumeID *uuid.UUID, jobDescription string, result *models.ScreeningResult) (uuid.UUID, bool) {
	if h.screeningRepo == nil {
		return uuid.Nil, false
	}

	data, err := json.Marshal(result)
	if err != nil {
		h.log.Error("failed to encode screening result", zap.Error(err))
		return uuid.Nil, false
	}

	screening := &models.Screening{
		ID:             uuid.New(),
		ResumeID:       resumeID,
		JobDescription: jobDescription,
		MatchScore:     result.MatchScore,
		ResultData:     string(data),
	}

	if err := h.screeningRepo.Create(screening); err != nil {
		h.log.Error("failed to store screening", zap.Error(err))
		return uuid.Nil, false
	}

	return screening.ID, true
}
