package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/models"
	"jobportal/resume-screener/internal/services"
)

type SearchHandler struct {
	searcher services.ResumeSearcher
	log      *zap.Logger
}

func NewSearchHandler(searcher services.ResumeSearcher, log *zap.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, log: log}
}

// HandleSearch handles POST /resumes/search
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req models.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	hits, err := h.searcher.Search(c.UserContext(), req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return fail(c, fiber.StatusBadRequest, aiReason(err))
		}
		h.log.Error("resume search failed", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Error searching resumes: "+aiReason(err))
	}

	return c.JSON(models.SearchResponse{
		Success: true,
		Results: hits,
	})
}
