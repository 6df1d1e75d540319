package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aulaforge/aulaforge-api/internal/service"
	"github.com/aulaforge/aulaforge-api/internal/utils"
)

// SummaryHandler serves aggregated grading progress per student.
type SummaryHandler struct {
	service service.SummaryService
	logger  zerolog.Logger
}

// NewSummaryHandler builds a summary handler instance.
func NewSummaryHandler(service service.SummaryService, logger zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		service: service,
		logger:  logger.With().Str("component", "summary_handler").Logger(),
	}
}

// Register attaches the routes to the students router group.
func (h *SummaryHandler) Register(router fiber.Router) {
	router.Get("/:id/summary", h.studentSummary)
}

func (h *SummaryHandler) studentSummary(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.GetStudentSummary(c.UserContext(), id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build student summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "student summary retrieved", summary)
}
