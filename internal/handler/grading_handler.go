package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/observability"
	"github.com/aulaforge/aulaforge-api/internal/service"
	"github.com/aulaforge/aulaforge-api/internal/utils"
	"github.com/aulaforge/aulaforge-api/pkg/ai"
)

// GradingHandler manages the grading and grade-suggestion endpoints.
type GradingHandler struct {
	grading     service.GradingService
	suggestions service.GradeSuggestionService
	logger      zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(grading service.GradingService, suggestions service.GradeSuggestionService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		grading:     grading,
		suggestions: suggestions,
		logger:      logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the submissions router group. Extra
// middleware is applied to the suggestion route only, which lets the router
// rate limit provider-backed calls without throttling plain grading.
func (h *GradingHandler) Register(router fiber.Router, suggestionMiddleware ...fiber.Handler) {
	router.Post("/:id/grade", h.grade)

	handlers := append(append([]fiber.Handler{}, suggestionMiddleware...), h.suggest)
	router.Post("/:id/suggestions", handlers...)
}

func (h *GradingHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grader := service.Grader{ID: userIDFromContext(c)}
	submission, err := h.grading.Grade(c.UserContext(), id, payload, grader)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.GradingActions().WithLabelValues("grade").Inc()
	return utils.SendSuccess(c, "submission graded", submission)
}

func (h *GradingHandler) suggest(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeSuggestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	suggestion, err := h.suggestions.Suggest(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade suggestion ready", suggestion)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	var (
		validationErrors validator.ValidationErrors
		timeoutErr       *ai.TimeoutError
		chainErr         *ai.ChainError
		callErr          *ai.CallError
		formatErr        *ai.FormatError
	)
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrUnknownRubricItem),
		errors.Is(err, service.ErrQuizOverrideRequired),
		errors.Is(err, service.ErrOverrideExceedsMax),
		errors.Is(err, service.ErrNoRubricItems):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.As(err, &timeoutErr):
		observability.SuggestionTimeouts().Inc()
		return utils.SendError(c, fiber.StatusGatewayTimeout, err.Error())
	case errors.Is(err, ai.ErrMissingAPIKey):
		return utils.SendError(c, fiber.StatusBadGateway, "generation provider not configured")
	case errors.As(err, &chainErr), errors.As(err, &callErr), errors.As(err, &formatErr):
		requestLogger(h.logger, c).Warn().Err(err).Msg("grade suggestion failed")
		return utils.SendError(c, fiber.StatusBadGateway, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
