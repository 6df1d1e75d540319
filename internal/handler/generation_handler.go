package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/service"
	"github.com/aulaforge/aulaforge-api/internal/utils"
	"github.com/aulaforge/aulaforge-api/pkg/ai"
)

// GenerationHandler manages the AI content-generation endpoints.
type GenerationHandler struct {
	service service.GenerationService
	logger  zerolog.Logger
}

// NewGenerationHandler builds a generation handler instance.
func NewGenerationHandler(service service.GenerationService, logger zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger.With().Str("component", "generation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GenerationHandler) Register(router fiber.Router) {
	router.Post("/project", h.generateProject)
	router.Post("/metadata", h.extractMetadata)
}

func (h *GenerationHandler) generateProject(c *fiber.Ctx) error {
	var payload dto.GenerateProjectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.GenerateProject(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "project structure generated", response)
}

func (h *GenerationHandler) extractMetadata(c *fiber.Ctx) error {
	var payload dto.ExtractMetadataRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.ExtractMetadata(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "metadata extracted", response)
}

func (h *GenerationHandler) handleError(c *fiber.Ctx, err error) error {
	var (
		validationErrors validator.ValidationErrors
		chainErr         *ai.ChainError
		callErr          *ai.CallError
		formatErr        *ai.FormatError
	)
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, ai.ErrMissingAPIKey):
		return utils.SendError(c, fiber.StatusBadGateway, "generation provider not configured")
	case errors.As(err, &chainErr), errors.As(err, &callErr), errors.As(err, &formatErr):
		requestLogger(h.logger, c).Warn().Err(err).Msg("generation failed")
		return utils.SendError(c, fiber.StatusBadGateway, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
