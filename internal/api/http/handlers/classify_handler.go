package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/service"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// ClassifyHandler exposes the advisory classification endpoint.
type ClassifyHandler struct {
	service *service.ClassificationService
}

// NewClassifyHandler constructs handler.
func NewClassifyHandler(classificationService *service.ClassificationService) *ClassifyHandler {
	return &ClassifyHandler{service: classificationService}
}

// Classify POST /tickets/classify/.
func (h *ClassifyHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	suggestion, err := h.service.Classify(c.Context(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(dto.ClassifyResponse{
		SuggestedCategory: suggestion.Category,
		SuggestedPriority: suggestion.Priority,
	})
}
