package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/services"
	"github.com/condoflow/backend/pkg/utils"
)

type TemplateHandler struct {
	templateService services.TemplateService
	validator       *validator.Validate
}

func NewTemplateHandler(templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		validator:       validator.New(),
	}
}

// GET /api/v1/admin/templates
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.templateService.List(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list templates")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Templates retrieved successfully", templates)
}

// GET /api/v1/admin/templates/:slug
func (h *TemplateHandler) GetBySlug(c *fiber.Ctx) error {
	tpl, err := h.templateService.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get template")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Template retrieved successfully", tpl)
}

// PUT /api/v1/admin/templates/:slug
func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	var req models.TemplateUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	tpl, err := h.templateService.Update(c.Context(), c.Params("slug"), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update template")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Template updated successfully", tpl)
}

// POST /api/v1/admin/templates/:slug/reset
func (h *TemplateHandler) ResetToDefault(c *fiber.Ctx) error {
	tpl, err := h.templateService.ResetToDefault(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reset template")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Template reset to default", tpl)
}

// POST /api/v1/admin/templates/preview
func (h *TemplateHandler) Preview(c *fiber.Ctx) error {
	var req models.TemplatePreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	rendered := h.templateService.Preview(req.Content, req.Variables)

	return utils.SuccessResponse(c, fiber.StatusOK, "Preview rendered", fiber.Map{
		"rendered": rendered,
	})
}
