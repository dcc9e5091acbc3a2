package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/condoflow/backend/internal/services"
	"github.com/condoflow/backend/pkg/utils"
)

type DispatchHandler struct {
	dispatcher services.DispatcherService
	validator  *validator.Validate
}

func NewDispatchHandler(dispatcher services.DispatcherService) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: dispatcher,
		validator:  validator.New(),
	}
}

type dispatchRequest struct {
	FunctionName string            `json:"function_name" validate:"required,max=100"`
	TemplateSlug string            `json:"template_slug" validate:"required,max=100"`
	Phone        string            `json:"phone" validate:"required,max=30"`
	Variables    map[string]string `json:"variables"`
	Language     string            `json:"language" validate:"omitempty,max=10"`
}

type mediaDispatchRequest struct {
	dispatchRequest
	ObjectName string `json:"object_name" validate:"required"`
	Caption    string `json:"caption"`
}

// Dispatch sends one text notification. The response always carries the
// delivery attempt, successful or not; only infrastructure faults are 500s.
func (h *DispatchHandler) Dispatch(c *fiber.Ctx) error {
	var req dispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	attempt, err := h.dispatcher.Dispatch(c.Context(), &services.DispatchInput{
		FunctionName: req.FunctionName,
		TemplateSlug: req.TemplateSlug,
		Phone:        req.Phone,
		Variables:    req.Variables,
		Language:     req.Language,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to dispatch message")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Dispatch recorded", attempt)
}

func (h *DispatchHandler) DispatchMedia(c *fiber.Ctx) error {
	var req mediaDispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	attempt, err := h.dispatcher.DispatchMedia(c.Context(), &services.MediaDispatchInput{
		DispatchInput: services.DispatchInput{
			FunctionName: req.FunctionName,
			TemplateSlug: req.TemplateSlug,
			Phone:        req.Phone,
			Variables:    req.Variables,
			Language:     req.Language,
		},
		ObjectName: req.ObjectName,
		Caption:    req.Caption,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to dispatch media message")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Dispatch recorded", attempt)
}
