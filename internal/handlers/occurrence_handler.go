package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/services"
	"github.com/condoflow/backend/pkg/utils"
)

type OccurrenceHandler struct {
	occurrenceService services.OccurrenceService
	validator         *validator.Validate
}

func NewOccurrenceHandler(occurrenceService services.OccurrenceService) *OccurrenceHandler {
	return &OccurrenceHandler{
		occurrenceService: occurrenceService,
		validator:         validator.New(),
	}
}

// POST /api/v1/admin/occurrences
func (h *OccurrenceHandler) Create(c *fiber.Ctx) error {
	var req models.OccurrenceCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	occurrence, err := h.occurrenceService.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Resident not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create occurrence")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Occurrence created successfully", occurrence)
}

// GET /api/v1/admin/occurrences/:id
func (h *OccurrenceHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid occurrence ID")
	}

	occurrence, err := h.occurrenceService.GetByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Occurrence not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Occurrence retrieved successfully", occurrence)
}

// GET /api/v1/admin/occurrences
func (h *OccurrenceHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	var condominiumID *uuid.UUID
	if raw := c.Query("condominium_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			condominiumID = &id
		}
	}

	occurrences, total, err := h.occurrenceService.List(c.Context(), condominiumID, page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list occurrences")
	}

	return utils.PaginatedSuccessResponse(c, occurrences, page, limit, total)
}
