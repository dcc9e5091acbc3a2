package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/pkg/utils"
)

type ResidentHandler struct {
	residentRepo    repository.ResidentRepository
	condominiumRepo repository.CondominiumRepository
	validator       *validator.Validate
}

func NewResidentHandler(
	residentRepo repository.ResidentRepository,
	condominiumRepo repository.CondominiumRepository,
) *ResidentHandler {
	return &ResidentHandler{
		residentRepo:    residentRepo,
		condominiumRepo: condominiumRepo,
		validator:       validator.New(),
	}
}

// POST /api/v1/admin/residents
func (h *ResidentHandler) Create(c *fiber.Ctx) error {
	var req models.ResidentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := h.condominiumRepo.FindByID(c.Context(), req.CondominiumID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Condominium not found")
	}

	resident := &models.Resident{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		ApartmentNumber: req.ApartmentNumber,
		BlockName:       req.BlockName,
		CondominiumID:   req.CondominiumID,
	}

	if err := h.residentRepo.Create(c.Context(), resident); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create resident")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Resident created successfully", resident)
}

// GET /api/v1/admin/residents/:id
func (h *ResidentHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid resident ID")
	}

	resident, err := h.residentRepo.FindByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Resident not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Resident retrieved successfully", resident)
}

// GET /api/v1/admin/residents
func (h *ResidentHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	var condominiumID *uuid.UUID
	if raw := c.Query("condominium_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			condominiumID = &id
		}
	}

	residents, total, err := h.residentRepo.List(c.Context(), condominiumID, page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list residents")
	}

	return utils.PaginatedSuccessResponse(c, residents, page, limit, total)
}

type condominiumCreateRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// POST /api/v1/admin/condominiums
func (h *ResidentHandler) CreateCondominium(c *fiber.Ctx) error {
	var req condominiumCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	condominium := &models.Condominium{
		Name: req.Name,
	}

	if err := h.condominiumRepo.Create(c.Context(), condominium); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create condominium")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Condominium created successfully", condominium)
}

// GET /api/v1/admin/condominiums
func (h *ResidentHandler) ListCondominiums(c *fiber.Ctx) error {
	condominiums, err := h.condominiumRepo.List(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list condominiums")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Condominiums retrieved successfully", condominiums)
}
