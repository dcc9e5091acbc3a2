package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/internal/services"
	"github.com/condoflow/backend/pkg/utils"
)

type ProviderConfigHandler struct {
	configRepo repository.ProviderConfigRepository
	dispatcher services.DispatcherService
	validator  *validator.Validate
}

func NewProviderConfigHandler(
	configRepo repository.ProviderConfigRepository,
	dispatcher services.DispatcherService,
) *ProviderConfigHandler {
	return &ProviderConfigHandler{
		configRepo: configRepo,
		dispatcher: dispatcher,
		validator:  validator.New(),
	}
}

// POST /api/v1/admin/providers
func (h *ProviderConfigHandler) Create(c *fiber.Ctx) error {
	var req models.ProviderConfigCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	cfg := &models.ProviderConfig{
		Provider:   models.Provider(req.Provider),
		APIURL:     req.APIURL,
		APIKey:     req.APIKey,
		InstanceID: req.InstanceID,
		IsActive:   true,
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}

	if err := h.configRepo.Create(c.Context(), cfg); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create provider config")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Provider config created successfully", cfg)
}

// GET /api/v1/admin/providers
func (h *ProviderConfigHandler) List(c *fiber.Ctx) error {
	configs, err := h.configRepo.List(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list provider configs")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Provider configs retrieved successfully", configs)
}

// POST /api/v1/admin/providers/:id/activate
func (h *ProviderConfigHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// POST /api/v1/admin/providers/:id/deactivate
func (h *ProviderConfigHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *ProviderConfigHandler) setActive(c *fiber.Ctx, active bool) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid provider config ID")
	}

	if err := h.configRepo.SetActive(c.Context(), id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Provider config not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update provider config")
	}

	cfg, err := h.configRepo.FindByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load provider config")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Provider config updated successfully", cfg)
}

type testSendRequest struct {
	Phone string `json:"phone" validate:"required,max=30"`
}

// TestSend pushes the welcome template through the active provider so an
// operator can confirm credentials before going live.
func (h *ProviderConfigHandler) TestSend(c *fiber.Ctx) error {
	var req testSendRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	attempt, err := h.dispatcher.Dispatch(c.Context(), &services.DispatchInput{
		FunctionName: "provider_test_send",
		TemplateSlug: "welcome_resident",
		Phone:        req.Phone,
		Variables: map[string]string{
			"nome":       "Teste",
			"condominio": "Condomínio de Teste",
			"link":       "https://example.com",
		},
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to run test send")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Test send recorded", attempt)
}
