package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/condoflow/backend/internal/services"
	"github.com/condoflow/backend/pkg/utils"
)

type AccessHandler struct {
	accessService services.AccessService
	validator     *validator.Validate
}

func NewAccessHandler(accessService services.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
		validator:     validator.New(),
	}
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// Verify exchanges a secure link token for a passwordless sign-in link.
// Expired tokens come back 410 so the app can show a dedicated screen.
func (h *AccessHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.accessService.VerifyToken(c.Context(), &services.VerifyInput{
		Token:     req.Token,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Link not found")
		case errors.Is(err, services.ErrTokenExpired):
			return utils.ErrorResponse(c, fiber.StatusGone, "Link expired")
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Unable to verify link")
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Access verified", result)
}
