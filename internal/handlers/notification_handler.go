package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/pkg/utils"
)

type NotificationHandler struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationHandler(notificationRepo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// GET /api/v1/admin/residents/:id/notifications
func (h *NotificationHandler) ListByResident(c *fiber.Ctx) error {
	residentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid resident ID")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	notifications, total, err := h.notificationRepo.ListByResident(c.Context(), residentID, page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list notifications")
	}

	return utils.PaginatedSuccessResponse(c, notifications, page, limit, total)
}
