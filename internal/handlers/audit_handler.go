package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/pkg/utils"
)

// AuditHandler exposes the delivery and access logs for operators.
type AuditHandler struct {
	deliveryRepo repository.DeliveryAttemptRepository
	accessRepo   repository.AccessAttemptRepository
}

func NewAuditHandler(
	deliveryRepo repository.DeliveryAttemptRepository,
	accessRepo repository.AccessAttemptRepository,
) *AuditHandler {
	return &AuditHandler{
		deliveryRepo: deliveryRepo,
		accessRepo:   accessRepo,
	}
}

// GET /api/v1/admin/audit/deliveries
func (h *AuditHandler) ListDeliveries(c *fiber.Ctx) error {
	filter := &models.DeliveryAttemptFilter{
		TemplateName: c.Query("template"),
		TargetPhone:  c.Query("phone"),
		Success:      parseBoolQuery(c, "success"),
		StartDate:    parseTimeQuery(c, "start_date"),
		EndDate:      parseTimeQuery(c, "end_date"),
	}
	filter.Page, _ = strconv.Atoi(c.Query("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "20"))

	attempts, total, err := h.deliveryRepo.List(c.Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list delivery attempts")
	}

	return utils.PaginatedSuccessResponse(c, attempts, filter.Page, filter.Limit, total)
}

// GET /api/v1/admin/audit/deliveries/:id
func (h *AuditHandler) GetDelivery(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid attempt ID")
	}

	attempt, err := h.deliveryRepo.FindByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Delivery attempt not found")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Delivery attempt retrieved successfully", attempt)
}

// GET /api/v1/admin/audit/access-attempts
func (h *AuditHandler) ListAccessAttempts(c *fiber.Ctx) error {
	filter := &models.AccessAttemptFilter{
		TokenID:   c.Query("token_id"),
		Success:   parseBoolQuery(c, "success"),
		StartDate: parseTimeQuery(c, "start_date"),
		EndDate:   parseTimeQuery(c, "end_date"),
	}
	if raw := c.Query("resident_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.ResidentID = &id
		}
	}
	filter.Page, _ = strconv.Atoi(c.Query("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "20"))

	attempts, total, err := h.accessRepo.List(c.Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list access attempts")
	}

	return utils.PaginatedSuccessResponse(c, attempts, filter.Page, filter.Limit, total)
}

func parseBoolQuery(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseTimeQuery(c *fiber.Ctx, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &value
}
