package handlers

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/pkg/utils"
)

type WebhookHandler struct {
	webhookRepo repository.WebhookEventRepository
}

func NewWebhookHandler(webhookRepo repository.WebhookEventRepository) *WebhookHandler {
	return &WebhookHandler{webhookRepo: webhookRepo}
}

// Payment stores the raw processor callback and acknowledges immediately.
// Processors retry on non-2xx, so a storage fault is logged but still acked.
func (h *WebhookHandler) Payment(c *fiber.Ctx) error {
	body := c.Body()

	var envelope struct {
		Event string `json:"event"`
		Type  string `json:"type"`
	}
	_ = json.Unmarshal(body, &envelope)

	eventType := envelope.Event
	if eventType == "" {
		eventType = envelope.Type
	}

	event := &models.PaymentWebhookEvent{
		EventType: eventType,
		Payload:   string(body),
	}

	if err := h.webhookRepo.Create(c.Context(), event); err != nil {
		log.Printf("failed to store payment webhook event: %v", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Event received", nil)
}

// GET /api/v1/admin/webhooks/payment
func (h *WebhookHandler) ListPaymentEvents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	events, total, err := h.webhookRepo.List(c.Context(), page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list webhook events")
	}

	return utils.PaginatedSuccessResponse(c, events, page, limit, total)
}
