package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"gorm.io/gorm"
)

type WebhookEventRepository interface {
	Create(ctx context.Context, event *models.PaymentWebhookEvent) error
	List(ctx context.Context, page, limit int) ([]models.PaymentWebhookEvent, int64, error)
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Create(ctx context.Context, event *models.PaymentWebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *webhookEventRepository) List(ctx context.Context, page, limit int) ([]models.PaymentWebhookEvent, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentWebhookEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.PaymentWebhookEvent
	err := r.db.WithContext(ctx).
		Order("received_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}
