package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryAttemptRepository interface {
	Create(ctx context.Context, attempt *models.DeliveryAttempt) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAttempt, error)
	List(ctx context.Context, filter *models.DeliveryAttemptFilter) ([]models.DeliveryAttempt, int64, error)
}

type deliveryAttemptRepository struct {
	db *gorm.DB
}

func NewDeliveryAttemptRepository(db *gorm.DB) DeliveryAttemptRepository {
	return &deliveryAttemptRepository{db: db}
}

func (r *deliveryAttemptRepository) Create(ctx context.Context, attempt *models.DeliveryAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *deliveryAttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAttempt, error) {
	var attempt models.DeliveryAttempt
	if err := r.db.WithContext(ctx).First(&attempt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *deliveryAttemptRepository) List(ctx context.Context, filter *models.DeliveryAttemptFilter) ([]models.DeliveryAttempt, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliveryAttempt{})

	if filter.TemplateName != "" {
		query = query.Where("template_name = ?", filter.TemplateName)
	}
	if filter.TargetPhone != "" {
		query = query.Where("target_phone = ?", filter.TargetPhone)
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.DeliveryAttempt
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}
