package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"gorm.io/gorm"
)

type AccessAttemptRepository interface {
	Create(ctx context.Context, attempt *models.AccessAttempt) error
	List(ctx context.Context, filter *models.AccessAttemptFilter) ([]models.AccessAttempt, int64, error)
}

type accessAttemptRepository struct {
	db *gorm.DB
}

func NewAccessAttemptRepository(db *gorm.DB) AccessAttemptRepository {
	return &accessAttemptRepository{db: db}
}

func (r *accessAttemptRepository) Create(ctx context.Context, attempt *models.AccessAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *accessAttemptRepository) List(ctx context.Context, filter *models.AccessAttemptFilter) ([]models.AccessAttempt, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AccessAttempt{})

	if filter.TokenID != "" {
		query = query.Where("token_id = ?", filter.TokenID)
	}
	if filter.ResidentID != nil {
		query = query.Where("resident_id = ?", *filter.ResidentID)
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

	var list []models.AccessAttempt
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}
