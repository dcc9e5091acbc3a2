package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OccurrenceRepository interface {
	Create(ctx context.Context, occurrence *models.Occurrence) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error)
	Update(ctx context.Context, occurrence *models.Occurrence) error
	List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Occurrence, int64, error)
}

type occurrenceRepository struct {
	db *gorm.DB
}

func NewOccurrenceRepository(db *gorm.DB) OccurrenceRepository {
	return &occurrenceRepository{db: db}
}

func (r *occurrenceRepository) Create(ctx context.Context, occurrence *models.Occurrence) error {
	return r.db.WithContext(ctx).Create(occurrence).Error
}

func (r *occurrenceRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error) {
	var occurrence models.Occurrence
	err := r.db.WithContext(ctx).
		Preload("Resident").
		First(&occurrence, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &occurrence, nil
}

func (r *occurrenceRepository) Update(ctx context.Context, occurrence *models.Occurrence) error {
	return r.db.WithContext(ctx).Save(occurrence).Error
}

func (r *occurrenceRepository) List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Occurrence, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Occurrence{})
	if condominiumID != nil {
		query = query.Where("condominium_id = ?", *condominiumID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Occurrence
	err := query.
		Preload("Resident").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}
