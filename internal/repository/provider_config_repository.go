package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderConfigRepository interface {
	Create(ctx context.Context, cfg *models.ProviderConfig) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProviderConfig, error)
	// FindActive returns the most recently created active config.
	FindActive(ctx context.Context) (*models.ProviderConfig, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context) ([]models.ProviderConfig, error)
}

type providerConfigRepository struct {
	db *gorm.DB
}

func NewProviderConfigRepository(db *gorm.DB) ProviderConfigRepository {
	return &providerConfigRepository{db: db}
}

func (r *providerConfigRepository) Create(ctx context.Context, cfg *models.ProviderConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *providerConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProviderConfig, error) {
	var cfg models.ProviderConfig
	if err := r.db.WithContext(ctx).First(&cfg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *providerConfigRepository) FindActive(ctx context.Context) (*models.ProviderConfig, error) {
	var cfg models.ProviderConfig
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("created_at DESC").
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *providerConfigRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.ProviderConfig{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *providerConfigRepository) List(ctx context.Context) ([]models.ProviderConfig, error) {
	var list []models.ProviderConfig
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
