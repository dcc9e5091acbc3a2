package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CondominiumRepository interface {
	Create(ctx context.Context, condominium *models.Condominium) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Condominium, error)
	List(ctx context.Context) ([]models.Condominium, error)
}

type condominiumRepository struct {
	db *gorm.DB
}

func NewCondominiumRepository(db *gorm.DB) CondominiumRepository {
	return &condominiumRepository{db: db}
}

func (r *condominiumRepository) Create(ctx context.Context, condominium *models.Condominium) error {
	return r.db.WithContext(ctx).Create(condominium).Error
}

func (r *condominiumRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Condominium, error) {
	var condominium models.Condominium
	if err := r.db.WithContext(ctx).First(&condominium, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &condominium, nil
}

func (r *condominiumRepository) List(ctx context.Context) ([]models.Condominium, error) {
	var list []models.Condominium
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}
