package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResidentRepository interface {
	Create(ctx context.Context, resident *models.Resident) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Resident, error)
	FindByEmail(ctx context.Context, email string) (*models.Resident, error)
	FindBySupabaseUserID(ctx context.Context, supabaseUserID string) (*models.Resident, error)
	// LinkSupabaseUser writes the account linkage for an unlinked resident.
	// Residents that already carry a link are left untouched.
	LinkSupabaseUser(ctx context.Context, id uuid.UUID, supabaseUserID string) error
	List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Resident, int64, error)
}

type residentRepository struct {
	db *gorm.DB
}

func NewResidentRepository(db *gorm.DB) ResidentRepository {
	return &residentRepository{db: db}
}

func (r *residentRepository) Create(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

func (r *residentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Resident, error) {
	var resident models.Resident
	err := r.db.WithContext(ctx).
		Preload("Condominium").
		First(&resident, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

func (r *residentRepository) FindByEmail(ctx context.Context, email string) (*models.Resident, error) {
	var resident models.Resident
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&resident).Error
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

func (r *residentRepository) FindBySupabaseUserID(ctx context.Context, supabaseUserID string) (*models.Resident, error) {
	var resident models.Resident
	err := r.db.WithContext(ctx).
		Where("supabase_user_id = ?", supabaseUserID).
		First(&resident).Error
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

func (r *residentRepository) LinkSupabaseUser(ctx context.Context, id uuid.UUID, supabaseUserID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Resident{}).
		Where("id = ? AND supabase_user_id IS NULL", id).
		Update("supabase_user_id", supabaseUserID).Error
}

func (r *residentRepository) List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Resident, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Resident{})
	if condominiumID != nil {
		query = query.Where("condominium_id = ?", *condominiumID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Resident
	err := query.
		Preload("Condominium").
		Order("full_name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}
