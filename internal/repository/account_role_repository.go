package repository

import (
	"context"

	"github.com/condoflow/backend/internal/models"
	"gorm.io/gorm"
)

type AccountRoleRepository interface {
	// ReplaceRole removes every role the account carries and assigns the
	// given one. The access flow uses this to force "resident" on any
	// account that answers a resident link.
	ReplaceRole(ctx context.Context, supabaseUserID, role string) error
	FindRoles(ctx context.Context, supabaseUserID string) ([]models.AccountRole, error)
}

type accountRoleRepository struct {
	db *gorm.DB
}

func NewAccountRoleRepository(db *gorm.DB) AccountRoleRepository {
	return &accountRoleRepository{db: db}
}

func (r *accountRoleRepository) ReplaceRole(ctx context.Context, supabaseUserID, role string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("supabase_user_id = ?", supabaseUserID).
			Delete(&models.AccountRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.AccountRole{
			SupabaseUserID: supabaseUserID,
			Role:           role,
		}).Error
	})
}

func (r *accountRoleRepository) FindRoles(ctx context.Context, supabaseUserID string) ([]models.AccountRole, error) {
	var roles []models.AccountRole
	err := r.db.WithContext(ctx).
		Where("supabase_user_id = ?", supabaseUserID).
		Find(&roles).Error
	return roles, err
}
