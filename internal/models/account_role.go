package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RoleResident = "resident"

// AccountRole assigns an application role to an identity-provider account.
// The access verification flow replaces whatever is here with "resident"
// for the resolved account.
type AccountRole struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SupabaseUserID string    `gorm:"size:36;index;not null" json:"supabase_user_id"`
	Role           string    `gorm:"size:50;not null" json:"role"` // resident | manager | doorkeeper | super_admin
	CreatedAt      time.Time `json:"created_at"`
}

func (a *AccountRole) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
