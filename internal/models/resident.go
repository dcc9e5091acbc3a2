package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Condominium groups residents under one property.
type Condominium struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Condominium) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Resident is a person living in a condominium. SupabaseUserID links the
// resident to an identity-provider account; the link is written exactly once
// by the access verification flow and never cleared by this subsystem.
type Resident struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	FullName        string         `gorm:"size:255;not null" json:"full_name"`
	Email           string         `gorm:"size:255;index" json:"email"`
	Phone           string         `gorm:"size:30" json:"phone"`
	ApartmentNumber string         `gorm:"size:20" json:"apartment_number"`
	BlockName       string         `gorm:"size:50" json:"block_name"`
	CondominiumID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"condominium_id"`
	Condominium     *Condominium   `gorm:"foreignKey:CondominiumID" json:"condominium,omitempty"`
	SupabaseUserID  *string        `gorm:"size:36;index" json:"supabase_user_id,omitempty"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Resident) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ResidentCreateRequest for registering a resident
type ResidentCreateRequest struct {
	FullName        string    `json:"full_name" validate:"required,max=255"`
	Email           string    `json:"email" validate:"omitempty,email"`
	Phone           string    `json:"phone" validate:"required,max=30"`
	ApartmentNumber string    `json:"apartment_number" validate:"max=20"`
	BlockName       string    `json:"block_name" validate:"max=50"`
	CondominiumID   uuid.UUID `json:"condominium_id" validate:"required"`
}

// ResidentSummary is the slim shape returned by the access verification flow
type ResidentSummary struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	ApartmentNumber string    `json:"apartment_number"`
	BlockName       string    `json:"block_name"`
	CondominiumName string    `json:"condominium_name"`
}

// ToResidentSummary flattens a resident with its preloaded condominium
func ToResidentSummary(r *Resident) ResidentSummary {
	summary := ResidentSummary{
		ID:              r.ID,
		FullName:        r.FullName,
		ApartmentNumber: r.ApartmentNumber,
		BlockName:       r.BlockName,
	}
	if r.Condominium != nil {
		summary.CondominiumName = r.Condominium.Name
	}
	return summary
}
