package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OccurrenceStatus string

const (
	OccurrenceStatusOpen       OccurrenceStatus = "open"
	OccurrenceStatusInProgress OccurrenceStatus = "in_progress"
	OccurrenceStatusResolved   OccurrenceStatus = "resolved"
)

// Occurrence is the business object resident notification links point at
// (a complaint, maintenance request or incident registered for a unit).
type Occurrence struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Title         string           `gorm:"size:255;not null" json:"title"`
	Description   string           `gorm:"type:text" json:"description"`
	Status        OccurrenceStatus `gorm:"size:20;default:'open';index" json:"status"`
	ResidentID    uuid.UUID        `gorm:"type:uuid;index;not null" json:"resident_id"`
	Resident      *Resident        `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	CondominiumID uuid.UUID        `gorm:"type:uuid;index;not null" json:"condominium_id"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (o *Occurrence) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OccurrenceCreateRequest for registering an occurrence
type OccurrenceCreateRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	ResidentID  uuid.UUID `json:"resident_id" validate:"required"`
}
