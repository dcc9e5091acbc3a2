package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageTemplate is a named message body with {variable} placeholders.
// Templates are seeded with defaults and restorable per slug.
type MessageTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"` // payment_confirmed, trial_ending, ...
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Variables   []string  `gorm:"type:jsonb;serializer:json" json:"variables"` // declared placeholder names, in order
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *MessageTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TemplateUpdateRequest for editing a template body
type TemplateUpdateRequest struct {
	Name        string   `json:"name" validate:"omitempty,max=255"`
	Description string   `json:"description" validate:"max=500"`
	Content     string   `json:"content" validate:"required"`
	Variables   []string `json:"variables"`
	IsActive    *bool    `json:"is_active"`
}

// TemplatePreviewRequest renders a body against a variable map without saving
type TemplatePreviewRequest struct {
	Content   string            `json:"content" validate:"required"`
	Variables map[string]string `json:"variables"`
}
