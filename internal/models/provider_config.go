package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider identifies one of the supported WhatsApp gateway backends.
type Provider string

const (
	ProviderZAPI       Provider = "zapi"
	ProviderEvolution  Provider = "evolution"
	ProviderWPPConnect Provider = "wppconnect"
	ProviderMetaCloud  Provider = "metacloud"
)

// ProviderConfig holds the credentials for one WhatsApp gateway instance.
// Dispatch always uses the most recently created active row. Rows are never
// hard-deleted, only deactivated.
type ProviderConfig struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Provider   Provider  `gorm:"size:20;not null;index" json:"provider"` // zapi | evolution | wppconnect | metacloud
	APIURL     string    `gorm:"size:500;not null" json:"api_url"`
	APIKey     string    `gorm:"size:500;not null" json:"-"`
	InstanceID string    `gorm:"size:255" json:"instance_id"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *ProviderConfig) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProviderConfigCreateRequest for registering a new gateway configuration
type ProviderConfigCreateRequest struct {
	Provider   string `json:"provider" validate:"required,oneof=zapi evolution wppconnect metacloud"`
	APIURL     string `json:"api_url" validate:"required,url"`
	APIKey     string `json:"api_key" validate:"required"`
	InstanceID string `json:"instance_id" validate:"max=255"`
	IsActive   *bool  `json:"is_active"`
}
