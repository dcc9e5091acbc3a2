package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessAttempt is the append-only audit record for one secure link
// verification call, written in every outcome branch.
type AccessAttempt struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TokenID      string     `gorm:"size:36;index" json:"token_id"`
	ResidentID   *uuid.UUID `gorm:"type:uuid;index" json:"resident_id,omitempty"`
	OccurrenceID *uuid.UUID `gorm:"type:uuid" json:"occurrence_id,omitempty"`
	UserID       string     `gorm:"size:36" json:"user_id,omitempty"` // resolved identity-provider account id
	IPAddress    string     `gorm:"size:45" json:"ip_address"`
	UserAgent    string     `gorm:"size:500" json:"user_agent"`
	Success      bool       `gorm:"index" json:"success"`
	IsNewUser    bool       `json:"is_new_user"`
	RedirectURL  string     `gorm:"size:500" json:"redirect_url,omitempty"`
	ErrorMessage string     `gorm:"size:500" json:"error_message,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

func (a *AccessAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AccessAttemptFilter holds filter parameters for the audit listing
type AccessAttemptFilter struct {
	TokenID    string     `json:"token_id"`
	ResidentID *uuid.UUID `json:"resident_id"`
	Success    *bool      `json:"success"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}
