package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryAttempt is the append-only audit record for one outbound dispatch.
// One row is written per Dispatch call regardless of outcome; rows are never
// updated or deleted by normal flow.
type DeliveryAttempt struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FunctionName     string    `gorm:"size:100;index" json:"function_name"` // which dispatch path invoked it
	TargetPhone      string    `gorm:"size:30;index" json:"target_phone"`
	TemplateName     string    `gorm:"size:100;index" json:"template_name"`
	TemplateLanguage string    `gorm:"size:10" json:"template_language"`
	RequestPayload   string    `gorm:"type:jsonb" json:"request_payload"` // exact outbound request
	ResponseStatus   int       `json:"response_status"`
	ResponseBody     string    `gorm:"type:text" json:"response_body"` // truncated raw text
	Success          bool      `gorm:"index" json:"success"`
	MessageID        string    `gorm:"size:255" json:"message_id,omitempty"` // provider-assigned id
	ErrorMessage     string    `gorm:"size:500" json:"error_message,omitempty"`
	DebugInfo        string    `gorm:"type:jsonb" json:"debug_info,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (a *DeliveryAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// DeliveryAttemptFilter holds filter parameters for the audit listing
type DeliveryAttemptFilter struct {
	TemplateName string     `json:"template_name"`
	TargetPhone  string     `json:"target_phone"`
	Success      *bool      `json:"success"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Page         int        `json:"page"`
	Limit        int        `json:"limit"`
}
