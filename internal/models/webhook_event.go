package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentWebhookEvent stores a raw payment-processor callback. The payload
// is kept opaque here; business effects are handled elsewhere.
type PaymentWebhookEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventType  string    `gorm:"size:100;index" json:"event_type"`
	Payload    string    `gorm:"type:jsonb;not null" json:"payload"`
	ReceivedAt time.Time `gorm:"index" json:"received_at"`
}

func (e *PaymentWebhookEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now()
	}
	return nil
}
