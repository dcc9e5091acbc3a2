package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SecureLinkValidity is how long a notification's secure link token stays
// valid, counted from SentAt.
const SecureLinkValidity = 7 * 24 * time.Hour

// Notification records one message sent to a resident carrying a secure
// link token. ReadAt/IPAddress/UserAgent are set the first time the link is
// opened; later opens only refresh them best-effort.
type Notification struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ResidentID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"resident_id"`
	Resident        *Resident  `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	OccurrenceID    *uuid.UUID `gorm:"type:uuid;index" json:"occurrence_id"`
	Phone           string     `gorm:"size:30" json:"phone"`
	TemplateSlug    string     `gorm:"size:100" json:"template_slug"`
	SecureLinkToken string     `gorm:"size:36;uniqueIndex;not null" json:"-"`
	SentAt          time.Time  `gorm:"index;not null" json:"sent_at"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	IPAddress       string     `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent       string     `gorm:"size:500" json:"user_agent,omitempty"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.SecureLinkToken == "" {
		n.SecureLinkToken = uuid.NewString()
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	return nil
}

// ExpiresAt returns the instant after which the secure link token is no
// longer accepted.
func (n *Notification) ExpiresAt() time.Time {
	return n.SentAt.Add(SecureLinkValidity)
}
