package models

import (
	"time"
)

// Notification is one outbound alert dispatched about an Incident. Rows are
// append-only: written when the alert goes out, never updated afterwards.
type Notification struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	IncidentID string `gorm:"size:36;not null;index" json:"incident_id"`

	Channel     string    `gorm:"size:100;not null;index" json:"channel"`
	Destination string    `gorm:"size:255;not null" json:"destination"`
	SentAt      time.Time `gorm:"not null" json:"sent_at"`
	Severity    string    `gorm:"size:50;not null" json:"severity"`
	Status      string    `gorm:"size:50;not null;default:sent" json:"status"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`

	// Relationships
	Incident Incident `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
