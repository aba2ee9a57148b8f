package models

import (
	"time"
)

// Incident records one detected problem on one Kubernetes resource. The
// (cluster, namespace, resource_type, resource_name, issue_type) tuple is the
// dedup key: re-detections of the same issue land on the same row.
type Incident struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Cluster   string `gorm:"size:100;not null;index;uniqueIndex:uix_incident_dedup" json:"cluster"`
	Namespace string `gorm:"size:100;not null;index;uniqueIndex:uix_incident_dedup" json:"namespace"`

	ResourceType string `gorm:"size:50;not null;uniqueIndex:uix_incident_dedup" json:"resource_type"`
	ResourceName string `gorm:"size:255;not null;uniqueIndex:uix_incident_dedup" json:"resource_name"`

	IssueType   string `gorm:"size:100;not null;index;uniqueIndex:uix_incident_dedup" json:"issue_type"`
	Severity    string `gorm:"size:20;not null;index" json:"severity"`
	Description string `gorm:"type:text;not null" json:"description"`

	Logs            RawDocument `gorm:"type:text" json:"logs,omitempty"`
	Events          RawDocument `gorm:"type:text" json:"events,omitempty"`
	Diagnosis       string      `gorm:"type:text" json:"diagnosis,omitempty"`
	Recommendations string      `gorm:"type:text" json:"recommendations,omitempty"`

	FirstDetected   time.Time `gorm:"not null" json:"first_detected"`
	LastDetected    time.Time `gorm:"not null;index" json:"last_detected"`
	OccurrenceCount int       `gorm:"not null;default:1" json:"occurrence_count"`

	Resolved        bool       `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes string     `gorm:"type:text" json:"resolution_notes,omitempty"`

	// Relationships
	Notifications []Notification `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
