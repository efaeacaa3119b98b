package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types emitted by the reporting workflow.
const (
	NotificationTypeReportRequested = "report_requested"
	NotificationTypeReportSubmitted = "report_submitted"
	NotificationTypeReportReviewed  = "report_reviewed"
)

// Notification represents an in-app notification targeted to a specific user.
type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"`
	Type      string            `gorm:"size:64" json:"type"`
	Title     string            `gorm:"size:255" json:"title"`
	Message   string            `gorm:"type:text" json:"message"`
	ActionRef string            `gorm:"size:255" json:"action_ref"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Read      bool              `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
