package models

import "time"

const (
	// EventStatusActive indicates the event is open for submissions.
	EventStatusActive = "active"
	// EventStatusCompleted indicates the supervisor closed the reporting week.
	EventStatusCompleted = "completed"
	// EventStatusExpired indicates the reporting week lapsed without closure.
	EventStatusExpired = "expired"
)

// MinWeekNumber and MaxWeekNumber bound the internship reporting period.
const (
	MinWeekNumber = 1
	MaxWeekNumber = 12
)

// ReportEvent is a supervisor-issued request for one week's progress report.
// A supervisor can open at most one event per week number, enforced by the
// composite unique index rather than an application-level check.
type ReportEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SupervisorID   uint      `gorm:"not null;uniqueIndex:idx_event_supervisor_week" json:"supervisor_id"`
	SupervisorName string    `gorm:"size:255;not null" json:"supervisor_name"`
	WeekNumber     int       `gorm:"not null;uniqueIndex:idx_event_supervisor_week" json:"week_number"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Instructions   string    `gorm:"type:text" json:"instructions"`
	WeekStartDate  time.Time `gorm:"not null" json:"week_start_date"`
	DueDate        time.Time `gorm:"not null" json:"due_date"`
	Status         string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Submissions    []Submission `gorm:"foreignKey:EventID" json:"submissions,omitempty"`
}

// IsActive reports whether students may still act on the event.
func (e ReportEvent) IsActive() bool {
	return e.Status == EventStatusActive
}

// IsPastDue returns true when the submission deadline has already passed.
func (e ReportEvent) IsPastDue(reference time.Time) bool {
	return reference.After(e.DueDate)
}

// EventNotification is an append-only record of a "new report requested"
// delivery to one student. The unique index keeps the log idempotent per
// (event, student) pair.
type EventNotification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     uint      `gorm:"not null;uniqueIndex:idx_event_notification_target" json:"event_id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_event_notification_target" json:"student_id"`
	DeliveredAt time.Time `gorm:"not null" json:"delivered_at"`
}
