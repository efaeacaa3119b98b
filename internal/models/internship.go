package models

import "time"

const (
	// InternshipStatusPending indicates the placement is awaiting approval.
	InternshipStatusPending = "pending"
	// InternshipStatusApproved indicates the placement is active and supervised.
	InternshipStatusApproved = "approved"
	// InternshipStatusCompleted indicates the placement has finished.
	InternshipStatusCompleted = "completed"
	// InternshipStatusTerminated indicates the placement was cancelled early.
	InternshipStatusTerminated = "terminated"
)

// Internship links a student to their supervisor for a placement. Only an
// approved internship makes the student eligible for weekly reporting.
type Internship struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id"`
	SupervisorID uint      `gorm:"not null;index" json:"supervisor_id"`
	CompanyName  string    `gorm:"size:255" json:"company_name"`
	Status       string    `gorm:"size:32;not null;default:pending" json:"status"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Student      User      `gorm:"foreignKey:StudentID" json:"student"`
	Supervisor   User      `gorm:"foreignKey:SupervisorID" json:"supervisor"`
}

// IsApproved reports whether the placement is currently supervised.
func (i Internship) IsApproved() bool {
	return i.Status == InternshipStatusApproved
}
