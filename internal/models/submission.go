package models

import "time"

const (
	// SubmissionStatusSubmitted indicates the report awaits supervisor review.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusReviewed indicates the supervisor accepted the report.
	SubmissionStatusReviewed = "reviewed"
	// SubmissionStatusRequiresRevision indicates the supervisor sent the report back.
	SubmissionStatusRequiresRevision = "requires_revision"
)

// Submission is a student's one-time response to a ReportEvent. The composite
// unique index guarantees at most one submission per (student, event) even
// under concurrent submit attempts.
type Submission struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	StudentID           uint       `gorm:"not null;uniqueIndex:idx_submission_student_event" json:"student_id"`
	StudentName         string     `gorm:"size:255;not null" json:"student_name"`
	SupervisorID        uint       `gorm:"not null;index" json:"supervisor_id"`
	EventID             uint       `gorm:"not null;uniqueIndex:idx_submission_student_event" json:"event_id"`
	WeekNumber          int        `gorm:"not null" json:"week_number"`
	TasksCompleted      string     `gorm:"type:text;not null" json:"tasks_completed"`
	Reflections         string     `gorm:"type:text;not null" json:"reflections"`
	SupportingMaterials string     `gorm:"type:text" json:"supporting_materials"`
	Status              string     `gorm:"size:32;not null;default:submitted" json:"status"`
	SubmittedAt         time.Time  `gorm:"not null" json:"submitted_at"`
	DueDate             time.Time  `gorm:"not null" json:"due_date"`
	Feedback            string     `gorm:"type:text" json:"feedback"`
	Rating              *int       `json:"rating"`
	ReviewedBy          *uint      `json:"reviewed_by"`
	ReviewedAt          *time.Time `json:"reviewed_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Event       ReportEvent            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"event"`
	Attachments []SubmissionAttachment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"attachments"`
}

// IsLate reports whether the report arrived after the event deadline. Always
// derived, never stored.
func (s Submission) IsLate() bool {
	return s.SubmittedAt.After(s.DueDate)
}

// IsReviewed reports whether the supervisor has given final feedback.
func (s Submission) IsReviewed() bool {
	return s.Status == SubmissionStatusReviewed
}

// SubmissionAttachment describes one uploaded file backing a submission.
type SubmissionAttachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Position     int       `gorm:"not null" json:"position"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	MimeType     string    `gorm:"size:128;not null" json:"mime_type"`
	SizeBytes    int64     `gorm:"not null" json:"size_bytes"`
	StorageURL   string    `gorm:"size:512;not null" json:"storage_url"`
	CreatedAt    time.Time `json:"created_at"`
}
