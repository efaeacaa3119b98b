package dto

import (
	"time"

	"github.com/internlink/internlink-api/internal/models"
)

// SubmissionCreateRequest describes the payload for submitting a weekly report.
type SubmissionCreateRequest struct {
	EventID             uint   `form:"event_id" json:"event_id" validate:"required"`
	TasksCompleted      string `form:"tasks_completed" json:"tasks_completed" validate:"required"`
	Reflections         string `form:"reflections" json:"reflections" validate:"required"`
	SupportingMaterials string `form:"supporting_materials" json:"supporting_materials"`
}

// SubmissionReviewRequest describes the payload for reviewing a submission.
type SubmissionReviewRequest struct {
	Feedback string `json:"feedback" validate:"required"`
	Rating   *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Status   string `json:"status" validate:"omitempty,oneof=reviewed requires_revision"`
}

// SubmissionFilter narrows the supervisor's submission listing.
type SubmissionFilter struct {
	EventID   *uint   `query:"event_id"`
	StudentID *uint   `query:"student_id"`
	Status    *string `query:"status" validate:"omitempty,oneof=submitted reviewed requires_revision"`
}

// AttachmentResponse describes one stored file backing a submission.
type AttachmentResponse struct {
	ID         uint   `json:"id"`
	Position   int    `json:"position"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	StorageURL string `json:"storage_url"`
}

// SubmissionResponse is the serialized representation returned to API clients.
type SubmissionResponse struct {
	ID                  uint                 `json:"id"`
	StudentID           uint                 `json:"student_id"`
	StudentName         string               `json:"student_name"`
	SupervisorID        uint                 `json:"supervisor_id"`
	EventID             uint                 `json:"event_id"`
	WeekNumber          int                  `json:"week_number"`
	TasksCompleted      string               `json:"tasks_completed"`
	Reflections         string               `json:"reflections"`
	SupportingMaterials string               `json:"supporting_materials,omitempty"`
	Status              string               `json:"status"`
	SubmittedAt         time.Time            `json:"submitted_at"`
	DueDate             time.Time            `json:"due_date"`
	IsLate              bool                 `json:"is_late"`
	Feedback            string               `json:"feedback,omitempty"`
	Rating              *int                 `json:"rating,omitempty"`
	ReviewedBy          *uint                `json:"reviewed_by,omitempty"`
	ReviewedAt          *time.Time           `json:"reviewed_at,omitempty"`
	Attachments         []AttachmentResponse `json:"attachments"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// NewSubmissionResponse converts a model into a DTO. IsLate is derived here
// from the persisted timestamps rather than stored.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	attachments := make([]AttachmentResponse, 0, len(model.Attachments))
	for _, attachment := range model.Attachments {
		attachments = append(attachments, AttachmentResponse{
			ID:         attachment.ID,
			Position:   attachment.Position,
			FileName:   attachment.FileName,
			MimeType:   attachment.MimeType,
			SizeBytes:  attachment.SizeBytes,
			StorageURL: attachment.StorageURL,
		})
	}

	return SubmissionResponse{
		ID:                  model.ID,
		StudentID:           model.StudentID,
		StudentName:         model.StudentName,
		SupervisorID:        model.SupervisorID,
		EventID:             model.EventID,
		WeekNumber:          model.WeekNumber,
		TasksCompleted:      model.TasksCompleted,
		Reflections:         model.Reflections,
		SupportingMaterials: model.SupportingMaterials,
		Status:              model.Status,
		SubmittedAt:         model.SubmittedAt,
		DueDate:             model.DueDate,
		IsLate:              model.IsLate(),
		Feedback:            model.Feedback,
		Rating:              model.Rating,
		ReviewedBy:          model.ReviewedBy,
		ReviewedAt:          model.ReviewedAt,
		Attachments:         attachments,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
