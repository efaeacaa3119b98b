package dto

import (
	"time"

	"github.com/internlink/internlink-api/internal/models"
)

// EventCreateRequest describes the payload for opening a weekly report event.
type EventCreateRequest struct {
	WeekNumber    int    `form:"week_number" json:"week_number" validate:"required,min=1,max=12"`
	Title         string `form:"title" json:"title" validate:"required,min=3"`
	Instructions  string `form:"instructions" json:"instructions"`
	DueDate       string `form:"due_date" json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	WeekStartDate string `form:"week_start_date" json:"week_start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// EventStatusUpdateRequest describes the payload for closing or expiring an event.
type EventStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed expired"`
}

// EventResponse is the serialized representation of a report event.
type EventResponse struct {
	ID             uint      `json:"id"`
	SupervisorID   uint      `json:"supervisor_id"`
	SupervisorName string    `json:"supervisor_name"`
	WeekNumber     int       `json:"week_number"`
	Title          string    `json:"title"`
	Instructions   string    `json:"instructions"`
	WeekStartDate  time.Time `json:"week_start_date"`
	DueDate        time.Time `json:"due_date"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EventCreateResponse pairs the created event with the notification fan-out count.
type EventCreateResponse struct {
	Event            EventResponse `json:"event"`
	StudentsNotified int           `json:"students_notified"`
}

// SupervisorEventResponse annotates an event with its submission count for the
// supervisor's overview.
type SupervisorEventResponse struct {
	EventResponse
	SubmissionCount int64 `json:"submission_count"`
}

// PendingEventResponse annotates an event with the student's submission state.
type PendingEventResponse struct {
	EventResponse
	IsSubmitted      bool   `json:"is_submitted"`
	SubmissionStatus string `json:"submission_status,omitempty"`
	CanSubmit        bool   `json:"can_submit"`
	IsOverdue        bool   `json:"is_overdue"`
}

// PendingEventsResponse is the student's view of outstanding report requests.
// Reason is set when the list is empty for an expected cause, such as the
// student having no approved internship.
type PendingEventsResponse struct {
	Items  []PendingEventResponse `json:"items"`
	Reason string                 `json:"reason,omitempty"`
}

// NewEventResponse converts a model into a DTO.
func NewEventResponse(model models.ReportEvent) EventResponse {
	return EventResponse{
		ID:             model.ID,
		SupervisorID:   model.SupervisorID,
		SupervisorName: model.SupervisorName,
		WeekNumber:     model.WeekNumber,
		Title:          model.Title,
		Instructions:   model.Instructions,
		WeekStartDate:  model.WeekStartDate,
		DueDate:        model.DueDate,
		Status:         model.Status,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
