package dto

import (
	"time"

	"github.com/internlink/internlink-api/internal/models"
)

// NotificationCreateRequest describes the payload for publishing a notification.
type NotificationCreateRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Title     string `json:"title"`
	Message   string `json:"message" validate:"required"`
	ActionRef string `json:"action_ref"`
}

// NotificationResponse is the serialized representation of a notification.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ActionRef string    `json:"action_ref,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		Type:      model.Type,
		Title:     model.Title,
		Message:   model.Message,
		ActionRef: model.ActionRef,
		Read:      model.Read,
		CreatedAt: model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
