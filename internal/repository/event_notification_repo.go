package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/models"
)

// EventNotificationRepository records which students were told about an event.
// The log is append-only; there is no update or delete path.
type EventNotificationRepository interface {
	Record(ctx context.Context, entry *models.EventNotification) error
	ListByEvent(ctx context.Context, eventID uint) ([]models.EventNotification, error)
}

type eventNotificationRepository struct {
	db *gorm.DB
}

// NewEventNotificationRepository instantiates the repository.
func NewEventNotificationRepository(db *gorm.DB) EventNotificationRepository {
	return &eventNotificationRepository{db: db}
}

func (r *eventNotificationRepository) Record(ctx context.Context, entry *models.EventNotification) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already logged for this (event, student) pair; re-delivery is fine.
		return nil
	}

	return err
}

func (r *eventNotificationRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.EventNotification, error) {
	var entries []models.EventNotification
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("delivered_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
