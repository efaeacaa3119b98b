package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/models"
)

// ReportEventRepository defines data operations for weekly report events.
type ReportEventRepository interface {
	// Create inserts the event. A second event for the same supervisor and
	// week fails with gorm.ErrDuplicatedKey via the composite unique index.
	Create(ctx context.Context, event *models.ReportEvent) error
	GetByID(ctx context.Context, id uint) (models.ReportEvent, error)
	GetBySupervisorAndWeek(ctx context.Context, supervisorID uint, weekNumber int) (models.ReportEvent, error)
	ListActiveBySupervisor(ctx context.Context, supervisorID uint) ([]models.ReportEvent, error)
	ListBySupervisor(ctx context.Context, supervisorID uint) ([]models.ReportEvent, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type reportEventRepository struct {
	db *gorm.DB
}

// NewReportEventRepository instantiates the repository.
func NewReportEventRepository(db *gorm.DB) ReportEventRepository {
	return &reportEventRepository{db: db}
}

func (r *reportEventRepository) Create(ctx context.Context, event *models.ReportEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *reportEventRepository) GetByID(ctx context.Context, id uint) (models.ReportEvent, error) {
	var event models.ReportEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return models.ReportEvent{}, err
	}

	return event, nil
}

func (r *reportEventRepository) GetBySupervisorAndWeek(ctx context.Context, supervisorID uint, weekNumber int) (models.ReportEvent, error) {
	var event models.ReportEvent
	if err := r.db.WithContext(ctx).
		Where("supervisor_id = ?", supervisorID).
		Where("week_number = ?", weekNumber).
		First(&event).Error; err != nil {
		return models.ReportEvent{}, err
	}

	return event, nil
}

func (r *reportEventRepository) ListActiveBySupervisor(ctx context.Context, supervisorID uint) ([]models.ReportEvent, error) {
	var events []models.ReportEvent
	if err := r.db.WithContext(ctx).
		Where("supervisor_id = ?", supervisorID).
		Where("status = ?", models.EventStatusActive).
		Order("week_number ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *reportEventRepository) ListBySupervisor(ctx context.Context, supervisorID uint) ([]models.ReportEvent, error) {
	var events []models.ReportEvent
	if err := r.db.WithContext(ctx).
		Where("supervisor_id = ?", supervisorID).
		Order("week_number ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *reportEventRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReportEvent{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
