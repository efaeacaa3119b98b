package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	EventID   *uint
	StudentID *uint
	Status    *string
}

// SubmissionRepository defines data operations for weekly report submissions.
type SubmissionRepository interface {
	// Create inserts the submission together with its attachments. A second
	// submission for the same student and event fails with
	// gorm.ErrDuplicatedKey via the composite unique index.
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByStudentAndEvent(ctx context.Context, studentID, eventID uint) (models.Submission, error)
	ListBySupervisor(ctx context.Context, supervisorID uint, filter SubmissionFilter) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error)
	UpdateReview(ctx context.Context, submission *models.Submission) error
	CountByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByStudentAndEvent(ctx context.Context, studentID, eventID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Where("event_id = ?", eventID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListBySupervisor(ctx context.Context, supervisorID uint, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx).Where("supervisor_id = ?", supervisorID)

	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("week_number ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) UpdateReview(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) CountByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	type row struct {
		EventID uint
		Total   int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, entry := range rows {
		counts[entry.EventID] = entry.Total
	}

	return counts, nil
}
