package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/models"
)

// InternshipRepository resolves the supervision relation between students and
// supervisors. The reporting workflow only ever cares about approved
// placements.
type InternshipRepository interface {
	GetApprovedByStudent(ctx context.Context, studentID uint) (models.Internship, error)
	ListApprovedBySupervisor(ctx context.Context, supervisorID uint) ([]models.Internship, error)
}

type internshipRepository struct {
	db *gorm.DB
}

// NewInternshipRepository instantiates the repository.
func NewInternshipRepository(db *gorm.DB) InternshipRepository {
	return &internshipRepository{db: db}
}

func (r *internshipRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Internship{}).
		Preload("Student").
		Preload("Supervisor")
}

func (r *internshipRepository) GetApprovedByStudent(ctx context.Context, studentID uint) (models.Internship, error) {
	var internship models.Internship
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Where("status = ?", models.InternshipStatusApproved).
		First(&internship).Error; err != nil {
		return models.Internship{}, err
	}

	return internship, nil
}

func (r *internshipRepository) ListApprovedBySupervisor(ctx context.Context, supervisorID uint) ([]models.Internship, error) {
	var internships []models.Internship
	if err := r.baseQuery(ctx).
		Where("supervisor_id = ?", supervisorID).
		Where("status = ?", models.InternshipStatusApproved).
		Find(&internships).Error; err != nil {
		return nil, err
	}

	return internships, nil
}
