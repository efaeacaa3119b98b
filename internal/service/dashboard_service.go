package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/dto"
	"github.com/internlink/internlink-api/internal/models"
	"github.com/internlink/internlink-api/internal/repository"
)

// StudentDashboardService produces the student's reporting summary.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	events      repository.ReportEventRepository
	submissions repository.SubmissionRepository
	internships repository.InternshipRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(events repository.ReportEventRepository, submissions repository.SubmissionRepository, internships repository.InternshipRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		events:      events,
		submissions: submissions,
		internships: internships,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response, err := s.buildResponse(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *studentDashboardService) buildResponse(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	internship, err := s.internships.GetApprovedByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDashboardResponse{HasApprovedInternship: false}, nil
		}
		return dto.StudentDashboardResponse{}, err
	}

	events, err := s.events.ListActiveBySupervisor(ctx, internship.SupervisorID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submittedEvents := make(map[uint]struct{}, len(submissions))
	response := dto.StudentDashboardResponse{
		HasApprovedInternship: true,
		SupervisorName:        internship.Supervisor.Name,
		CompanyName:           internship.CompanyName,
	}

	for _, submission := range submissions {
		submittedEvents[submission.EventID] = struct{}{}
		response.SubmittedReports++
		switch {
		case submission.IsReviewed():
			response.ReviewedReports++
		case submission.Status == models.SubmissionStatusRequiresRevision:
			response.RevisionRequests++
		}
	}

	now := s.now()
	for _, event := range events {
		if _, submitted := submittedEvents[event.ID]; submitted {
			continue
		}
		if event.IsPastDue(now) {
			response.OverdueEvents++
		} else {
			response.PendingEvents++
		}
	}

	return response, nil
}
