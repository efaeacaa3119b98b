package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/dto"
	"github.com/internlink/internlink-api/internal/models"
	"github.com/internlink/internlink-api/internal/observability"
	"github.com/internlink/internlink-api/internal/repository"
)

const defaultWeekSpan = 7 * 24 * time.Hour

// ReportEventService orchestrates the supervisor side of the weekly report
// workflow: opening events, fanning out notifications, and closing weeks.
type ReportEventService interface {
	Create(ctx context.Context, supervisorID uint, supervisorName string, payload dto.EventCreateRequest) (dto.EventCreateResponse, error)
	ListPending(ctx context.Context, studentID uint) (dto.PendingEventsResponse, error)
	ListForSupervisor(ctx context.Context, supervisorID uint) ([]dto.SupervisorEventResponse, error)
	UpdateStatus(ctx context.Context, supervisorID, eventID uint, payload dto.EventStatusUpdateRequest) (dto.EventResponse, error)
}

type reportEventService struct {
	events        repository.ReportEventRepository
	submissions   repository.SubmissionRepository
	internships   repository.InternshipRepository
	notifications repository.EventNotificationRepository
	notifier      Notifier
	validator     *validator.Validate
	logger        zerolog.Logger
	now           func() time.Time
}

// NewReportEventService constructs a ReportEventService instance.
func NewReportEventService(
	events repository.ReportEventRepository,
	submissions repository.SubmissionRepository,
	internships repository.InternshipRepository,
	notifications repository.EventNotificationRepository,
	notifier Notifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) ReportEventService {
	return &reportEventService{
		events:        events,
		submissions:   submissions,
		internships:   internships,
		notifications: notifications,
		notifier:      notifier,
		validator:     validate,
		logger:        logger.With().Str("component", "report_event_service").Logger(),
		now:           time.Now,
	}
}

func (s *reportEventService) Create(ctx context.Context, supervisorID uint, supervisorName string, payload dto.EventCreateRequest) (dto.EventCreateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventCreateResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.EventCreateResponse{}, fmt.Errorf("invalid due date: %w", err)
	}

	weekStart := dueDate.Add(-defaultWeekSpan)
	if payload.WeekStartDate != "" {
		weekStart, err = time.Parse(time.RFC3339, payload.WeekStartDate)
		if err != nil {
			return dto.EventCreateResponse{}, fmt.Errorf("invalid week start date: %w", err)
		}
	}

	event := models.ReportEvent{
		SupervisorID:   supervisorID,
		SupervisorName: supervisorName,
		WeekNumber:     payload.WeekNumber,
		Title:          strings.TrimSpace(payload.Title),
		Instructions:   strings.TrimSpace(payload.Instructions),
		WeekStartDate:  weekStart,
		DueDate:        dueDate,
		Status:         models.EventStatusActive,
	}

	// The composite unique index on (supervisor_id, week_number) is the
	// authoritative duplicate guard; no check-then-insert here.
	if err := s.events.Create(ctx, &event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EventCreateResponse{}, ErrDuplicateEvent
		}
		return dto.EventCreateResponse{}, err
	}

	notified := s.fanOut(ctx, event)

	observability.EventsCreated().Inc()
	s.logger.Info().
		Uint("event_id", event.ID).
		Int("week_number", event.WeekNumber).
		Int("students_notified", notified).
		Msg("report event created")

	return dto.EventCreateResponse{
		Event:            dto.NewEventResponse(event),
		StudentsNotified: notified,
	}, nil
}

// fanOut notifies every approved student of the supervisor and logs each
// delivery. Failures are logged and never abort event creation.
func (s *reportEventService) fanOut(ctx context.Context, event models.ReportEvent) int {
	internships, err := s.internships.ListApprovedBySupervisor(ctx, event.SupervisorID)
	if err != nil {
		s.logger.Error().Err(err).Uint("event_id", event.ID).Msg("failed to resolve supervised students")
		return 0
	}

	title := fmt.Sprintf("Week %d report requested", event.WeekNumber)
	message := fmt.Sprintf("%s requested your progress report for week %d, due %s.",
		event.SupervisorName, event.WeekNumber, event.DueDate.Format("Jan 2, 2006"))
	actionRef := "/reports/events/" + strconv.FormatUint(uint64(event.ID), 10)

	notified := 0
	for _, internship := range internships {
		s.notifier.Notify(ctx, internship.StudentID, models.NotificationTypeReportRequested, title, message, actionRef)

		entry := models.EventNotification{
			EventID:     event.ID,
			StudentID:   internship.StudentID,
			DeliveredAt: s.now(),
		}
		if err := s.notifications.Record(ctx, &entry); err != nil {
			s.logger.Warn().Err(err).
				Uint("event_id", event.ID).
				Uint("student_id", internship.StudentID).
				Msg("failed to record event notification")
			continue
		}
		notified++
	}

	return notified
}

func (s *reportEventService) ListPending(ctx context.Context, studentID uint) (dto.PendingEventsResponse, error) {
	internship, err := s.internships.GetApprovedByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Expected state for students between placements, not a failure.
			return dto.PendingEventsResponse{
				Items:  []dto.PendingEventResponse{},
				Reason: "no approved internship",
			}, nil
		}
		return dto.PendingEventsResponse{}, err
	}

	events, err := s.events.ListActiveBySupervisor(ctx, internship.SupervisorID)
	if err != nil {
		return dto.PendingEventsResponse{}, err
	}

	now := s.now()
	items := make([]dto.PendingEventResponse, 0, len(events))
	for _, event := range events {
		item := dto.PendingEventResponse{EventResponse: dto.NewEventResponse(event)}

		submission, err := s.submissions.GetByStudentAndEvent(ctx, studentID, event.ID)
		switch {
		case err == nil:
			item.IsSubmitted = true
			item.SubmissionStatus = submission.Status
		case errors.Is(err, gorm.ErrRecordNotFound):
			// not submitted yet
		default:
			return dto.PendingEventsResponse{}, err
		}

		pastDue := event.IsPastDue(now)
		item.CanSubmit = !item.IsSubmitted && !pastDue
		item.IsOverdue = !item.IsSubmitted && pastDue
		items = append(items, item)
	}

	return dto.PendingEventsResponse{Items: items}, nil
}

func (s *reportEventService) ListForSupervisor(ctx context.Context, supervisorID uint) ([]dto.SupervisorEventResponse, error) {
	events, err := s.events.ListBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	eventIDs := make([]uint, 0, len(events))
	for _, event := range events {
		eventIDs = append(eventIDs, event.ID)
	}

	counts, err := s.submissions.CountByEvents(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SupervisorEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.SupervisorEventResponse{
			EventResponse:   dto.NewEventResponse(event),
			SubmissionCount: counts[event.ID],
		})
	}

	return responses, nil
}

func (s *reportEventService) UpdateStatus(ctx context.Context, supervisorID, eventID uint, payload dto.EventStatusUpdateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}
		return dto.EventResponse{}, err
	}

	if event.SupervisorID != supervisorID {
		return dto.EventResponse{}, ErrNotEventOwner
	}

	// Forward-only: once a week is completed or expired it stays closed.
	if !event.IsActive() || payload.Status == models.EventStatusActive {
		return dto.EventResponse{}, ErrInvalidStatusTransition
	}

	if err := s.events.UpdateStatus(ctx, event.ID, payload.Status); err != nil {
		return dto.EventResponse{}, err
	}

	event.Status = payload.Status

	s.logger.Info().
		Uint("event_id", event.ID).
		Str("status", event.Status).
		Msg("report event status updated")

	return dto.NewEventResponse(event), nil
}
