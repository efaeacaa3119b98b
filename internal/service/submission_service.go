package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/dto"
	"github.com/internlink/internlink-api/internal/models"
	"github.com/internlink/internlink-api/internal/observability"
	"github.com/internlink/internlink-api/internal/repository"
)

var (
	// ErrTooManyAttachments indicates the submission exceeded the attachment limit.
	ErrTooManyAttachments = errors.New("too many attachments")
	// ErrAttachmentTooLarge indicates an attachment exceeded the size limit.
	ErrAttachmentTooLarge = errors.New("attachment exceeds maximum allowed size")
	// ErrAttachmentTypeNotAllowed indicates an attachment MIME type is not permitted.
	ErrAttachmentTypeNotAllowed = errors.New("attachment file type not allowed")
)

var allowedAttachmentTypes = []string{
	"application/pdf",
	"application/zip",
	"application/x-zip-compressed",
	"image/png",
	"image/jpeg",
	"text/plain",
}

// FileUploader abstracts attachment storage destinations.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// AttachmentLimits bounds what a single submission may carry.
type AttachmentLimits struct {
	MaxCount  int
	MaxSizeMB int
}

// SubmissionService orchestrates the student submit and supervisor review
// sides of the weekly report workflow.
type SubmissionService interface {
	Create(ctx context.Context, studentID uint, studentName string, payload dto.SubmissionCreateRequest, attachments []*multipart.FileHeader) (dto.SubmissionResponse, error)
	Review(ctx context.Context, supervisorID, submissionID uint, payload dto.SubmissionReviewRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, actorID, submissionID uint) (dto.SubmissionResponse, error)
	ListForSupervisor(ctx context.Context, supervisorID uint, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	events      repository.ReportEventRepository
	internships repository.InternshipRepository
	notifier    Notifier
	uploader    FileUploader
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	limits      AttachmentLimits
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	events repository.ReportEventRepository,
	internships repository.InternshipRepository,
	notifier Notifier,
	uploader FileUploader,
	validate *validator.Validate,
	limits AttachmentLimits,
	logger zerolog.Logger,
) SubmissionService {
	if limits.MaxCount <= 0 {
		limits.MaxCount = 5
	}
	if limits.MaxSizeMB <= 0 {
		limits.MaxSizeMB = 10
	}

	return &submissionService{
		submissions: submissions,
		events:      events,
		internships: internships,
		notifier:    notifier,
		uploader:    uploader,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		limits:      limits,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, studentID uint, studentName string, payload dto.SubmissionCreateRequest, attachments []*multipart.FileHeader) (dto.SubmissionResponse, error) {
	// Required text must survive trimming; whitespace-only reports are
	// rejected by the validator once trimmed here.
	payload.TasksCompleted = strings.TrimSpace(payload.TasksCompleted)
	payload.Reflections = strings.TrimSpace(payload.Reflections)
	payload.SupportingMaterials = strings.TrimSpace(payload.SupportingMaterials)

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	event, err := s.events.GetByID(ctx, payload.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrEventNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !event.IsActive() {
		return dto.SubmissionResponse{}, ErrEventNotActive
	}

	now := s.now()
	if event.IsPastDue(now) {
		// Hard gate: late reports are rejected, not accepted-and-flagged.
		return dto.SubmissionResponse{}, ErrDueDatePassed
	}

	internship, err := s.internships.GetApprovedByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSupervisorMismatch
		}
		return dto.SubmissionResponse{}, err
	}

	if internship.SupervisorID != event.SupervisorID {
		return dto.SubmissionResponse{}, ErrSupervisorMismatch
	}

	stored, err := s.storeAttachments(ctx, studentID, event, attachments)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		StudentID:           studentID,
		StudentName:         studentName,
		SupervisorID:        event.SupervisorID,
		EventID:             event.ID,
		WeekNumber:          event.WeekNumber,
		TasksCompleted:      payload.TasksCompleted,
		Reflections:         payload.Reflections,
		SupportingMaterials: payload.SupportingMaterials,
		Status:              models.SubmissionStatusSubmitted,
		SubmittedAt:         now,
		DueDate:             event.DueDate,
		Attachments:         stored,
	}

	// Concurrent submits race here; the unique index on (student_id,
	// event_id) lets exactly one insert win.
	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		return dto.SubmissionResponse{}, err
	}

	s.notifier.Notify(ctx, event.SupervisorID, models.NotificationTypeReportSubmitted,
		fmt.Sprintf("Week %d report submitted", event.WeekNumber),
		fmt.Sprintf("%s submitted their progress report for week %d.", studentName, event.WeekNumber),
		"/reports/submissions/"+strconv.FormatUint(uint64(submission.ID), 10))

	observability.ReportsSubmitted().Inc()
	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("event_id", event.ID).
		Int("attachments", len(stored)).
		Msg("report submitted")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) storeAttachments(ctx context.Context, studentID uint, event models.ReportEvent, attachments []*multipart.FileHeader) ([]models.SubmissionAttachment, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	if len(attachments) > s.limits.MaxCount {
		return nil, ErrTooManyAttachments
	}

	maxBytes := int64(s.limits.MaxSizeMB) << 20
	stored := make([]models.SubmissionAttachment, 0, len(attachments))
	for position, file := range attachments {
		if file.Size > maxBytes {
			return nil, ErrAttachmentTooLarge
		}

		detected, err := detectAttachmentType(file)
		if err != nil {
			return nil, err
		}

		reader, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open attachment: %w", err)
		}

		name := fmt.Sprintf("week%d-student%d-%s", event.WeekNumber, studentID, file.Filename)
		url, err := s.uploader.Upload(ctx, name, reader)
		closeErr := reader.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		if closeErr != nil {
			s.logger.Warn().Err(closeErr).Str("file", file.Filename).Msg("failed to close attachment reader")
		}

		stored = append(stored, models.SubmissionAttachment{
			Position:   position,
			FileName:   file.Filename,
			MimeType:   detected,
			SizeBytes:  file.Size,
			StorageURL: url,
		})
	}

	return stored, nil
}

func detectAttachmentType(file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to detect attachment type: %w", err)
	}

	for _, allowed := range allowedAttachmentTypes {
		if mime.Is(allowed) {
			return mime.String(), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrAttachmentTypeNotAllowed, mime.String())
}

func (s *submissionService) Review(ctx context.Context, supervisorID, submissionID uint, payload dto.SubmissionReviewRequest) (dto.SubmissionResponse, error) {
	payload.Feedback = strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.SupervisorID != supervisorID {
		return dto.SubmissionResponse{}, ErrNotSubmissionOwner
	}

	status := payload.Status
	if status == "" {
		status = models.SubmissionStatusReviewed
	}

	now := s.now()
	submission.Status = status
	submission.Feedback = payload.Feedback
	submission.Rating = payload.Rating
	submission.ReviewedBy = &supervisorID
	submission.ReviewedAt = &now

	if err := s.submissions.UpdateReview(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	title := fmt.Sprintf("Week %d report reviewed", submission.WeekNumber)
	message := fmt.Sprintf("Your progress report for week %d has been reviewed.", submission.WeekNumber)
	if status == models.SubmissionStatusRequiresRevision {
		title = fmt.Sprintf("Week %d report needs revision", submission.WeekNumber)
		message = fmt.Sprintf("Your progress report for week %d needs revision. Check the feedback.", submission.WeekNumber)
	}
	s.notifier.Notify(ctx, submission.StudentID, models.NotificationTypeReportReviewed, title, message,
		"/reports/submissions/"+strconv.FormatUint(uint64(submission.ID), 10))

	observability.ReportsReviewed().Inc()
	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("status", status).
		Msg("report reviewed")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, actorID, submissionID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.StudentID != actorID && submission.SupervisorID != actorID {
		return dto.SubmissionResponse{}, ErrNotSubmissionOwner
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListForSupervisor(ctx context.Context, supervisorID uint, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		EventID:   filter.EventID,
		StudentID: filter.StudentID,
		Status:    filter.Status,
	}

	submissions, err := s.submissions.ListBySupervisor(ctx, supervisorID, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListForStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
