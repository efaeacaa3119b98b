package service

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/internlink/internlink-api/internal/dto"
	"github.com/internlink/internlink-api/internal/models"
)

type submissionFixture struct {
	svc         SubmissionService
	events      *memoryEventRepo
	submissions *memorySubmissionRepo
	internships *memoryInternshipRepo
	notifier    *recordingNotifier
	uploader    *stubUploader
}

func (f *submissionFixture) seedEvent(t *testing.T, event models.ReportEvent) models.ReportEvent {
	t.Helper()
	require.NoError(t, f.events.Create(context.Background(), &event))
	return event
}

func (f *submissionFixture) approve(studentID, supervisorID uint) {
	f.internships.internships = append(f.internships.internships, models.Internship{
		StudentID:    studentID,
		SupervisorID: supervisorID,
		Status:       models.InternshipStatusApproved,
	})
}

func newFixture() (*submissionFixture, SubmissionService) {
	f := &submissionFixture{
		events:      newMemoryEventRepo(),
		submissions: newMemorySubmissionRepo(),
		internships: &memoryInternshipRepo{},
		notifier:    &recordingNotifier{},
		uploader:    &stubUploader{},
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	f.svc = NewSubmissionService(f.submissions, f.events, f.internships, f.notifier, f.uploader, validate, AttachmentLimits{MaxCount: 2, MaxSizeMB: 1}, testLogger())
	return f, f.svc
}

func TestSubmissionServiceCreateSuccess(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	attachment := newTestFileHeader(t, "notes.txt", []byte("weekly notes"))
	result, err := svc.Create(context.Background(), 10, "Budi", dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "Implemented the ingest pipeline",
		Reflections:    "Learned a lot about batching",
	}, []*multipart.FileHeader{attachment})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, result.Status)
	require.Equal(t, event.WeekNumber, result.WeekNumber)
	require.False(t, result.IsLate)
	require.Len(t, result.Attachments, 1)
	require.Equal(t, "notes.txt", result.Attachments[0].FileName)
	require.Equal(t, 1, f.uploader.uploads)

	require.Len(t, f.notifier.calls, 1)
	require.Equal(t, uint(1), f.notifier.calls[0].recipientID)
	require.Equal(t, models.NotificationTypeReportSubmitted, f.notifier.calls[0].kind)
}

func TestSubmissionServiceCreateDuplicate(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	payload := dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "First attempt",
		Reflections:    "Went fine",
	}

	_, err := svc.Create(context.Background(), 10, "Budi", payload, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 10, "Budi", payload, nil)
	require.ErrorIs(t, err, ErrDuplicateSubmission)
}

func TestSubmissionServiceCreateGates(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)

	closed := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 1, Title: "Week 1",
		Status: models.EventStatusCompleted, DueDate: time.Now().Add(24 * time.Hour),
	})
	overdue := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(-time.Hour),
	})
	foreign := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 2, WeekNumber: 3, Title: "Week 3",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	payload := dto.SubmissionCreateRequest{
		TasksCompleted: "Worked on the report",
		Reflections:    "Reflections here",
	}

	payload.EventID = 99
	_, err := svc.Create(context.Background(), 10, "Budi", payload, nil)
	require.ErrorIs(t, err, ErrEventNotFound)

	payload.EventID = closed.ID
	_, err = svc.Create(context.Background(), 10, "Budi", payload, nil)
	require.ErrorIs(t, err, ErrEventNotActive)

	payload.EventID = overdue.ID
	_, err = svc.Create(context.Background(), 10, "Budi", payload, nil)
	require.ErrorIs(t, err, ErrDueDatePassed)

	payload.EventID = foreign.ID
	_, err = svc.Create(context.Background(), 10, "Budi", payload, nil)
	require.ErrorIs(t, err, ErrSupervisorMismatch)

	// Student with no approved internship at all.
	payload.EventID = foreign.ID
	_, err = svc.Create(context.Background(), 20, "Citra", payload, nil)
	require.ErrorIs(t, err, ErrSupervisorMismatch)
}

func TestSubmissionServiceCreateRejectsWhitespaceOnly(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	_, err := svc.Create(context.Background(), 10, "Budi", dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "   ",
		Reflections:    "Fine",
	}, nil)
	require.Error(t, err)
}

func TestSubmissionServiceCreateAttachmentLimit(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	files := []*multipart.FileHeader{
		newTestFileHeader(t, "a.txt", []byte("one")),
		newTestFileHeader(t, "b.txt", []byte("two")),
		newTestFileHeader(t, "c.txt", []byte("three")),
	}

	_, err := svc.Create(context.Background(), 10, "Budi", dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "Tasks",
		Reflections:    "Reflections",
	}, files)
	require.ErrorIs(t, err, ErrTooManyAttachments)
	require.Equal(t, 0, f.uploader.uploads)
}

func TestSubmissionServiceReviewDefaultsToReviewed(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	created, err := svc.Create(context.Background(), 10, "Budi", dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "Tasks",
		Reflections:    "Reflections",
	}, nil)
	require.NoError(t, err)
	f.notifier.calls = nil

	rating := 4
	result, err := svc.Review(context.Background(), 1, created.ID, dto.SubmissionReviewRequest{
		Feedback: "<script>alert(1)</script>Solid work this week",
		Rating:   &rating,
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusReviewed, result.Status)
	require.Equal(t, "Solid work this week", result.Feedback)
	require.Equal(t, 4, *result.Rating)
	require.NotNil(t, result.ReviewedAt)
	require.Equal(t, uint(1), *result.ReviewedBy)

	require.Len(t, f.notifier.calls, 1)
	require.Equal(t, uint(10), f.notifier.calls[0].recipientID)
	require.Equal(t, models.NotificationTypeReportReviewed, f.notifier.calls[0].kind)
}

func TestSubmissionServiceReviewRequiresRevision(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	created, err := svc.Create(context.Background(), 10, "Budi", dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "Tasks",
		Reflections:    "Reflections",
	}, nil)
	require.NoError(t, err)

	result, err := svc.Review(context.Background(), 1, created.ID, dto.SubmissionReviewRequest{
		Feedback: "Please expand the reflections section",
		Status:   models.SubmissionStatusRequiresRevision,
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusRequiresRevision, result.Status)
}

func TestSubmissionServiceReviewAuthorization(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	created, err := svc.Create(context.Background(), 10, "Budi", dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "Tasks",
		Reflections:    "Reflections",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), 2, created.ID, dto.SubmissionReviewRequest{Feedback: "Not mine"})
	require.ErrorIs(t, err, ErrNotSubmissionOwner)

	// The rejected attempt must not touch the stored submission.
	stored, err := f.submissions.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, stored.Status)
	require.Empty(t, stored.Feedback)
	require.Nil(t, stored.Rating)
	require.Nil(t, stored.ReviewedBy)
	require.Nil(t, stored.ReviewedAt)

	_, err = svc.Review(context.Background(), 1, 99, dto.SubmissionReviewRequest{Feedback: "Missing"})
	require.ErrorIs(t, err, ErrSubmissionNotFound)

	rating := 9
	_, err = svc.Review(context.Background(), 1, created.ID, dto.SubmissionReviewRequest{Feedback: "Too high", Rating: &rating})
	require.Error(t, err)
}

func TestSubmissionServiceGetRestrictedToParticipants(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	created, err := svc.Create(context.Background(), 10, "Budi", dto.SubmissionCreateRequest{
		EventID:        event.ID,
		TasksCompleted: "Tasks",
		Reflections:    "Reflections",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 10, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 1, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 42, created.ID)
	require.ErrorIs(t, err, ErrNotSubmissionOwner)
}

func TestSubmissionServiceListForSupervisorFilter(t *testing.T) {
	f, svc := newFixture()
	f.approve(10, 1)
	f.approve(11, 1)
	event := f.seedEvent(t, models.ReportEvent{
		SupervisorID: 1, WeekNumber: 2, Title: "Week 2",
		Status: models.EventStatusActive, DueDate: time.Now().Add(24 * time.Hour),
	})

	for _, student := range []struct {
		id   uint
		name string
	}{{10, "Budi"}, {11, "Citra"}} {
		_, err := svc.Create(context.Background(), student.id, student.name, dto.SubmissionCreateRequest{
			EventID:        event.ID,
			TasksCompleted: "Tasks",
			Reflections:    "Reflections",
		}, nil)
		require.NoError(t, err)
	}

	all, err := svc.ListForSupervisor(context.Background(), 1, dto.SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	studentID := uint(11)
	filtered, err := svc.ListForSupervisor(context.Background(), 1, dto.SubmissionFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Citra", filtered[0].StudentName)
}
