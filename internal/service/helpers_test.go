package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/models"
	"github.com/internlink/internlink-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryEventRepo struct {
	events map[uint]models.ReportEvent
	nextID uint
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: make(map[uint]models.ReportEvent), nextID: 1}
}

func (m *memoryEventRepo) Create(ctx context.Context, event *models.ReportEvent) error {
	for _, existing := range m.events {
		if existing.SupervisorID == event.SupervisorID && existing.WeekNumber == event.WeekNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	event.ID = m.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	m.events[m.nextID] = *event
	m.nextID++
	return nil
}

func (m *memoryEventRepo) GetByID(ctx context.Context, id uint) (models.ReportEvent, error) {
	event, ok := m.events[id]
	if !ok {
		return models.ReportEvent{}, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (m *memoryEventRepo) GetBySupervisorAndWeek(ctx context.Context, supervisorID uint, weekNumber int) (models.ReportEvent, error) {
	for _, event := range m.events {
		if event.SupervisorID == supervisorID && event.WeekNumber == weekNumber {
			return event, nil
		}
	}
	return models.ReportEvent{}, gorm.ErrRecordNotFound
}

func (m *memoryEventRepo) ListActiveBySupervisor(ctx context.Context, supervisorID uint) ([]models.ReportEvent, error) {
	results := make([]models.ReportEvent, 0, len(m.events))
	for _, event := range m.events {
		if event.SupervisorID == supervisorID && event.Status == models.EventStatusActive {
			results = append(results, event)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].WeekNumber < results[j].WeekNumber })
	return results, nil
}

func (m *memoryEventRepo) ListBySupervisor(ctx context.Context, supervisorID uint) ([]models.ReportEvent, error) {
	results := make([]models.ReportEvent, 0, len(m.events))
	for _, event := range m.events {
		if event.SupervisorID == supervisorID {
			results = append(results, event)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].WeekNumber < results[j].WeekNumber })
	return results, nil
}

func (m *memoryEventRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	event, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	event.Status = status
	event.UpdatedAt = time.Now()
	m.events[id] = event
	return nil
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: make(map[uint]models.Submission), nextID: 1}
}

func (m *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	for _, existing := range m.submissions {
		if existing.StudentID == submission.StudentID && existing.EventID == submission.EventID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = m.nextID
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) GetByStudentAndEvent(ctx context.Context, studentID, eventID uint) (models.Submission, error) {
	for _, submission := range m.submissions {
		if submission.StudentID == studentID && submission.EventID == eventID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) ListBySupervisor(ctx context.Context, supervisorID uint, filter repository.SubmissionFilter) ([]models.Submission, error) {
	results := make([]models.Submission, 0, len(m.submissions))
	for _, submission := range m.submissions {
		if submission.SupervisorID != supervisorID {
			continue
		}
		if filter.EventID != nil && submission.EventID != *filter.EventID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		results = append(results, submission)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	results := make([]models.Submission, 0, len(m.submissions))
	for _, submission := range m.submissions {
		if submission.StudentID == studentID {
			results = append(results, submission)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) UpdateReview(ctx context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	submission.UpdatedAt = time.Now()
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) CountByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	for _, submission := range m.submissions {
		counts[submission.EventID]++
	}
	return counts, nil
}

type memoryInternshipRepo struct {
	internships []models.Internship
}

func (m *memoryInternshipRepo) GetApprovedByStudent(ctx context.Context, studentID uint) (models.Internship, error) {
	for _, internship := range m.internships {
		if internship.StudentID == studentID && internship.IsApproved() {
			return internship, nil
		}
	}
	return models.Internship{}, gorm.ErrRecordNotFound
}

func (m *memoryInternshipRepo) ListApprovedBySupervisor(ctx context.Context, supervisorID uint) ([]models.Internship, error) {
	results := make([]models.Internship, 0, len(m.internships))
	for _, internship := range m.internships {
		if internship.SupervisorID == supervisorID && internship.IsApproved() {
			results = append(results, internship)
		}
	}
	return results, nil
}

type memoryEventNotificationRepo struct {
	entries []models.EventNotification
}

func (m *memoryEventNotificationRepo) Record(ctx context.Context, entry *models.EventNotification) error {
	for _, existing := range m.entries {
		if existing.EventID == entry.EventID && existing.StudentID == entry.StudentID {
			return nil
		}
	}
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryEventNotificationRepo) ListByEvent(ctx context.Context, eventID uint) ([]models.EventNotification, error) {
	results := make([]models.EventNotification, 0, len(m.entries))
	for _, entry := range m.entries {
		if entry.EventID == eventID {
			results = append(results, entry)
		}
	}
	return results, nil
}

type notifierCall struct {
	recipientID uint
	kind        string
	title       string
	message     string
	actionRef   string
}

type recordingNotifier struct {
	calls []notifierCall
}

func (r *recordingNotifier) Notify(_ context.Context, recipientID uint, kind, title, message, actionRef string) {
	r.calls = append(r.calls, notifierCall{
		recipientID: recipientID,
		kind:        kind,
		title:       title,
		message:     message,
		actionRef:   actionRef,
	})
}

type stubUploader struct {
	uploads int
}

func (s *stubUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	s.uploads++
	return "https://example.com/" + name, nil
}

func newTestFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("attachments", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(len(content))+1024))
	files := req.MultipartForm.File["attachments"]
	require.Len(t, files, 1)
	return files[0]
}
