package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/internlink/internlink-api/internal/dto"
	"github.com/internlink/internlink-api/internal/models"
)

type memoryNotificationRepo struct {
	notifications map[uint]models.Notification
	nextID        uint
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{notifications: make(map[uint]models.Notification), nextID: 1}
}

func (m *memoryNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = m.nextID
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()
	m.notifications[m.nextID] = *notification
	m.nextID++
	return nil
}

func (m *memoryNotificationRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	results := make([]models.Notification, 0, len(m.notifications))
	for _, notification := range m.notifications {
		if notification.UserID == userID {
			results = append(results, notification)
		}
	}
	return results, nil
}

func (m *memoryNotificationRepo) MarkRead(ctx context.Context, id, userID uint) (models.Notification, error) {
	notification, ok := m.notifications[id]
	if !ok || notification.UserID != userID {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	notification.Read = true
	m.notifications[id] = notification
	return notification, nil
}

func (m *memoryNotificationRepo) FindByID(ctx context.Context, id uint) (models.Notification, error) {
	notification, ok := m.notifications[id]
	if !ok {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	return notification, nil
}

func newTestNotificationService(repo *memoryNotificationRepo) NotificationService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewNotificationService(repo, nil, "", nil, validate, testLogger())
}

func TestNotificationServicePublishPersistsAndBroadcasts(t *testing.T) {
	repo := newMemoryNotificationRepo()
	svc := newTestNotificationService(repo)

	stream, cleanup := svc.Subscribe(10)
	defer cleanup()

	result, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  10,
		Type:    models.NotificationTypeReportRequested,
		Title:   "Week 2 report requested",
		Message: "Your supervisor requested a progress report.",
	})
	require.NoError(t, err)
	require.NotZero(t, result.ID)
	require.False(t, result.Read)

	stored, err := repo.FindByID(context.Background(), result.ID)
	require.NoError(t, err)
	require.Equal(t, uint(10), stored.UserID)

	select {
	case delivered := <-stream:
		require.Equal(t, result.ID, delivered.ID)
		require.Equal(t, models.NotificationTypeReportRequested, delivered.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a streamed notification")
	}
}

func TestNotificationServicePublishSanitizesMarkup(t *testing.T) {
	repo := newMemoryNotificationRepo()
	svc := newTestNotificationService(repo)

	result, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  10,
		Type:    models.NotificationTypeReportReviewed,
		Message: "<b>Reviewed</b> with comments",
	})
	require.NoError(t, err)
	require.Equal(t, "Reviewed with comments", result.Message)

	_, err = svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  10,
		Type:    models.NotificationTypeReportReviewed,
		Message: "<script>alert(1)</script>",
	})
	require.Error(t, err)
}

func TestNotificationServicePublishRequiresRecipient(t *testing.T) {
	svc := newTestNotificationService(newMemoryNotificationRepo())

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		Type:    models.NotificationTypeReportSubmitted,
		Message: "Missing recipient",
	})
	require.Error(t, err)
}

func TestNotificationServiceNotifySwallowsFailures(t *testing.T) {
	repo := newMemoryNotificationRepo()
	svc := newTestNotificationService(repo)

	// Empty message fails validation inside Publish; Notify must not panic
	// and must not persist anything.
	svc.Notify(context.Background(), 10, models.NotificationTypeReportSubmitted, "title", "", "")
	require.Empty(t, repo.notifications)
}

func TestNotificationServiceSubscribeIsolatesUsers(t *testing.T) {
	svc := newTestNotificationService(newMemoryNotificationRepo())

	streamA, cleanupA := svc.Subscribe(10)
	defer cleanupA()
	streamB, cleanupB := svc.Subscribe(11)
	defer cleanupB()

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  10,
		Type:    models.NotificationTypeReportRequested,
		Message: "Only for student ten",
	})
	require.NoError(t, err)

	select {
	case <-streamA:
	case <-time.After(time.Second):
		t.Fatal("expected a notification for the targeted user")
	}

	select {
	case delivered := <-streamB:
		t.Fatalf("unexpected notification for other user: %+v", delivered)
	default:
	}
}

func TestNotificationServiceMarkRead(t *testing.T) {
	repo := newMemoryNotificationRepo()
	svc := newTestNotificationService(repo)

	created, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  10,
		Type:    models.NotificationTypeReportReviewed,
		Message: "Your report was reviewed",
	})
	require.NoError(t, err)

	result, err := svc.MarkRead(context.Background(), created.ID, 10)
	require.NoError(t, err)
	require.True(t, result.Read)

	_, err = svc.MarkRead(context.Background(), created.ID, 11)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNotificationServiceIgnoresOwnBrokerEvents(t *testing.T) {
	svc := newTestNotificationService(newMemoryNotificationRepo()).(*notificationService)

	stream, cleanup := svc.Subscribe(10)
	defer cleanup()

	own, err := json.Marshal(notificationEvent{
		Source:       svc.nodeID,
		Notification: dto.NotificationResponse{ID: 1, UserID: 10, Type: "generic", Message: "loopback"},
		SentAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
	svc.handleEvent(own)

	select {
	case delivered := <-stream:
		t.Fatalf("own event must be deduplicated, got %+v", delivered)
	default:
	}

	remote, err := json.Marshal(notificationEvent{
		Source:       "another-node",
		Notification: dto.NotificationResponse{ID: 2, UserID: 10, Type: "generic", Message: "cross node"},
		SentAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
	svc.handleEvent(remote)

	select {
	case delivered := <-stream:
		require.Equal(t, uint(2), delivered.ID)
	case <-time.After(time.Second):
		t.Fatal("expected the remote event to reach local subscribers")
	}
}
