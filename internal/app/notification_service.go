package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"docutrack/internal/model"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationStore is the persistence boundary for notifications.
// Satisfied by repository.NotificationRepository and
// repository.MemoryNotificationStore.
type NotificationStore interface {
	Create(n *model.Notification) error
	ListByRecipient(toUser string) ([]model.Notification, error)
	GetByID(id uint) (*model.Notification, error)
	MarkRead(id uint) error
	UnreadCount(toUser string) (int64, error)
	HasReminderSince(documentID string, since time.Time) (bool, error)
}

// EventPublisher hands a notification off to the queue; the persist worker
// stores it. When absent, Send falls back to writing the store directly.
type EventPublisher interface {
	Publish(ctx context.Context, n model.Notification) error
}

type NotificationService struct {
	store     NotificationStore
	publisher EventPublisher
}

func NewNotificationService(store NotificationStore, publisher EventPublisher) *NotificationService {
	return &NotificationService{store: store, publisher: publisher}
}

// Send stamps and delivers a notification. Satisfies the document service's
// Notifier interface.
func (s *NotificationService) Send(ctx context.Context, n model.Notification) error {
	if n.Type == "" || n.ToUser == "" {
		return ErrInvalidInput
	}
	n.ID = 0
	n.Timestamp = time.Now()
	n.Read = false

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, n)
		if err == nil {
			return nil
		}
		logrus.Warnf("publish notification failed, persisting directly: %v", err)
	}
	return s.store.Create(&n)
}

func (s *NotificationService) List(userID string) ([]model.Notification, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.store.ListByRecipient(userID)
}

func (s *NotificationService) MarkRead(id uint) error {
	n, err := s.store.GetByID(id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	return s.store.MarkRead(id)
}

func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	if userID == "" {
		return 0, ErrInvalidInput
	}
	return s.store.UnreadCount(userID)
}

// SendDeadlineReminder emits the reminder used by the deadline job.
func (s *NotificationService) SendDeadlineReminder(ctx context.Context, documentID, documentName string, deadline time.Time, toUser string) error {
	return s.Send(ctx, model.Notification{
		Type:         model.NotifyDeadlineReminder,
		Title:        "Document Deadline Approaching",
		Message:      fmt.Sprintf("Reminder: %s is due on %s. Please ensure timely completion.", documentName, deadline.Format("2006-01-02")),
		DocumentID:   documentID,
		DocumentName: documentName,
		FromUser:     systemSender,
		ToUser:       toUser,
	})
}

// ReminderSentSince lets the deadline job keep to one reminder per document
// per day.
func (s *NotificationService) ReminderSentSince(documentID string, since time.Time) (bool, error) {
	return s.store.HasReminderSince(documentID, since)
}
