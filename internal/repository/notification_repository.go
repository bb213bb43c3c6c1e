package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"docutrack/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	if err := r.db.Create(n).Error; err != nil {
		return fmt.Errorf("create notification failed: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(toUser string) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := r.db.Where("to_user = ?", toUser).Order("timestamp DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications failed: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) GetByID(id uint) (*model.Notification, error) {
	var n model.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query notification by id failed: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) MarkRead(id uint) error {
	if err := r.db.Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("mark notification read failed: %w", err)
	}
	return nil
}

func (r *NotificationRepository) UnreadCount(toUser string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Notification{}).Where("to_user = ? AND is_read = ?", toUser, false).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count unread notifications failed: %w", err)
	}
	return count, nil
}

// HasReminderSince reports whether a deadline reminder for the document was
// already stored after the given time. Keeps the reminder job to one
// notification per document per day.
func (r *NotificationRepository) HasReminderSince(documentID string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("document_id = ? AND type = ? AND timestamp >= ?", documentID, model.NotifyDeadlineReminder, since).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query reminder notifications failed: %w", err)
	}
	return count > 0, nil
}
