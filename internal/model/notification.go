package model

import "time"

type NotificationType string

const (
	NotifyDocumentAssigned  NotificationType = "document_assigned"
	NotifyDocumentProcessed NotificationType = "document_processed"
	NotifyDocumentEdited    NotificationType = "document_edited"
	NotifyDocumentApproved  NotificationType = "document_approved"
	NotifyDocumentRejected  NotificationType = "document_rejected"
	NotifyDeadlineReminder  NotificationType = "deadline_reminder"
)

type Notification struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Type         NotificationType `gorm:"size:32;not null" json:"type"`
	Title        string           `gorm:"size:128;not null" json:"title"`
	Message      string           `gorm:"size:512;not null" json:"message"`
	DocumentID   string           `gorm:"size:36;not null;index" json:"document_id"`
	DocumentName string           `gorm:"size:256;not null" json:"document_name"`
	FromUser     string           `gorm:"size:128;not null" json:"from_user"`
	ToUser       string           `gorm:"size:128;not null;index" json:"to_user"`
	Timestamp    time.Time        `json:"timestamp"`
	Read         bool             `gorm:"column:is_read;not null;default:false" json:"read"`
}
