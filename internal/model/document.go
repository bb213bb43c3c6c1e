package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Status is the workflow stage of a document. Transitions are enforced by
// CanTransitionTo; the only way to leave StatusCompleted is a new version,
// which reopens the document as in-progress.
type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

// legalTransitions: staff starts, staff marks processed, director approves,
// director rejects (returns for revision).
var legalTransitions = map[Status][]Status{
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusReview},
	StatusReview:     {StatusCompleted, StatusInProgress},
	StatusCompleted:  {},
}

func (s Status) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range legalTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Display maps the workflow stage to the reduced set shown on client
// dashboards (pending/processing/completed).
func (s Status) Display() string {
	switch s {
	case StatusAssigned:
		return "pending"
	case StatusInProgress, StatusReview:
		return "processing"
	case StatusCompleted:
		return "completed"
	}
	return string(s)
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

type DocumentType string

const (
	TypePDF   DocumentType = "pdf"
	TypeDoc   DocumentType = "doc"
	TypeDocx  DocumentType = "docx"
	TypeTxt   DocumentType = "txt"
	TypeOther DocumentType = "other"
)

// TypeFromFilename derives the document type from the file extension.
func TypeFromFilename(name string) DocumentType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "pdf":
		return TypePDF
	case "doc":
		return TypeDoc
	case "docx":
		return TypeDocx
	case "txt":
		return TypeTxt
	}
	return TypeOther
}

type Document struct {
	ID             string            `gorm:"primaryKey;size:36" json:"id"`
	Name           string            `gorm:"size:256;not null" json:"name"`
	Type           DocumentType      `gorm:"size:16;not null" json:"type"`
	Content        string            `gorm:"type:text;not null" json:"content"`
	ClientName     string            `gorm:"size:128;not null" json:"client_name"`
	Department     string            `gorm:"size:128;not null" json:"department"`
	UploadedBy     string            `gorm:"size:128;not null" json:"uploaded_by"`
	Status         Status            `gorm:"size:16;not null;index" json:"status"`
	Priority       Priority          `gorm:"size:8;not null" json:"priority"`
	AssignedDate   time.Time         `json:"assigned_date"`
	Deadline       time.Time         `gorm:"index" json:"deadline"`
	Versions       []DocumentVersion `gorm:"foreignKey:DocumentID" json:"versions"`
	CurrentVersion int               `gorm:"not null" json:"current_version"`
	LastModified   time.Time         `json:"last_modified"`
	CreatedAt      time.Time         `json:"created_at"`
}

// LatestVersion returns the version entry matching CurrentVersion, or nil
// when the document carries no versions (never the case for persisted docs).
func (d *Document) LatestVersion() *DocumentVersion {
	for i := range d.Versions {
		if d.Versions[i].Version == d.CurrentVersion {
			return &d.Versions[i]
		}
	}
	return nil
}

// Overdue reports whether the deadline has passed without completion.
func (d *Document) Overdue(now time.Time) bool {
	return d.Status != StatusCompleted && d.Deadline.Before(now)
}

// DueWithin reports whether the deadline falls inside the next n days and
// the document is still open. Used by the deadline reminder job.
func (d *Document) DueWithin(now time.Time, days int) bool {
	if d.Status == StatusCompleted {
		return false
	}
	if d.Deadline.Before(now) {
		return false
	}
	return !d.Deadline.After(now.AddDate(0, 0, days))
}

// DocumentVersion is an immutable content snapshot. Versions are contiguous
// starting at 1; only the service appends them. The composite unique index
// rejects a duplicate version number even if two appends race.
type DocumentVersion struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	DocumentID   string    `gorm:"size:36;not null;uniqueIndex:idx_document_version" json:"-"`
	Version      int       `gorm:"not null;uniqueIndex:idx_document_version" json:"version"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ModifiedBy   string    `gorm:"size:128;not null" json:"modified_by"`
	ModifiedDate time.Time `json:"modified_date"`
	Notes        string    `gorm:"size:512" json:"notes,omitempty"`
}
