package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docutrack/internal/model"
	"docutrack/internal/pkg/extract"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Counterpart inboxes for workflow notifications. The acting role always
// notifies the opposite side of the staff/director hand-off.
const (
	staffInbox    = "staff@company.com"
	directorInbox = "director@company.com"
	systemSender  = "system@company.com"
)

const defaultDeadlineDays = 7

// DocumentStore is the persistence boundary of the lifecycle manager.
// Satisfied by repository.DocumentRepository (gorm) and
// repository.MemoryDocumentStore.
type DocumentStore interface {
	Create(doc *model.Document) error
	GetByID(id string) (*model.Document, error)
	List() ([]model.Document, error)
	Update(doc *model.Document) error
	AppendVersion(doc *model.Document, version *model.DocumentVersion) error
	Delete(id string) error
}

// DocumentCache fronts reads of single documents; mutations invalidate.
type DocumentCache interface {
	Get(ctx context.Context, id string) (*model.Document, bool, error)
	Set(ctx context.Context, doc *model.Document) error
	Invalidate(ctx context.Context, id string) error
}

// Notifier delivers workflow notifications. Delivery is best effort: a
// failed send never fails the document mutation that triggered it.
type Notifier interface {
	Send(ctx context.Context, n model.Notification) error
}

// DocumentService owns the document lifecycle: status-transition legality,
// version-append integrity, and all reads/writes of documents.
type DocumentService struct {
	store    DocumentStore
	cache    DocumentCache
	notifier Notifier
}

func NewDocumentService(store DocumentStore, cache DocumentCache, notifier Notifier) *DocumentService {
	return &DocumentService{
		store:    store,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *DocumentService) Load(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if s.cache != nil {
		if doc, ok, err := s.cache.Get(ctx, id); err == nil && ok {
			return doc, nil
		}
	}
	doc, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, doc); err != nil {
			logrus.Warnf("cache document %s failed: %v", id, err)
		}
	}
	return doc, nil
}

// SaveInput carries a partial update; nil fields are left untouched.
type SaveInput struct {
	ID       string
	Name     *string
	Content  *string
	Status   *model.Status
	Priority *model.Priority
	Actor    string
}

// Save overwrites fields of an existing document and refreshes lastModified.
// Status changes must follow the transition table; anything else returns
// ErrIllegalTransition. Writes are last-write-wins: there is no concurrency
// token.
func (s *DocumentService) Save(ctx context.Context, input SaveInput) (*model.Document, error) {
	if input.ID == "" {
		return nil, ErrInvalidInput
	}
	doc, err := s.store.GetByID(input.ID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	oldStatus := doc.Status
	if input.Status != nil && *input.Status != doc.Status {
		next := *input.Status
		if !next.Valid() {
			return nil, ErrInvalidInput
		}
		if !doc.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, doc.Status, next)
		}
		doc.Status = next
	}
	if input.Name != nil && *input.Name != "" {
		doc.Name = *input.Name
	}
	if input.Content != nil {
		doc.Content = *input.Content
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidInput
		}
		doc.Priority = *input.Priority
	}
	doc.LastModified = time.Now()

	if err := s.store.Update(doc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, doc.ID)
	s.notifyStatusChange(ctx, doc, oldStatus, input.Actor)
	return doc, nil
}

// CreateVersion appends an immutable snapshot with version currentVersion+1
// and moves the document to in-progress. It is also the sanctioned way to
// reopen a completed document. The version row and the document columns are
// written as one atomic store operation, so a failed append leaves the
// document exactly as it was.
func (s *DocumentService) CreateVersion(ctx context.Context, id, content, modifiedBy, notes string) (*model.Document, error) {
	if id == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	doc, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	now := time.Now()
	version := model.DocumentVersion{
		DocumentID:   doc.ID,
		Version:      doc.CurrentVersion + 1,
		Content:      content,
		ModifiedBy:   modifiedBy,
		ModifiedDate: now,
		Notes:        notes,
	}
	doc.Versions = append(doc.Versions, version)
	doc.CurrentVersion = version.Version
	doc.Content = content
	doc.Status = model.StatusInProgress
	doc.LastModified = now
	if err := s.store.AppendVersion(doc, &version); err != nil {
		return nil, err
	}
	s.invalidate(ctx, doc.ID)
	s.notify(ctx, model.Notification{
		Type:         model.NotifyDocumentEdited,
		Title:        "Document Edited",
		Message:      fmt.Sprintf("%s has been edited. A new version is available.", doc.Name),
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		FromUser:     modifiedBy,
		ToUser:       directorInbox,
	})
	return doc, nil
}

type UploadInput struct {
	FileName   string
	Data       []byte
	ClientName string
	Department string
	Priority   model.Priority
	Deadline   time.Time
	UploadedBy string
}

// Upload synthesizes a new document: version 1, status assigned, deadline
// defaulted to seven days out when not supplied.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*model.Document, error) {
	if input.FileName == "" {
		return nil, ErrInvalidInput
	}

	docType := model.TypeFromFilename(input.FileName)
	content, err := extract.Text(docType, input.Data)
	if err != nil {
		return nil, fmt.Errorf("extract upload content failed: %w", err)
	}

	now := time.Now()
	deadline := input.Deadline
	if deadline.IsZero() {
		deadline = now.AddDate(0, 0, defaultDeadlineDays)
	} else if deadline.Before(now.Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("%w: deadline before assigned date", ErrInvalidInput)
	}
	priority := input.Priority
	if !priority.Valid() {
		priority = model.PriorityMedium
	}
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		clientName = "Unknown Client"
	}
	department := strings.TrimSpace(input.Department)
	if department == "" {
		department = "General"
	}

	doc := &model.Document{
		ID:           uuid.New().String(),
		Name:         input.FileName,
		Type:         docType,
		Content:      content,
		ClientName:   clientName,
		Department:   department,
		UploadedBy:   input.UploadedBy,
		Status:       model.StatusAssigned,
		Priority:     priority,
		AssignedDate: now,
		Deadline:     deadline,
		Versions: []model.DocumentVersion{
			{
				Version:      1,
				Content:      content,
				ModifiedBy:   input.UploadedBy,
				ModifiedDate: now,
				Notes:        "Initial upload",
			},
		},
		CurrentVersion: 1,
		LastModified:   now,
		CreatedAt:      now,
	}
	if err := s.store.Create(doc); err != nil {
		return nil, err
	}
	s.notify(ctx, model.Notification{
		Type:         model.NotifyDocumentAssigned,
		Title:        "New Document Assigned",
		Message:      fmt.Sprintf("%s has been uploaded and assigned for processing.", doc.Name),
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		FromUser:     input.UploadedBy,
		ToUser:       staffInbox,
	})
	return doc, nil
}

// List returns the entire working set in insertion order. No pagination.
func (s *DocumentService) List(ctx context.Context) ([]model.Document, error) {
	return s.store.List()
}

// Delete removes the document and its version history. Hard delete.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.store.GetByID(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Export renders the current content as plain text wrapped in a
// format-specific preamble. This is not a real PDF/DOCX encoder; the output
// is always text, whatever the requested format.
func (s *DocumentService) Export(ctx context.Context, id, format string) ([]byte, string, error) {
	if format != "pdf" && format != "docx" {
		return nil, "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}
	doc, err := s.Load(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var b strings.Builder
	if format == "pdf" {
		b.WriteString("%PDF-1.4\n1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n\n")
		fmt.Fprintf(&b, "Document: %s\n", doc.Name)
		fmt.Fprintf(&b, "Client: %s\n", doc.ClientName)
		fmt.Fprintf(&b, "Content: %s", doc.Content)
	} else {
		fmt.Fprintf(&b, "Document: %s\n", doc.Name)
		fmt.Fprintf(&b, "Client: %s\n", doc.ClientName)
		fmt.Fprintf(&b, "Department: %s\n\n", doc.Department)
		fmt.Fprintf(&b, "Content:\n%s", doc.Content)
	}

	base := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))
	return []byte(b.String()), base + "." + format, nil
}

func (s *DocumentService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.Warnf("invalidate document cache %s failed: %v", id, err)
	}
}

func (s *DocumentService) notify(ctx context.Context, n model.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		logrus.Warnf("send %s notification for document %s failed: %v", n.Type, n.DocumentID, err)
	}
}

func (s *DocumentService) notifyStatusChange(ctx context.Context, doc *model.Document, oldStatus model.Status, actor string) {
	if doc.Status == oldStatus {
		return
	}
	n := model.Notification{
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		FromUser:     actor,
	}
	switch {
	case doc.Status == model.StatusReview:
		n.Type = model.NotifyDocumentProcessed
		n.Title = "Document Processed"
		n.Message = fmt.Sprintf("%s has been processed and is ready for review.", doc.Name)
		n.ToUser = directorInbox
	case oldStatus == model.StatusReview && doc.Status == model.StatusCompleted:
		n.Type = model.NotifyDocumentApproved
		n.Title = "Document Approved"
		n.Message = fmt.Sprintf("%s has been approved and completed.", doc.Name)
		n.ToUser = staffInbox
	case oldStatus == model.StatusReview && doc.Status == model.StatusInProgress:
		n.Type = model.NotifyDocumentRejected
		n.Title = "Document Rejected"
		n.Message = fmt.Sprintf("%s has been rejected and returned for revision.", doc.Name)
		n.ToUser = staffInbox
	default:
		return
	}
	s.notify(ctx, n)
}
