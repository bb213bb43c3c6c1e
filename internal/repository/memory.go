package repository

import (
	"sort"
	"sync"
	"time"

	"docutrack/internal/model"
)

// In-memory stores backing the "memory" storage mode and unit tests. They
// satisfy the same store interfaces as the gorm repositories, so the rest
// of the application cannot tell them apart.

type MemoryDocumentStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]*model.Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]*model.Document)}
}

func cloneDocument(doc *model.Document) *model.Document {
	out := *doc
	out.Versions = make([]model.DocumentVersion, len(doc.Versions))
	copy(out.Versions, doc.Versions)
	return &out
}

func (m *MemoryDocumentStore) Create(doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = cloneDocument(doc)
	m.order = append(m.order, doc.ID)
	return nil
}

func (m *MemoryDocumentStore) GetByID(id string) (*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc), nil
}

func (m *MemoryDocumentStore) List() ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Document, 0, len(m.docs))
	for _, id := range m.order {
		if doc, ok := m.docs[id]; ok {
			out = append(out, *cloneDocument(doc))
		}
	}
	return out, nil
}

func (m *MemoryDocumentStore) Update(doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.docs[doc.ID]
	if !ok {
		return nil
	}
	updated := cloneDocument(doc)
	updated.Versions = stored.Versions
	m.docs[doc.ID] = updated
	return nil
}

// AppendVersion replaces the stored document, versions included, under one
// lock acquisition. The caller's doc already carries the appended version.
func (m *MemoryDocumentStore) AppendVersion(doc *model.Document, version *model.DocumentVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return nil
	}
	m.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (m *MemoryDocumentStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	for i, storedID := range m.order {
		if storedID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]*model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uint]*model.User)}
}

func (m *MemoryUserStore) Create(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MemoryUserStore) GetByEmail(email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryUserStore) GetByID(id uint) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

type MemoryNotificationStore struct {
	mu            sync.RWMutex
	nextID        uint
	notifications map[uint]*model.Notification
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{notifications: make(map[uint]*model.Notification)}
}

func (m *MemoryNotificationStore) Create(n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	n.ID = m.nextID
	stored := *n
	m.notifications[n.ID] = &stored
	return nil
}

func (m *MemoryNotificationStore) ListByRecipient(toUser string) ([]model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Notification
	for _, n := range m.notifications {
		if n.ToUser == toUser {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *MemoryNotificationStore) GetByID(id uint) (*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, nil
	}
	out := *n
	return &out, nil
}

func (m *MemoryNotificationStore) MarkRead(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notifications[id]; ok {
		n.Read = true
	}
	return nil
}

func (m *MemoryNotificationStore) UnreadCount(toUser string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, n := range m.notifications {
		if n.ToUser == toUser && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *MemoryNotificationStore) HasReminderSince(documentID string, since time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.notifications {
		if n.DocumentID == documentID && n.Type == model.NotifyDeadlineReminder && !n.Timestamp.Before(since) {
			return true, nil
		}
	}
	return false, nil
}
