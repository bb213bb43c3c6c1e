package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"docutrack/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.DocumentVersion{},
		&model.Notification{},
	))
	return db
}

func sampleDocument(id string) *model.Document {
	now := time.Now()
	return &model.Document{
		ID:         id,
		Name:       "contract.pdf",
		Type:       model.TypePDF,
		Content:    "body",
		ClientName: "Acme Corp",
		Department: "Legal",
		UploadedBy: "client@acme.com",
		Status:     model.StatusAssigned,
		Priority:   model.PriorityMedium,
		Versions: []model.DocumentVersion{
			{Version: 1, Content: "body", ModifiedBy: "client@acme.com", ModifiedDate: now, Notes: "Initial upload"},
		},
		CurrentVersion: 1,
		AssignedDate:   now,
		Deadline:       now.AddDate(0, 0, 7),
		LastModified:   now,
		CreatedAt:      now,
	}
}

func TestDocumentRepositoryRoundTrip(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	require.NoError(t, repo.Create(sampleDocument("doc-1")))

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "contract.pdf", doc.Name)
	require.Len(t, doc.Versions, 1)
	assert.Equal(t, "doc-1", doc.Versions[0].DocumentID)
}

func TestDocumentRepositoryGetMissing(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	doc, err := repo.GetByID("missing")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDocumentRepositoryAppendVersionOrdering(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))
	require.NoError(t, repo.Create(sampleDocument("doc-1")))

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	version := model.DocumentVersion{
		DocumentID: "doc-1", Version: 2, Content: "revised", ModifiedBy: "staff@company.com", ModifiedDate: time.Now(),
	}
	doc.CurrentVersion = 2
	doc.Content = "revised"
	require.NoError(t, repo.AppendVersion(doc, &version))

	reloaded, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.CurrentVersion)
	require.Len(t, reloaded.Versions, 2)
	assert.Equal(t, 1, reloaded.Versions[0].Version)
	assert.Equal(t, 2, reloaded.Versions[1].Version)
}

func TestDocumentRepositoryAppendVersionRollsBack(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))
	require.NoError(t, repo.Create(sampleDocument("doc-1")))

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)

	// a duplicate version number trips the unique index inside the
	// transaction, so the document columns written first must revert too
	doc.CurrentVersion = 2
	doc.Content = "revised"
	duplicate := model.DocumentVersion{
		DocumentID: "doc-1", Version: 1, Content: "revised", ModifiedBy: "staff@company.com", ModifiedDate: time.Now(),
	}
	require.Error(t, repo.AppendVersion(doc, &duplicate))

	reloaded, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CurrentVersion)
	assert.Equal(t, "body", reloaded.Content)
	assert.Len(t, reloaded.Versions, 1)
}

func TestDocumentRepositoryUpdateLeavesVersionsAlone(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))
	require.NoError(t, repo.Create(sampleDocument("doc-1")))

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)

	doc.Status = model.StatusInProgress
	doc.Versions = nil // must not wipe the stored version rows
	require.NoError(t, repo.Update(doc))

	reloaded, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, reloaded.Status)
	assert.Len(t, reloaded.Versions, 1)
}

func TestDocumentRepositoryDeleteRemovesVersions(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	require.NoError(t, repo.Create(sampleDocument("doc-1")))

	require.NoError(t, repo.Delete("doc-1"))

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Nil(t, doc)

	var count int64
	require.NoError(t, db.Model(&model.DocumentVersion{}).Where("document_id = ?", "doc-1").Count(&count).Error)
	assert.Zero(t, count)
}

func TestDocumentRepositoryListOrder(t *testing.T) {
	repo := NewDocumentRepository(newTestDB(t))

	first := sampleDocument("doc-1")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := sampleDocument("doc-2")
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	docs, err := repo.List()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, "doc-2", docs[1].ID)
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := &model.User{
		Email:        "jane@acme.com",
		PasswordHash: "hash",
		FirstName:    "Jane",
		LastName:     "Doe",
		Role:         model.RoleClient,
	}
	require.NoError(t, repo.Create(user))
	require.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail("jane@acme.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	missing, err := repo.GetByEmail("nobody@acme.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNotificationRepository(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	now := time.Now()

	older := &model.Notification{
		Type: model.NotifyDocumentAssigned, Title: "t", Message: "m",
		DocumentID: "doc-1", DocumentName: "contract.pdf",
		FromUser: "client@acme.com", ToUser: "staff@company.com",
		Timestamp: now.Add(-time.Hour),
	}
	newer := &model.Notification{
		Type: model.NotifyDeadlineReminder, Title: "t", Message: "m",
		DocumentID: "doc-1", DocumentName: "contract.pdf",
		FromUser: "system@company.com", ToUser: "staff@company.com",
		Timestamp: now,
	}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	items, err := repo.ListByRecipient("staff@company.com")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)

	count, err := repo.UnreadCount("staff@company.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkRead(older.ID))
	count, err = repo.UnreadCount("staff@company.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	sent, err := repo.HasReminderSince("doc-1", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = repo.HasReminderSince("doc-1", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = repo.HasReminderSince("doc-2", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, sent)
}
