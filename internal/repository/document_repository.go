package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docutrack/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version ASC")
	}).First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document by id failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) List() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version ASC")
	}).Order("created_at ASC").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// Update persists the document's own columns; version rows are only ever
// written through AppendVersion.
func (r *DocumentRepository) Update(doc *model.Document) error {
	if err := r.db.Omit(clause.Associations).Save(doc).Error; err != nil {
		return fmt.Errorf("update document failed: %w", err)
	}
	return nil
}

// AppendVersion writes the document columns and the new version row in one
// transaction. Either both land or neither does, so a failure cannot leave
// an orphan version row behind a stale currentVersion.
func (r *DocumentRepository) AppendVersion(doc *model.Document, version *model.DocumentVersion) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(doc).Error; err != nil {
			return err
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return fmt.Errorf("append document version failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(id string) error {
	if err := r.db.Where("document_id = ?", id).Delete(&model.DocumentVersion{}).Error; err != nil {
		return fmt.Errorf("delete document versions failed: %w", err)
	}
	if err := r.db.Delete(&model.Document{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}
