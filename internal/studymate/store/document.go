package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

type documents struct {
	db *gorm.DB
}

func newDocuments(db *gorm.DB) *documents {
	return &documents{db}
}

// Create creates a new document row.
func (d *documents) Create(ctx context.Context, doc *model.Document) error {
	if err := d.db.WithContext(ctx).Create(doc).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Get retrieves a document by ID.
func (d *documents) Get(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDocumentNotFound.WithCause(err)
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &doc, nil
}

// ListBySession lists a session's documents in upload order.
func (d *documents) ListBySession(ctx context.Context, sessionID string) ([]*model.Document, error) {
	var docs []*model.Document
	if err := d.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&docs).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return docs, nil
}

// Update saves the full document row.
func (d *documents) Update(ctx context.Context, doc *model.Document) error {
	if err := d.db.WithContext(ctx).Save(doc).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// UpdateStatus transitions a document's status, recording the failure
// detail when the ingest pipeline gives up on it.
func (d *documents) UpdateStatus(ctx context.Context, id, status, errorDetail string) error {
	updates := map[string]interface{}{
		"status":       status,
		"error_detail": errorDetail,
	}
	result := d.db.WithContext(ctx).Model(&model.Document{}).
		Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document row. Idempotent.
func (d *documents) Delete(ctx context.Context, id string) error {
	if err := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// DeleteBySession removes all documents of a session.
func (d *documents) DeleteBySession(ctx context.Context, sessionID string) error {
	if err := d.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.Document{}).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// ListByStatus returns documents in the given status across all
// sessions.
func (d *documents) ListByStatus(ctx context.Context, status string) ([]*model.Document, error) {
	var docs []*model.Document
	if err := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&docs).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return docs, nil
}

// CountBySession returns total, processed, and failed document counts
// for a session.
func (d *documents) CountBySession(ctx context.Context, sessionID string) (total, processed, failed int64, err error) {
	base := d.db.WithContext(ctx).Model(&model.Document{}).Where("session_id = ?", sessionID)

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, 0, errors.ErrDatabase.WithCause(err)
	}
	if err = base.Session(&gorm.Session{}).
		Where("status = ?", model.DocumentStatusProcessed).Count(&processed).Error; err != nil {
		return 0, 0, 0, errors.ErrDatabase.WithCause(err)
	}
	if err = base.Session(&gorm.Session{}).
		Where("status = ?", model.DocumentStatusFailed).Count(&failed).Error; err != nil {
		return 0, 0, 0, errors.ErrDatabase.WithCause(err)
	}
	return total, processed, failed, nil
}
