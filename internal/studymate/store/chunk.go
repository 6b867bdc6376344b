package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// chunkInsertBatchSize keeps each INSERT under sqlite's variable limit.
const chunkInsertBatchSize = 100

type chunks struct {
	db *gorm.DB
}

func newChunks(db *gorm.DB) *chunks {
	return &chunks{db}
}

// CreateBatch inserts all chunks of a document in a single
// transaction so they become visible together.
func (c *chunks) CreateBatch(ctx context.Context, list []*model.Chunk) error {
	if len(list) == 0 {
		return nil
	}
	if err := c.db.WithContext(ctx).CreateInBatches(list, chunkInsertBatchSize).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// ListByDocument lists a document's chunks in ordinal order.
func (c *chunks) ListByDocument(ctx context.Context, documentID string) ([]*model.Chunk, error) {
	var list []*model.Chunk
	if err := c.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("ordinal ASC").
		Find(&list).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return list, nil
}

// ListBySession lists all chunks of a session grouped by document,
// the order the index rebuild replays them in.
func (c *chunks) ListBySession(ctx context.Context, sessionID string) ([]*model.Chunk, error) {
	var list []*model.Chunk
	if err := c.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("document_id ASC, ordinal ASC").
		Find(&list).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return list, nil
}

// GetByIDs fetches chunks by ID. Missing IDs are skipped, not errors;
// the retriever tolerates chunks deleted between search and fetch.
func (c *chunks) GetByIDs(ctx context.Context, ids []string) ([]*model.Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []*model.Chunk
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return list, nil
}

// DeleteByDocument removes all chunks of a document. Idempotent.
func (c *chunks) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := c.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&model.Chunk{}).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// DeleteBySession removes all chunks of a session. Idempotent.
func (c *chunks) DeleteBySession(ctx context.Context, sessionID string) error {
	if err := c.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.Chunk{}).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// CountBySession returns the number of chunks in a session.
func (c *chunks) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&model.Chunk{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, errors.ErrDatabase.WithCause(err)
	}
	return count, nil
}
