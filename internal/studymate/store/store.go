// Package store defines the persistence layer for StudyMate sessions,
// documents, and chunks.
package store

import (
	"context"

	"github.com/Rayyan1704/StudyMate/internal/model"
)

// Factory is the storage factory. It hands out per-entity stores
// backed by the same database connection.
type Factory interface {
	Sessions() SessionStore
	Documents() DocumentStore
	Chunks() ChunkStore
	Close() error
}

// SessionStore defines session persistence operations.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context, userID string, offset, limit int) (int64, []*model.Session, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	// ListByStatus returns sessions in the given status, used by the
	// startup sweep to resume interrupted deletes.
	ListByStatus(ctx context.Context, status string) ([]*model.Session, error)
}

// DocumentStore defines document persistence operations.
type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	Get(ctx context.Context, id string) (*model.Document, error)
	ListBySession(ctx context.Context, sessionID string) ([]*model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	UpdateStatus(ctx context.Context, id, status, errorDetail string) error
	Delete(ctx context.Context, id string) error
	DeleteBySession(ctx context.Context, sessionID string) error
	CountBySession(ctx context.Context, sessionID string) (total, processed, failed int64, err error)
	// ListByStatus returns documents in the given status across all
	// sessions, used by the startup sweep to fail interrupted ingests.
	ListByStatus(ctx context.Context, status string) ([]*model.Document, error)
}

// ChunkStore defines chunk persistence operations. Chunks are written
// in one batch per document so a document's chunks become visible
// together.
type ChunkStore interface {
	CreateBatch(ctx context.Context, chunks []*model.Chunk) error
	ListByDocument(ctx context.Context, documentID string) ([]*model.Chunk, error)
	ListBySession(ctx context.Context, sessionID string) ([]*model.Chunk, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Chunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	DeleteBySession(ctx context.Context, sessionID string) error
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}
