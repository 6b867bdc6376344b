package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
	"github.com/Rayyan1704/StudyMate/pkg/id"
)

// CreateSession creates a study session for a user.
func (e *Engine) CreateSession(ctx context.Context, userID, title string) (*model.Session, error) {
	if userID == "" {
		return nil, errors.ErrInvalidParam.WithMessage("user_id is required")
	}

	session := &model.Session{
		ID:     id.NewSessionID(),
		UserID: userID,
		Title:  title,
		Status: model.SessionStatusActive,
	}
	if err := e.factory.Sessions().Create(ctx, session); err != nil {
		return nil, err
	}

	logger.Infow("session created", "session_id", session.ID, "user_id", userID)
	return session, nil
}

// GetSession returns a session by ID.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	return e.factory.Sessions().Get(ctx, sessionID)
}

// ListSessions lists a user's sessions.
func (e *Engine) ListSessions(ctx context.Context, userID string, offset, limit int) (int64, []*model.Session, error) {
	return e.factory.Sessions().List(ctx, userID, offset, limit)
}

// DeleteSession tears down a session: it blocks new uploads, waits
// for in-flight ingestion, then cascades chunks, documents, the
// session row, the vector index, and the retrieval cache, in that
// order. Every step is idempotent, so an interrupted delete can be
// rerun safely; deleting an absent session is a no-op.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := e.factory.Sessions().Get(ctx, sessionID)
	if err != nil {
		if errors.IsCode(err, errors.ErrSessionNotFound.Code) {
			return nil
		}
		return err
	}

	// Marking first makes the delete resumable: a crash after this
	// point leaves the session in deleting status, and the startup
	// sweep finishes the cascade.
	if session.Status != model.SessionStatusDeleting {
		if err := e.factory.Sessions().UpdateStatus(ctx, sessionID, model.SessionStatusDeleting); err != nil {
			return err
		}
	}

	g := e.guards.get(sessionID)
	g.beginDelete()

	if err := e.cascade(ctx, sessionID); err != nil {
		return err
	}

	e.guards.drop(sessionID)
	logger.Infow("session deleted", "session_id", sessionID)
	return nil
}

// cascade removes a session's rows, index, and cache entries. Chunks
// go before documents and documents before the session row, so a
// crash at any point leaves only sweepable leftovers, never a chunk
// pointing at a live index.
func (e *Engine) cascade(ctx context.Context, sessionID string) error {
	if err := e.factory.Chunks().DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := e.factory.Documents().DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := e.factory.Sessions().Delete(ctx, sessionID); err != nil {
		return err
	}
	e.indexes.Drop(sessionID)
	e.cache.InvalidateSession(ctx, sessionID)
	return nil
}

// sweepOrphans resumes delete cascades interrupted by a crash.
func (e *Engine) sweepOrphans(ctx context.Context) error {
	stuck, err := e.factory.Sessions().ListByStatus(ctx, model.SessionStatusDeleting)
	if err != nil {
		return err
	}
	for _, s := range stuck {
		logger.Warnw("resuming interrupted session delete", "session_id", s.ID)
		if err := e.cascade(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// failInterrupted fails documents stranded in pending by a crash or a
// lost pool task, so no document stays pending across a restart. Any
// chunks from a partially committed batch are rolled back, and
// documents whose session row is gone are removed outright.
func (e *Engine) failInterrupted(ctx context.Context) error {
	stale, err := e.factory.Documents().ListByStatus(ctx, model.DocumentStatusPending)
	if err != nil {
		return err
	}
	for _, doc := range stale {
		if err := e.factory.Chunks().DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}

		if _, err := e.factory.Sessions().Get(ctx, doc.SessionID); err != nil {
			if !errors.IsCode(err, errors.ErrSessionNotFound.Code) {
				return err
			}
			logger.Warnw("removing document orphaned by session delete",
				"session_id", doc.SessionID, "document_id", doc.ID)
			if err := e.factory.Documents().Delete(ctx, doc.ID); err != nil {
				return err
			}
			continue
		}

		logger.Warnw("failing document interrupted by restart",
			"session_id", doc.SessionID, "document_id", doc.ID, "filename", doc.Filename)
		if err := e.factory.Documents().UpdateStatus(ctx, doc.ID,
			model.DocumentStatusFailed, "ingestion interrupted by restart"); err != nil {
			return err
		}
	}
	return nil
}

// rebuildIndexes reloads every active session's index from the
// persisted chunk embeddings. Documents whose embeddings cannot be
// decoded are downgraded to failed rather than silently missing from
// retrieval.
func (e *Engine) rebuildIndexes(ctx context.Context) error {
	sessions, err := e.factory.Sessions().ListByStatus(ctx, model.SessionStatusActive)
	if err != nil {
		return err
	}

	for _, s := range sessions {
		chunks, err := e.factory.Chunks().ListBySession(ctx, s.ID)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			continue
		}

		ix := e.indexes.GetOrCreate(s.ID)
		bad := make(map[string]bool)
		loaded := 0
		for _, c := range chunks {
			if bad[c.DocumentID] {
				continue
			}
			vec := model.DecodeEmbedding(c.Embedding)
			if err := ix.Insert(c.ID, c.DocumentID, c.Ordinal, vec); err != nil {
				bad[c.DocumentID] = true
				continue
			}
			loaded++
		}

		for docID := range bad {
			ix.DeleteByDocument(docID)
			if err := e.factory.Chunks().DeleteByDocument(ctx, docID); err != nil {
				return err
			}
			if err := e.factory.Documents().UpdateStatus(ctx, docID,
				model.DocumentStatusFailed, "embedding data unavailable after restart"); err != nil {
				return err
			}
			logger.Warnw("document downgraded during index rebuild",
				"session_id", s.ID, "document_id", docID)
		}

		logger.Infow("session index rebuilt",
			"session_id", s.ID, "vectors", loaded, "dropped_documents", len(bad))
	}
	return nil
}

// BuildContext is the query entry point: it routes the mode, runs
// retrieval (cached when possible), and assembles the token-bounded
// prompt payload for the external LLM client.
func (e *Engine) BuildContext(ctx context.Context, sessionID, message, mode string, history []model.Turn) (*model.ContextPayload, error) {
	if message == "" {
		return nil, errors.ErrInvalidParam.WithMessage("message is required")
	}
	if _, err := e.factory.Sessions().Get(ctx, sessionID); err != nil {
		return nil, err
	}

	profile := RouteOrChat(mode)

	retrieval := e.cache.Get(ctx, sessionID, profile.Name, message)
	if retrieval == nil {
		var err error
		retrieval, err = e.retriever.Retrieve(ctx, sessionID, message, profile)
		if err != nil {
			return nil, err
		}
		e.cache.Set(ctx, sessionID, retrieval)
	}

	return e.assembler.Assemble(profile, retrieval, history, message)
}

// SessionStats summarizes a session's corpus and index state.
func (e *Engine) SessionStats(ctx context.Context, sessionID string) (*model.SessionStats, error) {
	if _, err := e.factory.Sessions().Get(ctx, sessionID); err != nil {
		return nil, err
	}

	total, processed, failed, err := e.factory.Documents().CountBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	chunkCount, err := e.factory.Chunks().CountBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var textLen int64
	docs, err := e.factory.Documents().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		textLen += int64(d.TextLength)
	}

	vectors := 0
	if ix := e.indexes.Get(sessionID); ix != nil {
		vectors = ix.Len()
	}

	return &model.SessionStats{
		SessionID:        sessionID,
		DocumentCount:    total,
		ProcessedCount:   processed,
		FailedCount:      failed,
		ChunkCount:       chunkCount,
		TotalTextLength:  textLen,
		IndexVectors:     vectors,
		EmbeddingVersion: e.EmbeddingVersion(),
	}, nil
}
