package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/internal/pkg/docproc"
	"github.com/Rayyan1704/StudyMate/internal/pkg/textutil"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
	"github.com/Rayyan1704/StudyMate/pkg/id"
)

// SubmitDocument accepts an upload and queues it for background
// ingestion. Format and size are validated before acceptance; the
// returned document is in pending status and its progress is
// observable through GetDocument.
func (e *Engine) SubmitDocument(ctx context.Context, sessionID, filename string, data []byte) (*model.Document, error) {
	session, err := e.factory.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusDeleting {
		return nil, errors.ErrSessionDeleting
	}

	format, err := docFormat(filename)
	if err != nil {
		return nil, err
	}
	if e.config.MaxFileSize > 0 && int64(len(data)) > e.config.MaxFileSize {
		return nil, errors.ErrFileTooLarge.WithMessagef(
			"file is %d bytes, limit is %d", len(data), e.config.MaxFileSize)
	}

	g := e.guards.get(sessionID)
	if err := g.begin(); err != nil {
		return nil, err
	}

	// re-check under the guard: a delete may have run to completion
	// between the first Get and the guard acquisition
	session, err = e.factory.Sessions().Get(ctx, sessionID)
	if err != nil {
		g.end()
		return nil, err
	}
	if session.Status == model.SessionStatusDeleting {
		g.end()
		return nil, errors.ErrSessionDeleting
	}

	doc := &model.Document{
		ID:        id.NewDocumentID(),
		SessionID: sessionID,
		Filename:  filename,
		Format:    format,
		ByteSize:  int64(len(data)),
		Status:    model.DocumentStatusPending,
	}
	if err := e.factory.Documents().Create(ctx, doc); err != nil {
		g.end()
		return nil, err
	}

	if err := e.pool.Submit(func() {
		defer g.end()
		e.ingest(context.Background(), g, doc, data)
	}); err != nil {
		g.end()
		detail := "ingest queue unavailable: " + err.Error()
		_ = e.factory.Documents().UpdateStatus(ctx, doc.ID, model.DocumentStatusFailed, detail)
		return nil, errors.ErrIngestFailed.WithCause(err)
	}

	logger.Infow("document accepted for ingestion",
		"session_id", sessionID,
		"document_id", doc.ID,
		"filename", filename,
		"bytes", len(data),
	)
	return doc, nil
}

func docFormat(filename string) (string, error) {
	f, err := docproc.DetectFormat(filename)
	if err != nil {
		return "", err
	}
	return string(f), nil
}

// ingest runs the pipeline for one document: extract, chunk, embed,
// then commit chunks to the store and the index under the session's
// writer lock. Any failure marks the document failed and rolls back
// partial chunks so no half-committed chunk is ever queryable.
func (e *Engine) ingest(ctx context.Context, g *sessionGuard, doc *model.Document, data []byte) {
	extraction, err := e.processor.Process(data, doc.Filename)
	if err != nil {
		e.failDocument(ctx, doc, err)
		return
	}

	chunks := textutil.ChunkText(extraction.Text, e.config.ChunkSize, e.config.ChunkOverlap)
	if len(chunks) == 0 {
		e.failDocument(ctx, doc, errors.ErrEmptyDocument)
		return
	}

	vectors, err := e.embedChunks(ctx, chunks)
	if err != nil {
		e.failDocument(ctx, doc, err)
		return
	}

	rows := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		rows[i] = &model.Chunk{
			ID:          id.NewChunkID(),
			DocumentID:  doc.ID,
			SessionID:   doc.SessionID,
			Ordinal:     c.Ordinal,
			Content:     c.Content,
			StartOffset: c.Start,
			EndOffset:   c.End,
			Embedding:   model.EncodeEmbedding(vectors[i]),
		}
	}

	g.writer.Lock()
	err = e.commit(ctx, doc, extraction.Pages, len(extraction.Text), rows, vectors)
	g.writer.Unlock()
	if err != nil {
		e.failDocument(ctx, doc, err)
		return
	}

	e.cache.InvalidateSession(ctx, doc.SessionID)
	logger.Infow("document processed",
		"session_id", doc.SessionID,
		"document_id", doc.ID,
		"chunks", len(rows),
		"pages", extraction.Pages,
	)
}

// embedChunks embeds chunk contents in batches. The provider handles
// per-call timeout and retry; an error here means retries were
// exhausted.
func (e *Engine) embedChunks(ctx context.Context, chunks []textutil.TextChunk) ([][]float32, error) {
	batchSize := e.config.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	vectors := make([][]float32, 0, len(chunks))
	for lo := 0; lo < len(chunks); lo += batchSize {
		hi := lo + batchSize
		if hi > len(chunks) {
			hi = len(chunks)
		}
		texts := make([]string, hi-lo)
		for i := lo; i < hi; i++ {
			texts[i-lo] = chunks[i].Content
		}
		batch, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// commit writes chunk rows to the store, inserts their vectors into
// the session index, and flips the document to processed. Store rows
// land first so the index never references an unknown chunk; each
// index insert is atomic, so queries running concurrently see any
// prefix of the document's chunks, never a half-inserted one.
func (e *Engine) commit(ctx context.Context, doc *model.Document, pages, textLen int, rows []*model.Chunk, vectors [][]float32) error {
	if err := e.factory.Chunks().CreateBatch(ctx, rows); err != nil {
		return err
	}

	ix := e.indexes.GetOrCreate(doc.SessionID)
	for i, row := range rows {
		if err := ix.Insert(row.ID, doc.ID, row.Ordinal, vectors[i]); err != nil {
			e.rollback(ctx, doc)
			return err
		}
	}

	doc.Status = model.DocumentStatusProcessed
	doc.ErrorDetail = ""
	doc.PageCount = pages
	doc.TextLength = textLen
	doc.ChunkCount = len(rows)
	if err := e.factory.Documents().Update(ctx, doc); err != nil {
		e.rollback(ctx, doc)
		return err
	}
	return nil
}

// rollback removes a document's partial chunks from the index and the
// store after a failed commit.
func (e *Engine) rollback(ctx context.Context, doc *model.Document) {
	if ix := e.indexes.Get(doc.SessionID); ix != nil {
		ix.DeleteByDocument(doc.ID)
	}
	if err := e.factory.Chunks().DeleteByDocument(ctx, doc.ID); err != nil {
		logger.Errorw("failed to roll back chunks",
			"document_id", doc.ID, "error", err.Error())
	}
}

// failDocument marks a document failed with a human-readable detail.
func (e *Engine) failDocument(ctx context.Context, doc *model.Document, cause error) {
	detail := errors.FromError(cause).Message
	if c := errors.FromError(cause).Unwrap(); c != nil {
		detail = detail + ": " + c.Error()
	}
	if err := e.factory.Documents().UpdateStatus(ctx, doc.ID, model.DocumentStatusFailed, detail); err != nil {
		logger.Errorw("failed to mark document failed",
			"document_id", doc.ID, "error", err.Error())
	}
	logger.Warnw("document ingestion failed",
		"session_id", doc.SessionID,
		"document_id", doc.ID,
		"filename", doc.Filename,
		"detail", detail,
	)
}

// GetDocument returns a document with its current ingest status.
func (e *Engine) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	return e.factory.Documents().Get(ctx, documentID)
}

// ListDocuments lists a session's documents, failed ones included.
func (e *Engine) ListDocuments(ctx context.Context, sessionID string) ([]*model.Document, error) {
	if _, err := e.factory.Sessions().Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return e.factory.Documents().ListBySession(ctx, sessionID)
}

// DeleteDocument removes a document, its chunks, and its index
// entries, then invalidates the session's retrieval cache.
// Idempotent once the document row is gone.
func (e *Engine) DeleteDocument(ctx context.Context, documentID string) error {
	doc, err := e.factory.Documents().Get(ctx, documentID)
	if err != nil {
		return err
	}

	g := e.guards.get(doc.SessionID)
	g.writer.Lock()
	defer g.writer.Unlock()

	if ix := e.indexes.Get(doc.SessionID); ix != nil {
		ix.DeleteByDocument(documentID)
	}
	if err := e.factory.Chunks().DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := e.factory.Documents().Delete(ctx, documentID); err != nil {
		return err
	}

	e.cache.InvalidateSession(ctx, doc.SessionID)
	logger.Infow("document deleted", "session_id", doc.SessionID, "document_id", documentID)
	return nil
}
