package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/Rayyan1704/StudyMate/internal/studymate/biz"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// DocumentHandler handles document upload and status requests.
type DocumentHandler struct {
	engine *biz.Engine
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(engine *biz.Engine) *DocumentHandler {
	return &DocumentHandler{engine: engine}
}

// Upload accepts a multipart file upload for background ingestion and
// acks immediately with the pending document.
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(c, errors.ErrIngestFailed.WithCause(err))
		return
	}

	doc, err := h.engine.SubmitDocument(c.Request.Context(), c.Param("id"), fileHeader.Filename, data)
	if err != nil {
		fail(c, err)
		return
	}
	accepted(c, gin.H{
		"document_id": doc.ID,
		"status":      doc.Status,
	})
}

// List returns a session's documents, failed ones included.
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.engine.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, docs)
}

// Get returns a document with its current ingest status and detail.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.engine.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, doc)
}

// Delete removes a document and its chunks.
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
