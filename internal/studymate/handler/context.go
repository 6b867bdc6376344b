package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/internal/studymate/biz"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// buildContextTimeout bounds one context build, embedding call included.
const buildContextTimeout = 60 * time.Second

// ContextHandler handles prompt context assembly requests.
type ContextHandler struct {
	engine *biz.Engine
}

// NewContextHandler creates a ContextHandler.
func NewContextHandler(engine *biz.Engine) *ContextHandler {
	return &ContextHandler{engine: engine}
}

// BuildContextRequest is the context build request body.
type BuildContextRequest struct {
	SessionID string       `json:"session_id" binding:"required"`
	Message   string       `json:"message" binding:"required"`
	Mode      string       `json:"mode"`
	History   []model.Turn `json:"history"`
}

// Build assembles the grounded prompt payload for one chat turn.
func (h *ContextHandler) Build(c *gin.Context) {
	var req BuildContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), buildContextTimeout)
	defer cancel()

	payload, err := h.engine.BuildContext(ctx, req.SessionID, req.Message, req.Mode, req.History)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			fail(c, errors.ErrTimeout.WithMessage("context build timed out"))
			return
		}
		fail(c, err)
		return
	}
	ok(c, payload)
}
