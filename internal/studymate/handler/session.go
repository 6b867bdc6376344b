package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Rayyan1704/StudyMate/internal/studymate/biz"
)

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	engine *biz.Engine
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(engine *biz.Engine) *SessionHandler {
	return &SessionHandler{engine: engine}
}

// CreateSessionRequest is the create session request body.
type CreateSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Title  string `json:"title"`
}

// Create creates a study session.
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.engine.CreateSession(c.Request.Context(), req.UserID, req.Title)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, session)
}

// List lists a user's sessions with pagination.
func (h *SessionHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	offset, limit := pagination(c)

	total, sessions, err := h.engine.ListSessions(c.Request.Context(), userID, offset, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"total":    total,
		"sessions": sessions,
	})
}

// Get returns one session.
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.engine.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, session)
}

// Delete tears down a session and everything it owns. Returns success
// even when the session is already gone.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

// Stats reports a session's corpus and index state.
func (h *SessionHandler) Stats(c *gin.Context) {
	stats, err := h.engine.SessionStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, stats)
}
