// Package router wires the StudyMate HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/Rayyan1704/StudyMate/internal/pkg/middleware"
	"github.com/Rayyan1704/StudyMate/internal/studymate/handler"
)

// Handlers bundles the route handlers.
type Handlers struct {
	Session  *handler.SessionHandler
	Document *handler.DocumentHandler
	Context  *handler.ContextHandler
	Health   *handler.HealthHandler
}

// Register builds the gin engine with middleware and routes.
func Register(h *Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	engine.GET("/health", h.Health.Check)

	v1 := engine.Group("/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.Session.Create)
			sessions.GET("", h.Session.List)
			sessions.GET("/:id", h.Session.Get)
			sessions.DELETE("/:id", h.Session.Delete)
			sessions.GET("/:id/stats", h.Session.Stats)
			sessions.POST("/:id/documents", h.Document.Upload)
			sessions.GET("/:id/documents", h.Document.List)
		}

		documents := v1.Group("/documents")
		{
			documents.GET("/:id", h.Document.Get)
			documents.DELETE("/:id", h.Document.Delete)
		}

		v1.POST("/context", h.Context.Build)
	}

	logger.Info("HTTP routes registered")
	return engine
}
