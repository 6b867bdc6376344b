package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/version"
)

// HealthHandler serves liveness checks.
type HealthHandler struct{}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check reports service health and build version.
func (h *HealthHandler) Check(c *gin.Context) {
	ok(c, gin.H{
		"status":  "ok",
		"version": version.Get().GitVersion,
	})
}
