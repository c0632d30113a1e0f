// Package api exposes script storage, validation and simulation over HTTP.
package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/nathoo/rulekit/internal/storage"
)

// NewRouter wires the handlers onto a gin engine.
func NewRouter(store storage.Store, log *slog.Logger) *gin.Engine {
	h := NewHandler(store, log)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	r.GET("/health", h.Health)

	scripts := r.Group("/scripts")
	{
		scripts.POST("", h.CreateScript)
		scripts.POST("/validate", h.ValidateScript)
		scripts.GET("/:id", h.GetScript)
		scripts.PUT("/:id", h.UpdateScript)
		scripts.DELETE("/:id", h.DeleteScript)
		scripts.POST("/:id/simulate", h.SimulateScript)
	}
	return r
}
