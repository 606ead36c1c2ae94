package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetOnlineRiders handles GET /api/riders/online
func (h *Handlers) GetOnlineRiders(c *gin.Context) {
	riders, err := h.Tracker.OnlineSnapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(riders),
		"riders":  riders,
	})
}

// Index handles GET /
func (h *Handlers) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "running",
		"message":       "Rider API Server is running",
		"active_riders": h.Hub.AnnouncedRiders(),
		"version":       "1.0",
	})
}

// Health handles GET /health, including a database round trip
func (h *Handlers) Health(c *gin.Context) {
	dbStatus := "connected"
	if err := h.DB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  dbStatus,
		"timestamp": time.Now().UTC(),
	})
}
