package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/rider-tracker/internal/api/dto"
	apperrors "github.com/gocomet/rider-tracker/pkg/errors"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

// UpdateLocation handles POST /api/update_location
func (h *Handlers) UpdateLocation(c *gin.Context) {
	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Rider ID, latitude, and longitude are required", err))
		return
	}

	riderID := *req.RiderID
	h.Logger.Info("Location update request",
		logger.Int64("rider_id", riderID),
		logger.Float64("latitude", *req.Latitude),
		logger.Float64("longitude", *req.Longitude),
	)

	loc, err := h.Tracker.SetLocation(c.Request.Context(), riderID, *req.Latitude, *req.Longitude, req.Timestamp)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordLocationUpdate()

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Location updated successfully",
		"timestamp": loc.LocationTime,
	})
}

// GetRiderLocation handles GET /api/rider/:id/location
func (h *Handlers) GetRiderLocation(c *gin.Context) {
	riderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Rider ID must be an integer", err))
		return
	}

	loc, err := h.Tracker.LatestLocation(c.Request.Context(), riderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LocationResponse{
		Success:      true,
		RiderID:      loc.RiderID,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		LocationTime: loc.LocationTime,
	})
}
