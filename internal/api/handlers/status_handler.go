package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/rider-tracker/internal/api/dto"
	apperrors "github.com/gocomet/rider-tracker/pkg/errors"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

// UpdateStatus handles POST /api/update_status
func (h *Handlers) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Rider ID is required", err))
		return
	}
	if !req.IsOnline.Set {
		h.respondError(c, apperrors.BadRequest("Status is required", nil))
		return
	}

	riderID := *req.RiderID
	h.Logger.Info("Status update request",
		logger.Int64("rider_id", riderID),
		logger.Bool("is_online", req.IsOnline.Value),
	)

	st, err := h.Tracker.SetStatus(c.Request.Context(), riderID, req.IsOnline.Value)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordStatusChange(riderID, st.IsOnline)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Status updated successfully",
		"rider_id":  st.RiderID,
		"is_online": st.IsOnline,
	})
}
