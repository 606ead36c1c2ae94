package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/gocomet/rider-tracker/internal/api/dto"
	"github.com/gocomet/rider-tracker/internal/auth"
	"github.com/gocomet/rider-tracker/internal/domain/rider"
	apperrors "github.com/gocomet/rider-tracker/pkg/errors"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

// Login handles POST /api/login
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Username and password are required", err))
		return
	}

	r, err := h.Riders.GetByName(c.Request.Context(), req.RiderName)
	if errors.Is(err, rider.ErrNotFound) {
		h.respondError(c, apperrors.ErrInvalidCredentials)
		return
	}
	if err != nil {
		h.respondError(c, apperrors.Unavailable("Database connection failed", err))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(req.Password)) != nil {
		h.Logger.Warn("Failed login attempt", logger.String("rider_name", req.RiderName))
		h.respondError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := auth.GenerateToken(h.Cfg.JWT, r.ID, r.Name)
	if err != nil {
		h.respondError(c, apperrors.Internal("Failed to issue token", err))
		return
	}

	isOnline := false
	if st, err := h.Riders.GetStatus(c.Request.Context(), r.ID); err == nil && st != nil {
		isOnline = st.IsOnline
	}

	h.Logger.Info("Rider logged in", logger.Int64("rider_id", r.ID))

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success:   true,
		RiderID:   r.ID,
		RiderName: r.Name,
		IsOnline:  isOnline,
		Token:     token,
		Message:   "Login successful",
	})
}
