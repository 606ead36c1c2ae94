package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gocomet/rider-tracker/internal/config"
	"github.com/gocomet/rider-tracker/internal/domain/rider"
	"github.com/gocomet/rider-tracker/internal/domain/wallet"
	"github.com/gocomet/rider-tracker/internal/service/tracking"
	"github.com/gocomet/rider-tracker/internal/ws"
	apperrors "github.com/gocomet/rider-tracker/pkg/errors"
	"github.com/gocomet/rider-tracker/pkg/logger"
	"github.com/gocomet/rider-tracker/pkg/monitoring"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Cfg     *config.Config
	DB      *sql.DB
	Redis   *redis.Client
	Logger  *logger.Logger
	Hub     *ws.Hub
	Tracker *tracking.Service
	Riders  rider.Repository
	Wallets wallet.Repository
	Monitor *monitoring.NewRelicApp
}

// NewHandlers creates a new Handlers instance
func NewHandlers(cfg *config.Config, db *sql.DB, redisClient *redis.Client, log *logger.Logger,
	hub *ws.Hub, tracker *tracking.Service, riders rider.Repository, wallets wallet.Repository,
	monitor *monitoring.NewRelicApp) *Handlers {
	return &Handlers{
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Logger:  log,
		Hub:     hub,
		Tracker: tracker,
		Riders:  riders,
		Wallets: wallets,
		Monitor: monitor,
	}
}

// respondError writes the uniform error body for an application error
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= 500 {
		h.Logger.Error("Request failed", logger.Err(err), logger.String("path", c.FullPath()))
	}
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
