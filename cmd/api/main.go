package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/rider-tracker/internal/api/handlers"
	"github.com/gocomet/rider-tracker/internal/api/routes"
	"github.com/gocomet/rider-tracker/internal/config"
	"github.com/gocomet/rider-tracker/internal/service/tracking"
	"github.com/gocomet/rider-tracker/internal/storage"
	"github.com/gocomet/rider-tracker/internal/ws"
	"github.com/gocomet/rider-tracker/pkg/cache"
	"github.com/gocomet/rider-tracker/pkg/database"
	"github.com/gocomet/rider-tracker/pkg/logger"
	"github.com/gocomet/rider-tracker/pkg/monitoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Rider Tracker",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
		LogLevel:   cfg.NewRelic.LogLevel,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp = &monitoring.NewRelicApp{}
	}
	defer nrApp.Shutdown(10 * time.Second)

	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err != nil {
		appLogger.Warn("Redis unavailable, geo index mirroring disabled", logger.Err(err))
		redisClient = nil
	} else {
		defer cache.Close(redisClient)
		appLogger.Info("Connected to Redis successfully")

		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				nrApp.RecordRedisPoolStats(cache.GetClientStats(redisClient))
			}
		}()
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConnections,
		MaxIdle:  cfg.Database.MaxIdleConns,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer db.Close()

	appLogger.Info("Connected to PostgreSQL successfully")

	riderStore := storage.NewRiderStore(db)
	walletStore := storage.NewWalletStore(db)

	hub := ws.NewHub(appLogger)
	tracker := tracking.NewService(riderStore, hub, redisClient, appLogger)
	hub.SetReconciler(tracker)
	go hub.Run()

	h := handlers.NewHandlers(cfg, db, redisClient, appLogger, hub, tracker, riderStore, walletStore, nrApp)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	var nrApplication *monitoring.NewRelicApp
	if nrApp.IsEnabled() {
		nrApplication = nrApp
	}
	if nrApplication != nil {
		routes.SetupRoutes(router, h, nrApplication.Application)
	} else {
		routes.SetupRoutes(router, h, nil)
	}

	appLogger.Info("Routes configured successfully")

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
