package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ABIRENIS/Jero-CRM/internal/config"
	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/handler"
	"github.com/ABIRENIS/Jero-CRM/internal/hub"
	"github.com/ABIRENIS/Jero-CRM/internal/repository"
	"github.com/ABIRENIS/Jero-CRM/internal/retention"
	"github.com/ABIRENIS/Jero-CRM/internal/service"
	"github.com/ABIRENIS/Jero-CRM/pkg/database"
	pkglog "github.com/ABIRENIS/Jero-CRM/pkg/log"
	"github.com/ABIRENIS/Jero-CRM/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		pkglog.L().Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "jero-crm",
	})
	logger := pkglog.L()

	// Connect to database using GORM
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate
	if err := database.AutoMigrate(db, &domain.EngineerModel{}, &domain.ChatMessageModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	// Repositories
	engineerRepo := repository.NewGormEngineerRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	// Live-event hub
	h := hub.NewHub(cfg.WebSocket)
	go h.Run()

	// Services
	engineerService := service.NewEngineerService(engineerRepo, h)
	chatService := service.NewChatService(messageRepo, h)
	presenceService := service.NewPresenceService(engineerRepo, h)

	// Upload storage
	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: cfg.Upload.Dir})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	// Retention sweeper
	sweeper := retention.NewSweeper(messageRepo, cfg.Retention)
	if err := sweeper.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start retention sweeper")
	}

	// Setup Gin router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Register routes
	handler.NewHTTPHandler(engineerService, chatService).RegisterRoutes(r)
	handler.NewUploadHandler(store, cfg.Upload).RegisterRoutes(r)
	handler.NewWSHandler(h, chatService, presenceService, cfg.WebSocket).RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("jero-crm server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
