package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/giftbox-backend/config"
	"github.com/ikkim/giftbox-backend/internal/app/controller"
	"github.com/ikkim/giftbox-backend/internal/app/repository"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	"github.com/ikkim/giftbox-backend/internal/db"
	"github.com/ikkim/giftbox-backend/internal/middleware"
	"github.com/ikkim/giftbox-backend/internal/router"
	"github.com/ikkim/giftbox-backend/internal/scheduler"
	"github.com/ikkim/giftbox-backend/internal/storage"
	ws "github.com/ikkim/giftbox-backend/internal/websocket"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"github.com/ikkim/giftbox-backend/pkg/redis"
	"github.com/ikkim/giftbox-backend/pkg/tracing"
	"github.com/ikkim/giftbox-backend/pkg/util"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting gift box server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Server.Environment)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("Failed to flush traces", err)
		}
	}()

	util.SetPasswordCost(cfg.Password.HashCost)

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.Seed.DemoUsers {
		if err := db.SeedDemoUsers(db.GetDB(), cfg.Seed.AdminEmails); err != nil {
			logger.Warn("Failed to seed demo users", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Without Redis, sign-out only clears the cookie
	var revoker service.TokenRevoker
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, session revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			revoker = redis.NewRevocationStore(redis.GetClient())
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	hub := ws.NewHub()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	giftBoxRepo := repository.NewGiftBoxRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, revoker, cfg.JWT.Secret, cfg.JWT.SessionExpiry)
	giftBoxService := service.NewGiftBoxService(giftBoxRepo, hub)
	adminService := service.NewAdminService(giftBoxRepo, hub)

	// Initialize controllers
	cookie := controller.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}
	authController := controller.NewAuthController(authService, cookie)
	giftBoxController := controller.NewGiftBoxController(giftBoxService)
	adminController := controller.NewAdminController(adminService)
	eventController := controller.NewEventController(hub, cfg.CORS.AllowedOrigins)
	pageController := controller.NewPageController(authService, giftBoxService, adminService, cookie, cfg.Seed.DemoUsers)

	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.Session.CookieName)

	r := router.NewRouter(
		authController,
		giftBoxController,
		adminController,
		eventController,
		pageController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if cfg.Scheduler.Enabled {
		var archiver scheduler.ExportArchiver
		if cfg.S3.Enabled() {
			archiver = storage.NewS3Storage(gctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
		}
		reports := scheduler.NewShipmentReportScheduler(cfg.Scheduler.ShipmentReport, adminService, archiver)
		if err := reports.Start(); err != nil {
			logger.Fatal("Failed to start shipment report scheduler", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			reports.Stop()
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", err)
		return
	}
	logger.Info("Server stopped successfully")
}
