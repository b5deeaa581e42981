package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/reefwatch/dhw-dashboard/internal/api/http"
	"github.com/reefwatch/dhw-dashboard/internal/config"
	"github.com/reefwatch/dhw-dashboard/internal/dashboard"
	"github.com/reefwatch/dhw-dashboard/internal/observability"
	"github.com/reefwatch/dhw-dashboard/internal/regions"
	"github.com/reefwatch/dhw-dashboard/internal/scheduler"
	"github.com/reefwatch/dhw-dashboard/internal/store"
	"github.com/reefwatch/dhw-dashboard/internal/web"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	// One-time load of the region polygon dataset. A service without a
	// coherent region set would mislabel the map, so failures are fatal.
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	fetcher := regions.NewFetcher(httpClient, regions.DefaultBackoff)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	set, err := regions.Load(loadCtx, cfg.RegionsSource, fetcher)
	cancelLoad()
	if err != nil {
		zlog.Fatal("failed to load region dataset", zap.Error(err))
	}
	metrics.RegionsLoaded.Set(float64(len(set.Regions)))
	zlog.Info("region dataset loaded",
		zap.Int("regions", len(set.Regions)),
		zap.String("source", cfg.RegionsSource),
	)

	// In-memory estimate history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core service computing the exceedance matrix on demand.
	service := dashboard.NewService(set, memStore, zlog, metrics)

	// Seed the dashboard so the page has something to show before the first
	// button press.
	if _, err := service.Update(cfg.DefaultDHW); err != nil {
		zlog.Warn("failed to seed default estimate", zap.String("default_dhw", cfg.DefaultDHW), zap.Error(err))
	}

	// Scheduler that periodically prunes expired history.
	sched := scheduler.New(memStore, cfg.SweepInterval, zlog)
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "dhw-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "dhw-dashboard",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes and the embedded dashboard page.
	httpapi.RegisterRoutes(app, service)
	web.RegisterRoutes(app)

	// Start server with graceful shutdown
	port := cfg.Port

	go func() {
		if err := app.Listen(":" + port); err != nil {
			zlog.Error("fiber server stopped", zap.Error(err))
		}
	}()
	zlog.Info("dashboard listening", zap.String("port", port))

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}
