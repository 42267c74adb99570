package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobradar/internal/api/routes"
	"jobradar/internal/config"
	"jobradar/internal/fetch"
	"jobradar/internal/llm"
	"jobradar/internal/logging"
	"jobradar/internal/notify"
	"jobradar/internal/pipeline"
	"jobradar/internal/scheduler"
	"jobradar/internal/store/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Job Radar")

	ctx := context.Background()

	// Initialize job store
	st, err := postgres.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to job store", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer st.Close()

	// Optional Redis page cache
	var cache *fetch.PageCache
	if cfg.Redis.Enabled {
		cache, err = fetch.NewPageCache(ctx, cfg)
		if err != nil {
			logger.Warn("Page cache unavailable, fetching without cache", map[string]interface{}{
				"error": err.Error(),
			})
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Fetch engines: plain HTTP always, Firecrawl when configured
	limiter := fetch.NewHostLimiter(cfg)
	defer limiter.Stop()

	engines := []fetch.Engine{fetch.NewHTTPEngine(cfg)}
	if cfg.Firecrawl.APIKey != "" {
		firecrawlEngine, err := fetch.NewFirecrawlEngine(cfg)
		if err != nil {
			logger.Warn("Firecrawl engine unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			engines = append(engines, firecrawlEngine)
		}
	}
	fetcher := fetch.NewFetcher(cfg, limiter, cache, engines...)

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Notification channels
	notifier := notify.NewService(cfg)
	logger.Info("Notification channels ready", map[string]interface{}{
		"configured": notifier.ConfiguredChannels(),
	})

	// Pipeline orchestrator
	orchestrator := pipeline.NewOrchestrator(cfg, fetcher, llmManager, st, notifier)

	// Optional cron trigger
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(cfg, orchestrator)
		if err := sched.Start(ctx); err != nil {
			logger.Fatal("Failed to start scheduler", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, st, orchestrator, llmManager, notifier)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if sched != nil {
			sched.Stop()
		}

		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
