package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"insta-automation/internal/ai"
	"insta-automation/internal/config"
	"insta-automation/internal/logger"
	"insta-automation/internal/scheduler"
	"insta-automation/internal/telemetry"
	"insta-automation/middleware"
	"insta-automation/routes"
	"insta-automation/services"

	"github.com/gin-gonic/gin"
)

const maxRequestBody = 64 << 10

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer(cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		shutdownTracer = func(context.Context) {}
	}

	metrics, err := telemetry.InitMetrics(cfg.ServiceName)
	if err != nil {
		logger.Error("Failed to initialize metrics", "error", err)
	}

	// Text generation is optional; without a key every caption and reply is canned.
	var text services.TextGenerator
	var gemini *ai.GeminiClient
	if cfg.GeminiAPIKey != "" {
		gemini, err = ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTier, metrics)
		if err != nil {
			logger.Error("Failed to create Gemini client, using fallback content", "error", err)
		} else {
			text = gemini
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, using fallback content")
	}

	sched := scheduler.NewCronScheduler(cfg.Location)
	sched.Start()

	instagram := services.NewInstagramService()
	content := services.NewContentGenerator(text, cfg.GenerationTimeout, metrics, nil)
	manager := services.NewAutomationManager(instagram, content, sched, services.ManagerOptions{
		MessageCheckMinutes: cfg.MessageCheckMinutes,
		JobTimeout:          cfg.JobTimeout,
		ReplyDelayMin:       cfg.ReplyDelayMin,
		ReplyDelayMax:       cfg.ReplyDelayMax,
		Location:            cfg.Location,
		Metrics:             metrics,
	})

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware(cfg.ServiceName))
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.CORSMiddlewareWithOrigins(cfg.CORSOrigins))
	router.Use(middleware.RequestSizeLimit(maxRequestBody))

	if cfg.RateLimitEnabled() {
		rdb, err := config.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer rdb.Close()
			router.Use(middleware.RateLimitMiddleware(rdb, cfg))
			logger.Info("Rate limiting enabled", "requests", cfg.RateLimitReqs, "window_seconds", cfg.RateLimitWindow)
		}
	}

	routes.SetupHealthRoutes(router)
	routes.SetupAutomationRoutes(router, manager, instagram)
	routes.SetupMessageRoutes(router, manager, instagram)
	routes.SetupPreviewRoutes(router, content)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "timezone", cfg.ScheduleTimezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	manager.Close()
	sched.Stop()
	if gemini != nil {
		if err := gemini.Close(); err != nil {
			logger.Warn("Failed to close Gemini client", "error", err)
		}
	}
	shutdownTracer(ctx)

	logger.Info("Server exited")
}
