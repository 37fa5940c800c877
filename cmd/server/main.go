package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polingo/internal/api"
	"polingo/internal/config"
	"polingo/internal/db"
	"polingo/internal/llm"
	"polingo/internal/logger"
	"polingo/internal/repository/sqlite"
	"polingo/internal/scheduler"
	"polingo/internal/services"
	"polingo/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Polingo Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("openai_model=%s", cfg.OpenAIModel)
	log.Debug("device_worker_count=%d", cfg.DeviceWorkerCount)
	log.Debug("device_queue_size=%d", cfg.DeviceQueueSize)
	log.Debug("device_prune_after_days=%d", cfg.DevicePruneAfterDays)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	if cfg.SeedStarterWords {
		if err := database.SeedStarterWords(context.Background()); err != nil {
			log.Error("failed to seed starter words: %v", err)
			os.Exit(1)
		}
	}

	var provider llm.Provider
	if cfg.OpenAIKey != "" {
		provider = llm.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	} else {
		log.Warn("OPENAI_API_KEY not set, word resolution and pronunciation are disabled")
	}

	wordRepo := sqlite.NewWordRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	practiceRepo := sqlite.NewPracticeRepository(database.DB)
	verbRepo := sqlite.NewVerbRepository(database.DB)
	deviceRepo := sqlite.NewDeviceRepository(database.DB)

	sessionService := services.NewSessionService(sessionRepo, wordRepo)
	wordService := services.NewWordService(wordRepo, sessionRepo, provider)
	practiceService := services.NewPracticeService(wordRepo, practiceRepo, provider)
	verbService := services.NewVerbService(verbRepo, sessionRepo, provider)
	deviceService := services.NewDeviceService(deviceRepo)

	devicePool := worker.NewPool(cfg.DeviceWorkerCount, cfg.DeviceQueueSize)

	pruneAfter := time.Duration(cfg.DevicePruneAfterDays) * 24 * time.Hour
	sched := scheduler.New(deviceService, pruneAfter)

	srv := &api.Server{
		DB:              database,
		SessionService:  sessionService,
		WordService:     wordService,
		PracticeService: practiceService,
		VerbService:     verbService,
		DeviceService:   deviceService,
		DevicePool:      devicePool,
		CORSOrigins:     cfg.CORSOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	devicePool.Start(ctx)
	sched.Start()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	sched.Stop()

	log.Debug("stopping worker context")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping device pool")
	devicePool.Stop()

	log.Info("===========================================")
	log.Info("Polingo Server Stopped")
	log.Info("===========================================")
}
