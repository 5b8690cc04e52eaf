package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/wasteland/internal/config"
	"github.com/jwebster45206/wasteland/internal/handlers"
	"github.com/jwebster45206/wasteland/internal/logger"
	"github.com/jwebster45206/wasteland/internal/metrics"
	"github.com/jwebster45206/wasteland/internal/middleware"
	"github.com/jwebster45206/wasteland/internal/payment"
	"github.com/jwebster45206/wasteland/internal/services/events"
	"github.com/jwebster45206/wasteland/internal/services/journal"
	"github.com/jwebster45206/wasteland/internal/session"
	"github.com/jwebster45206/wasteland/internal/storage"
	"github.com/jwebster45206/wasteland/pkg/entitlement"
	"github.com/jwebster45206/wasteland/pkg/save"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Wasteland API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"save_mirror", cfg.SaveMirror,
		"sqlite_path", cfg.SQLitePath)

	rdb, err := storage.NewRedisStore(cfg.RedisURL, 0, log)
	if err != nil {
		log.Error("Invalid Redis configuration", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := rdb.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	local, err := storage.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		log.Error("Failed to open local save store", "error", err)
		os.Exit(1)
	}
	mirror, err := storage.OpenMirror(storageCtx, cfg, rdb)
	if err != nil {
		log.Error("Failed to open save mirror", "error", err)
		os.Exit(1)
	}

	recorder := metrics.New()
	saves := save.NewTiered(local, log, save.Options{
		Mirror:   mirror,
		Timeout:  cfg.MirrorTimeout,
		Recorder: recorder,
	})

	entitlements := entitlement.NewService(rdb, payment.NewSandbox(log), cfg.PrivilegedPlayerIDs, log)
	broadcaster := events.NewBroadcaster(rdb.Client(), log)
	gameJournal := journal.NewJournal(rdb.Client(), log)

	sessions := session.NewManager(session.Options{
		Store:        saves,
		Entitlements: entitlements,
		Journal:      gameJournal,
		Notifiers:    broadcaster,
		Metrics:      recorder,
		Seed:         cfg.RNGSeed,
		OnChange:     recorder.SessionsOpen,
	}, log)

	mux := http.NewServeMux()

	components := map[string]handlers.Pinger{"redis": rdb, "saves": local}
	if mirror != nil {
		components["mirror"] = mirror
	}
	mux.Handle("/health", handlers.NewHealthHandler(components, log))
	mux.Handle("/metrics", recorder.Handler())

	gameHandler := handlers.NewGameHandler(sessions, gameJournal, broadcaster, log)
	mux.Handle("/v1/games", gameHandler)
	mux.Handle("/v1/games/", gameHandler)

	mux.Handle("/v1/purchases", handlers.NewPurchaseHandler(entitlements, sessions, recorder, broadcaster, log))
	mux.Handle("/v1/entitlements/", handlers.NewEntitlementHandler(entitlements, log))
	mux.Handle("/v1/events/games/", handlers.NewEventsHandler(rdb.Client(), log))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout removed to enable streaming - SSE handles its own keepalive
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := sessions.SaveAll(shutdownCtx); err != nil {
		log.Error("Failed to save open games", "error", err)
	}
	if err := saves.Close(shutdownCtx); err != nil {
		log.Error("Failed to drain save mirror", "error", err)
	}
	if err := local.Close(); err != nil {
		log.Error("Error closing local save store", "error", err)
	}
	if err := rdb.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	log.Info("Server exited")
}
