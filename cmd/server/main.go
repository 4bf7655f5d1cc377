// Portfolio API - assistant and notification backend for taherahmed.dev
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/taherahmed/portfolio-api/internal/api"
	"github.com/taherahmed/portfolio-api/internal/assistant"
	"github.com/taherahmed/portfolio-api/internal/config"
	"github.com/taherahmed/portfolio-api/internal/identity"
	"github.com/taherahmed/portfolio-api/internal/llm"
	"github.com/taherahmed/portfolio-api/internal/middleware"
	"github.com/taherahmed/portfolio-api/internal/notify"
	"github.com/taherahmed/portfolio-api/internal/session"
	"github.com/taherahmed/portfolio-api/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize the session store. SQLite when DB_PATH is set, otherwise
	// sessions live in memory and vanish on restart.
	var store session.Store
	if cfg.DBPath != "" {
		sqliteStore, err := session.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		store = sqliteStore
		slog.Info("Session store: sqlite", "path", cfg.DBPath)
	} else {
		store = session.NewMemory()
		slog.Info("Session store: in-memory")
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	if err := store.Ping(context.Background()); err != nil {
		slog.Error("Session store health check failed", "error", err)
		os.Exit(1)
	}

	// Notification relay (optional).
	notifier := notify.NewService(cfg.Discord.WebhookURL, cfg.Discord.Timeout)
	if !notifier.Configured() {
		slog.Info("Notification relay disabled (DISCORD_WEBHOOK_URL not set)")
	}

	// Completion provider (optional). Without a key the assistant endpoint
	// degrades per request instead of the server refusing to start.
	var model llm.Client = llm.Unconfigured{}
	if cfg.OpenAI.APIKey != "" {
		model, err = llm.NewOpenAI(llm.Config{
			APIKey:        cfg.OpenAI.APIKey,
			Model:         cfg.OpenAI.Model,
			Timeout:       cfg.OpenAI.Timeout,
			Temperature:   cfg.OpenAI.Temperature,
			MaxTokens:     cfg.OpenAI.MaxTokens,
			JSONMaxTokens: cfg.OpenAI.JSONMaxTokens,
			HistoryWindow: cfg.HistoryWindowInfo,
		})
		if err != nil {
			slog.Error("Failed to initialize completion provider", "error", err)
			os.Exit(1)
		}
		slog.Info("Completion provider ready", "model", cfg.OpenAI.Model)
	} else {
		slog.Info("Assistant disabled (OPENAI_API_KEY not set)")
	}

	// Initialize services and handlers.
	svc := assistant.NewService(store, model, notifier, assistant.Config{
		HistoryWindowInfo:   cfg.HistoryWindowInfo,
		HistoryWindowIntent: cfg.HistoryWindowIntent,
	})
	assistantHandler := assistant.NewHandler(svc, assistant.HandlerConfig{
		RateLimitRequests: cfg.RateLimit.RequestsPerWindow,
		RateLimitWindow:   cfg.RateLimit.WindowDuration,
		MaxRequestBody:    cfg.MaxRequestBodySize,
	})
	defer assistantHandler.Close()
	notifyHandler := notify.NewHandler(notifier)
	healthHandler := api.NewHealthHandler(store)
	wsHandler := assistant.NewWSHandler(svc, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(corsOrigins(cfg)))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	healthHandler.RegisterRoutes(r)
	assistantHandler.RegisterRoutes(r)
	notifyHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket chat connections stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Start TTL worker.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartTTLWorker(ctx, store, cfg.SessionTTL, cfg.SweepInterval)
	slog.Info("TTL worker started", "session_ttl", cfg.SessionTTL, "sweep_interval", cfg.SweepInterval)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{cfg.FrontendURL}
}
