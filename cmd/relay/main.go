package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/loftbase/studio-backend/internal/adapters/primary/http"
	mw "github.com/loftbase/studio-backend/internal/adapters/primary/http/middleware"
	"github.com/loftbase/studio-backend/internal/adapters/primary/websocket"
	"github.com/loftbase/studio-backend/internal/adapters/secondary/postgres"
	"github.com/loftbase/studio-backend/internal/auth"
	"github.com/loftbase/studio-backend/internal/config"
	"github.com/loftbase/studio-backend/internal/core/services"
	"github.com/loftbase/studio-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Relay.APIKey == "" {
		slog.Error("RELAY_API_KEY must be set")
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name + "-relay",
		Environment: cfg.App.Environment,
	})

	logger.Info("starting relay",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool. The relay only reads membership data,
	// it never writes.
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. Dependency Injection
	accessRepo := postgres.NewRoomAccessRepository(pool)
	accessService := services.NewRoomAccessService(accessRepo)

	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, accessService, cfg, logger)
	emitHandler := httpAdapter.NewEmitHandler(hub, cfg.Relay.APIKey, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, "relay", cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))

	// Authentication is handled inside each handler: the websocket handshake
	// validates the token itself and /emit checks the internal API key.
	r.Get("/ws", wsHandler.ServeHTTP)
	r.Post("/emit", emitHandler.HandleEmit)

	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)
	r.Handle("/metrics", promhttp.Handler())

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Relay.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		// No WriteTimeout: websocket connections are long-lived.
	}

	go func() {
		logger.Info("relay starting", "port", cfg.Relay.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("relay server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("relay shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("relay shutdown complete")
}
