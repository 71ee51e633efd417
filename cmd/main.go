package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"tienda-api/internal/api"
	"tienda-api/internal/auth"
	"tienda-api/internal/config"
	"tienda-api/internal/logger"
	"tienda-api/internal/store"
)

func main() {
	// .env is optional; system environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootstrapLog := zerolog.New(os.Stderr)
		bootstrapLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.AppEnv)
	log.Info().Str("app_env", cfg.AppEnv).Msg("starting service")

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database connection")
	}
	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	if err := store.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database schema")
	}
	log.Info().Msg("database connection established")

	dbStore := store.NewPostgresStore(db, log)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// dbStore implements all three storer interfaces.
	httpAPIHandler := api.NewHTTPHandler(dbStore, dbStore, dbStore, tokens, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	registerHealthCheck(router, log, db)
	httpAPIHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutRead,
		WriteTimeout: cfg.HTTPServer.TimeoutWrite,
		IdleTimeout:  cfg.HTTPServer.TimeoutIdle,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPServer.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		log.Info().Msg("HTTP server gracefully shut down")
	}

	if err := dbStore.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing database connection")
	}

	log.Info().Msg("shutdown complete")
}

func registerHealthCheck(router *chi.Mux, log zerolog.Logger, db *sql.DB) {
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := db.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
			log.Warn().Err(err).Msg("health check DB ping failed")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "healthy",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
