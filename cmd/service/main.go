package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giannis84/star-catalog/internal"
	"github.com/giannis84/star-catalog/internal/config"
	"github.com/giannis84/star-catalog/internal/database"
	"github.com/giannis84/star-catalog/internal/importer"
	"github.com/giannis84/star-catalog/internal/logging"
	"github.com/giannis84/star-catalog/internal/routes"
	"github.com/giannis84/star-catalog/internal/swapi"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize shared dependencies
	logger := logging.NewLogger()

	// Load configuration (.env is optional, for local development)
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("api_addr", cfg.APIAddr()),
		slog.String("health_addr", cfg.HealthAddr()),
	)

	// Connect to PostgreSQL and initialise schema
	db, err := database.Connect(cfg.PostgresConnString())
	if err != nil {
		logger.Error("failed to initialise database", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database ready")

	// The admin import trigger runs the same job as cmd/import
	catalogClient := swapi.NewClient(cfg.CatalogAPIBaseURL, "star-catalog-import", cfg.CatalogAPIRPS)
	imp := importer.New(db, catalogClient)

	// Create health check and catalog http services
	healthService := internal.NewService(internal.ServiceConfig{
		Addr:   cfg.HealthAddr(),
		Logger: logger,
		Routes: routes.RegisterHealthRoutes(db),
	})
	apiService := internal.NewService(internal.ServiceConfig{
		Addr:   cfg.APIAddr(),
		Logger: logger,
		Routes: func(r chi.Router) {
			routes.RegisterCatalogRoutes(db, cfg.RateLimitConfig())(r)
			routes.RegisterAdminRoutes(db, imp, cfg.JWTSecret)(r)
		},
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	// Start http service threads
	go func() {
		if err := healthService.ListenAndServeWrapper("health check api"); err != nil && err != http.ErrServerClosed {
			logger.Error("health check service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()
	go func() {
		if err := apiService.ListenAndServeWrapper("catalog api"); err != nil && err != http.ErrServerClosed {
			logger.Error("catalog service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	// Shutdown http service threads gracefully
	logger.Info("shutting down service", slog.Any("OS signal received", os.Signal.String(receivedSignal)))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiService.HTTPServer.Shutdown(ctx); err != nil {
		logger.Error("API service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	if err := healthService.HTTPServer.Shutdown(ctx); err != nil {
		logger.Error("health service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	logger.Info("exiting...")
}
