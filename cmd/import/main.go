// Command import refreshes the local catalog from the upstream API: it
// fetches every film and planet page, then replaces the local tables in one
// transaction. Intended for first-time seeding and periodic refreshes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/giannis84/star-catalog/internal/config"
	"github.com/giannis84/star-catalog/internal/database"
	"github.com/giannis84/star-catalog/internal/importer"
	"github.com/giannis84/star-catalog/internal/logging"
	"github.com/giannis84/star-catalog/internal/swapi"
	"github.com/joho/godotenv"
)

func main() {
	logger := logging.NewLogger()

	_ = godotenv.Load()
	cfg, err := config.LoadImport()
	if err != nil {
		logger.Error("failed to load configuration", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}

	db, err := database.Connect(cfg.PostgresConnString())
	if err != nil {
		logger.Error("failed to initialise database", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := swapi.NewClient(cfg.CatalogAPIBaseURL, "star-catalog-import", cfg.CatalogAPIRPS)

	logger.Info("starting catalog import", slog.String("upstream", cfg.CatalogAPIBaseURL))
	counts, err := importer.New(db, client).Run(ctx)
	if err != nil {
		var unavailable *swapi.UnavailableError
		if errors.As(err, &unavailable) {
			logger.Error("upstream catalog unavailable, previous catalog left untouched",
				slog.String(logging.ErrorKey, err.Error()))
		} else {
			logger.Error("catalog import failed", slog.String(logging.ErrorKey, err.Error()))
		}
		os.Exit(1)
	}

	logger.Info("catalog import finished",
		slog.Int("movies", counts.Movies),
		slog.Int("planets", counts.Planets),
	)
}
