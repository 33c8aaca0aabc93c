package routes

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/giannis84/star-catalog/internal/auth"
	"github.com/giannis84/star-catalog/internal/database"
	"github.com/giannis84/star-catalog/internal/importer"
	"github.com/giannis84/star-catalog/internal/logging"
	"github.com/giannis84/star-catalog/internal/swapi"
	"github.com/go-chi/chi/v5"
)

type statsResponse struct {
	Movies           int64 `json:"movies"`
	Planets          int64 `json:"planets"`
	FavouriteMovies  int64 `json:"favourite_movies"`
	FavouritePlanets int64 `json:"favourite_planets"`
}

// RegisterAdminRoutes sets up the JWT-protected ops surface: catalog row
// counts and a synchronous trigger for the catalog import job.
func RegisterAdminRoutes(db *sql.DB, imp *importer.Importer, jwtSecret string) func(r chi.Router) {
	movies := database.NewMoviesPostgres(db)
	planets := database.NewPlanetsPostgres(db)
	favouriteMovies := database.NewFavouriteMoviesPostgres(db)
	favouritePlanets := database.NewFavouritePlanetsPostgres(db)

	return func(r chi.Router) {
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.JWTMiddleware(jwtSecret))
			r.Get("/stats", statsRoute(movies, planets, favouriteMovies, favouritePlanets))
			r.Post("/import", importRoute(imp))
		})
	}
}

func statsRoute(
	movies *database.MoviesPostgres,
	planets *database.PlanetsPostgres,
	favouriteMovies *database.FavouritesPostgres,
	favouritePlanets *database.FavouritesPostgres,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var stats statsResponse
		var err error
		if stats.Movies, err = movies.CountInDB(ctx); err == nil {
			if stats.Planets, err = planets.CountInDB(ctx); err == nil {
				if stats.FavouriteMovies, err = favouriteMovies.CountInDB(ctx); err == nil {
					stats.FavouritePlanets, err = favouritePlanets.CountInDB(ctx)
				}
			}
		}
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("stats").Err(err).Error("failed to collect catalog stats")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("stats").
			Str("operator", auth.OperatorFromContext(ctx)).Info("catalog stats collected")
		respondWithJSON(w, http.StatusOK, stats)
	}
}

func importRoute(imp *importer.Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		logging.Log(ctx).Layer("routes").Op("import").
			Str("operator", auth.OperatorFromContext(ctx)).Info("catalog import triggered")

		counts, err := imp.Run(ctx)
		if err != nil {
			var unavailable *swapi.UnavailableError
			if errors.As(err, &unavailable) {
				logging.Log(ctx).Layer("routes").Op("import").Err(err).
					Warn("upstream catalog unavailable, import aborted")
				respondWithError(w, http.StatusBadGateway, err.Error())
				return
			}
			logging.Log(ctx).Layer("routes").Op("import").Err(err).Error("catalog import failed")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("import").
			Int("movies", counts.Movies).Int("planets", counts.Planets).
			Int("status_code", http.StatusOK).Info("catalog import finished")
		respondWithJSON(w, http.StatusOK, dataResponse{Data: counts})
	}
}
