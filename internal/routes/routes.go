package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/giannis84/star-catalog/internal/config"
	"github.com/giannis84/star-catalog/internal/database"
	"github.com/giannis84/star-catalog/internal/handlers"
	"github.com/giannis84/star-catalog/internal/logging"
	"github.com/giannis84/star-catalog/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// RegisterCatalogRoutes sets up the public catalog and favourites API routes.
// HTTP concerns are handled here, while business logic is delegated to the handlers package.
func RegisterCatalogRoutes(db *sql.DB, rateLimit config.RateLimitConfig) func(r chi.Router) {
	movies := database.NewMoviesPostgres(db)
	planets := database.NewPlanetsPostgres(db)
	favouriteMovies := database.NewFavouriteMoviesPostgres(db)
	favouritePlanets := database.NewFavouritePlanetsPostgres(db)

	return func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if rateLimit.Requests > 0 {
				r.Use(httprate.LimitByIP(rateLimit.Requests, rateLimit.Window))
			}
			r.Get("/movies/", listMoviesRoute(movies, favouriteMovies))
			r.Get("/planets/", listPlanetsRoute(planets, favouritePlanets))
			r.Post("/favourite/movie/", addFavouriteMovieRoute(movies, favouriteMovies))
			r.Post("/favourite/planet/", addFavouritePlanetRoute(planets, favouritePlanets))
		})
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type movieRow struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"release_date"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	URL         string    `json:"url"`
	IsFavourite bool      `json:"is_favourite"`
}

type planetRow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	URL         string    `json:"url"`
	IsFavourite bool      `json:"is_favourite"`
}

type movieListResponse struct {
	Results []movieRow `json:"results"`
}

type planetListResponse struct {
	Results []planetRow `json:"results"`
}

type favouriteMovieData struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Movie       int64   `json:"movie"`
	CustomTitle *string `json:"custom_title"`
}

type favouritePlanetData struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	Planet     int64   `json:"planet"`
	CustomName *string `json:"custom_name"`
}

type dataResponse struct {
	Data any `json:"data"`
}

// Identifiers in POST bodies are decoded as raw JSON so a number and a
// numeric string are both accepted, and anything else turns into a field
// error rather than a generic body-decode failure.
type addFavouriteMovieRequest struct {
	Movie       json.RawMessage `json:"movie"`
	UserID      json.RawMessage `json:"user_id"`
	CustomTitle *string         `json:"custom_title"`
}

type addFavouritePlanetRequest struct {
	Planet     json.RawMessage `json:"planet"`
	UserID     json.RawMessage `json:"user_id"`
	CustomName *string         `json:"custom_name"`
}

func listMoviesRoute(catalog database.CatalogRepository[models.Movie], favourites database.FavouritesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, verr := parseOptionalUserID(r)
		if verr != nil {
			logging.Log(ctx).Layer("routes").Op("listMovies").Warn("invalid user_id query parameter")
			respondWithFieldErrors(w, verr)
			return
		}
		title := optionalQueryParam(r, "title")

		logging.Log(ctx).Layer("routes").Op("listMovies").Kind(string(models.KindMovie)).
			Bool("has_filter", title != nil).Info("received list movies request")

		rows, err := handlers.ListWithFavourites(ctx, catalog, favourites, userID, title)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("listMovies").Err(err).Error("failed to list movies")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		results := make([]movieRow, 0, len(rows))
		for _, row := range rows {
			results = append(results, movieRow{
				ID:          row.Item.ID,
				Title:       row.DisplayName,
				ReleaseDate: row.Item.ReleaseDate,
				Created:     row.Item.Created,
				Updated:     row.Item.Updated,
				URL:         row.Item.URL,
				IsFavourite: row.IsFavourite,
			})
		}

		logging.Log(ctx).Layer("routes").Op("listMovies").
			Int("count", len(results)).Int("status_code", http.StatusOK).
			Info("movies listed successfully")
		respondWithJSON(w, http.StatusOK, movieListResponse{Results: results})
	}
}

func listPlanetsRoute(catalog database.CatalogRepository[models.Planet], favourites database.FavouritesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, verr := parseOptionalUserID(r)
		if verr != nil {
			logging.Log(ctx).Layer("routes").Op("listPlanets").Warn("invalid user_id query parameter")
			respondWithFieldErrors(w, verr)
			return
		}
		name := optionalQueryParam(r, "name")

		logging.Log(ctx).Layer("routes").Op("listPlanets").Kind(string(models.KindPlanet)).
			Bool("has_filter", name != nil).Info("received list planets request")

		rows, err := handlers.ListWithFavourites(ctx, catalog, favourites, userID, name)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("listPlanets").Err(err).Error("failed to list planets")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		results := make([]planetRow, 0, len(rows))
		for _, row := range rows {
			results = append(results, planetRow{
				ID:          row.Item.ID,
				Name:        row.DisplayName,
				Created:     row.Item.Created,
				Updated:     row.Item.Updated,
				URL:         row.Item.URL,
				IsFavourite: row.IsFavourite,
			})
		}

		logging.Log(ctx).Layer("routes").Op("listPlanets").
			Int("count", len(results)).Int("status_code", http.StatusOK).
			Info("planets listed successfully")
		respondWithJSON(w, http.StatusOK, planetListResponse{Results: results})
	}
}

func addFavouriteMovieRoute(catalog database.CatalogRepository[models.Movie], favourites database.FavouritesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req addFavouriteMovieRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Log(ctx).Layer("routes").Op("addFavouriteMovie").Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		verr := &handlers.ValidationError{}
		movieID := parseIdentifier("movie", req.Movie, verr)
		userID := parseIdentifier("user_id", req.UserID, verr)
		if len(verr.Fields) > 0 {
			logging.Log(ctx).Layer("routes").Op("addFavouriteMovie").Err(verr).
				Warn("invalid add favourite request")
			respondWithFieldErrors(w, verr)
			return
		}

		logging.Log(ctx).Layer("routes").Op("addFavouriteMovie").User(userID).Item(movieID).
			Kind(string(models.KindMovie)).Info("received add favourite request")

		fav, err := handlers.AddFavourite(ctx, catalog, favourites, userID, movieID, req.CustomTitle)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				logging.Log(ctx).Layer("routes").Op("addFavouriteMovie").User(userID).Item(movieID).Err(err).
					Warn("validation error on add favourite")
				respondWithFieldErrors(w, validationErr)
				return
			}
			logging.Log(ctx).Layer("routes").Op("addFavouriteMovie").User(userID).Item(movieID).Err(err).
				Error("failed to add favourite")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("addFavouriteMovie").User(userID).Item(movieID).
			Int("status_code", http.StatusOK).Info("favourite added successfully")
		respondWithJSON(w, http.StatusOK, dataResponse{Data: favouriteMovieData{
			ID:          fav.ID,
			UserID:      fav.UserID,
			Movie:       fav.ItemID,
			CustomTitle: fav.Alias,
		}})
	}
}

func addFavouritePlanetRoute(catalog database.CatalogRepository[models.Planet], favourites database.FavouritesRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req addFavouritePlanetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Log(ctx).Layer("routes").Op("addFavouritePlanet").Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		verr := &handlers.ValidationError{}
		planetID := parseIdentifier("planet", req.Planet, verr)
		userID := parseIdentifier("user_id", req.UserID, verr)
		if len(verr.Fields) > 0 {
			logging.Log(ctx).Layer("routes").Op("addFavouritePlanet").Err(verr).
				Warn("invalid add favourite request")
			respondWithFieldErrors(w, verr)
			return
		}

		logging.Log(ctx).Layer("routes").Op("addFavouritePlanet").User(userID).Item(planetID).
			Kind(string(models.KindPlanet)).Info("received add favourite request")

		fav, err := handlers.AddFavourite(ctx, catalog, favourites, userID, planetID, req.CustomName)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				logging.Log(ctx).Layer("routes").Op("addFavouritePlanet").User(userID).Item(planetID).Err(err).
					Warn("validation error on add favourite")
				respondWithFieldErrors(w, validationErr)
				return
			}
			logging.Log(ctx).Layer("routes").Op("addFavouritePlanet").User(userID).Item(planetID).Err(err).
				Error("failed to add favourite")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("addFavouritePlanet").User(userID).Item(planetID).
			Int("status_code", http.StatusOK).Info("favourite added successfully")
		respondWithJSON(w, http.StatusOK, dataResponse{Data: favouritePlanetData{
			ID:         fav.ID,
			UserID:     fav.UserID,
			Planet:     fav.ItemID,
			CustomName: fav.Alias,
		}})
	}
}

// parseOptionalUserID reads the user_id query parameter. Absence is fine;
// a present but non-integer value is a field error.
func parseOptionalUserID(r *http.Request) (*int64, *handlers.ValidationError) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, handlers.NewValidationError("user_id", "a valid integer is required")
	}
	return &id, nil
}

func optionalQueryParam(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// parseIdentifier accepts a JSON number or a numeric string, recording a
// field error on anything else. Missing and null are reported as required.
func parseIdentifier(field string, raw json.RawMessage, verr *handlers.ValidationError) int64 {
	if len(raw) == 0 || string(raw) == "null" {
		verr.Add(field, "this field is required")
		return 0
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			verr.Add(field, "a valid integer is required")
			return 0
		}
		num = json.Number(s)
	}

	id, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		verr.Add(field, "a valid integer is required")
		return 0
	}
	return id
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithFieldErrors writes the per-field messages as the response body,
// e.g. {"movie": ["invalid id 999 - object does not exist"]}.
func respondWithFieldErrors(w http.ResponseWriter, verr *handlers.ValidationError) {
	respondWithJSON(w, http.StatusBadRequest, verr.Fields)
}
