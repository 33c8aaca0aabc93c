package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/giannis84/star-catalog/internal/models"
	"github.com/lib/pq"
)

// FavouritesPostgres implements FavouritesRepository using PostgreSQL.
// One instance serves one catalog kind; the per-kind table and column names
// are fixed at construction, never caller-supplied.
type FavouritesPostgres struct {
	db       *sql.DB
	kind     models.Kind
	table    string
	itemCol  string
	aliasCol string
}

// NewFavouriteMoviesPostgres creates the favourites repository for movies.
func NewFavouriteMoviesPostgres(db *sql.DB) *FavouritesPostgres {
	return &FavouritesPostgres{
		db:       db,
		kind:     models.KindMovie,
		table:    "favourite_movies",
		itemCol:  "movie_id",
		aliasCol: "custom_title",
	}
}

// NewFavouritePlanetsPostgres creates the favourites repository for planets.
func NewFavouritePlanetsPostgres(db *sql.DB) *FavouritesPostgres {
	return &FavouritesPostgres{
		db:       db,
		kind:     models.KindPlanet,
		table:    "favourite_planets",
		itemCol:  "planet_id",
		aliasCol: "custom_name",
	}
}

func (r *FavouritesPostgres) GetUserFavouritesFromDB(ctx context.Context, userID int64) ([]models.Favourite, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, %s, %s
		FROM %s
		WHERE user_id = $1
		ORDER BY id`, r.itemCol, r.aliasCol, r.table)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user favourites: %w", err)
	}
	defer rows.Close()

	var favourites []models.Favourite
	for rows.Next() {
		var fav models.Favourite
		var alias sql.NullString
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.ItemID, &alias); err != nil {
			return nil, fmt.Errorf("scanning favourite row: %w", err)
		}
		if alias.Valid {
			fav.Alias = &alias.String
		}
		fav.Kind = r.kind
		favourites = append(favourites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user favourites: %w", err)
	}

	if favourites == nil {
		favourites = []models.Favourite{}
	}
	return favourites, nil
}

// AddFavouriteInDB inserts the favourite and fills in its generated id.
// Uniqueness of the (user, item) pair and existence of the referenced item
// are both enforced atomically by the database constraints, so concurrent
// registrations for the same pair cannot both succeed.
func (r *FavouritesPostgres) AddFavouriteInDB(ctx context.Context, favourite *models.Favourite) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING id`, r.table, r.itemCol, r.aliasCol)

	var alias sql.NullString
	if favourite.Alias != nil {
		alias = sql.NullString{String: *favourite.Alias, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, favourite.UserID, favourite.ItemID, alias).
		Scan(&favourite.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return ErrItemNotFound
		}
		return fmt.Errorf("inserting favourite: %w", err)
	}

	favourite.Kind = r.kind
	return nil
}

func (r *FavouritesPostgres) CountInDB(ctx context.Context) (int64, error) {
	var n int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting favourites: %w", err)
	}
	return n, nil
}

// isUniqueViolation checks if a PostgreSQL error is a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pge *pq.Error
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}

// isForeignKeyViolation checks if a PostgreSQL error is a foreign key violation (23503).
func isForeignKeyViolation(err error) bool {
	var pge *pq.Error
	if errors.As(err, &pge) {
		return pge.Code == "23503"
	}
	return false
}
