package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/giannis84/star-catalog/internal/models"
	"github.com/lib/pq"
)

// MoviesPostgres implements CatalogRepository[models.Movie] using PostgreSQL.
type MoviesPostgres struct {
	db *sql.DB
}

// NewMoviesPostgres creates a movie repository backed by the given *sql.DB.
func NewMoviesPostgres(db *sql.DB) *MoviesPostgres {
	return &MoviesPostgres{db: db}
}

func (r *MoviesPostgres) ListFromDB(ctx context.Context) ([]models.Movie, error) {
	const query = `
		SELECT id, title, release_date, created, updated, url
		FROM movies
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows)
}

func (r *MoviesPostgres) ListByNameFromDB(ctx context.Context, name string) ([]models.Movie, error) {
	const query = `
		SELECT id, title, release_date, created, updated, url
		FROM movies
		WHERE title = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("querying movies by title: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows)
}

func (r *MoviesPostgres) ListByIDsFromDB(ctx context.Context, ids []int64) ([]models.Movie, error) {
	const query = `
		SELECT id, title, release_date, created, updated, url
		FROM movies
		WHERE id = ANY($1)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("querying movies by ids: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows)
}

func (r *MoviesPostgres) GetFromDB(ctx context.Context, id int64) (models.Movie, error) {
	const query = `
		SELECT id, title, release_date, created, updated, url
		FROM movies
		WHERE id = $1`

	var m models.Movie
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Title, &m.ReleaseDate, &m.Created, &m.Updated, &m.URL,
	)
	if err == sql.ErrNoRows {
		return models.Movie{}, ErrNotFound
	}
	if err != nil {
		return models.Movie{}, fmt.Errorf("scanning movie: %w", err)
	}
	return m, nil
}

func (r *MoviesPostgres) CountInDB(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}
	return n, nil
}

func collectMovies(rows *sql.Rows) ([]models.Movie, error) {
	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		err := rows.Scan(&m.ID, &m.Title, &m.ReleaseDate, &m.Created, &m.Updated, &m.URL)
		if err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movies: %w", err)
	}

	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}
