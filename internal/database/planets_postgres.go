package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/giannis84/star-catalog/internal/models"
	"github.com/lib/pq"
)

// PlanetsPostgres implements CatalogRepository[models.Planet] using PostgreSQL.
type PlanetsPostgres struct {
	db *sql.DB
}

// NewPlanetsPostgres creates a planet repository backed by the given *sql.DB.
func NewPlanetsPostgres(db *sql.DB) *PlanetsPostgres {
	return &PlanetsPostgres{db: db}
}

func (r *PlanetsPostgres) ListFromDB(ctx context.Context) ([]models.Planet, error) {
	const query = `
		SELECT id, name, created, updated, url
		FROM planets
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying planets: %w", err)
	}
	defer rows.Close()

	return collectPlanets(rows)
}

func (r *PlanetsPostgres) ListByNameFromDB(ctx context.Context, name string) ([]models.Planet, error) {
	const query = `
		SELECT id, name, created, updated, url
		FROM planets
		WHERE name = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("querying planets by name: %w", err)
	}
	defer rows.Close()

	return collectPlanets(rows)
}

func (r *PlanetsPostgres) ListByIDsFromDB(ctx context.Context, ids []int64) ([]models.Planet, error) {
	const query = `
		SELECT id, name, created, updated, url
		FROM planets
		WHERE id = ANY($1)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("querying planets by ids: %w", err)
	}
	defer rows.Close()

	return collectPlanets(rows)
}

func (r *PlanetsPostgres) GetFromDB(ctx context.Context, id int64) (models.Planet, error) {
	const query = `
		SELECT id, name, created, updated, url
		FROM planets
		WHERE id = $1`

	var p models.Planet
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Created, &p.Updated, &p.URL,
	)
	if err == sql.ErrNoRows {
		return models.Planet{}, ErrNotFound
	}
	if err != nil {
		return models.Planet{}, fmt.Errorf("scanning planet: %w", err)
	}
	return p, nil
}

func (r *PlanetsPostgres) CountInDB(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM planets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting planets: %w", err)
	}
	return n, nil
}

func collectPlanets(rows *sql.Rows) ([]models.Planet, error) {
	var planets []models.Planet
	for rows.Next() {
		var p models.Planet
		err := rows.Scan(&p.ID, &p.Name, &p.Created, &p.Updated, &p.URL)
		if err != nil {
			return nil, fmt.Errorf("scanning planet row: %w", err)
		}
		planets = append(planets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planets: %w", err)
	}

	if planets == nil {
		planets = []models.Planet{}
	}
	return planets, nil
}
