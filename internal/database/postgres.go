package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS movies (
		id           BIGSERIAL   PRIMARY KEY,
		title        TEXT        NOT NULL,
		release_date TIMESTAMPTZ NOT NULL,
		created      TIMESTAMPTZ NOT NULL,
		updated      TIMESTAMPTZ NOT NULL,
		url          TEXT        NOT NULL
	);
	CREATE INDEX IF NOT EXISTS movies_title_idx ON movies (title);

	CREATE TABLE IF NOT EXISTS planets (
		id      BIGSERIAL   PRIMARY KEY,
		name    TEXT        NOT NULL,
		created TIMESTAMPTZ NOT NULL,
		updated TIMESTAMPTZ NOT NULL,
		url     TEXT        NOT NULL
	);
	CREATE INDEX IF NOT EXISTS planets_name_idx ON planets (name);

	CREATE TABLE IF NOT EXISTS favourite_movies (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT    NOT NULL CHECK (user_id > 0),
		movie_id     BIGINT    NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		custom_title TEXT,
		UNIQUE (user_id, movie_id)
	);

	CREATE TABLE IF NOT EXISTS favourite_planets (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT    NOT NULL CHECK (user_id > 0),
		planet_id   BIGINT    NOT NULL REFERENCES planets(id) ON DELETE CASCADE,
		custom_name TEXT,
		UNIQUE (user_id, planet_id)
	);
`

// Connect opens a PostgreSQL connection pool, verifies connectivity,
// initialises the schema, and returns the ready-to-use *sql.DB.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Connection pool defaults, normally these values could be made configurable in production.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}
