// Package importer replaces the local catalog with a fresh copy of the
// upstream one. Both collections are fetched before any destructive step, and
// the wipe plus bulk insert happen inside a single transaction, so a failed
// import leaves the previous catalog untouched.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/giannis84/star-catalog/internal/swapi"
	"github.com/lib/pq"
)

// releaseDateLayout matches the bare dates the upstream sends for films.
const releaseDateLayout = "2006-01-02"

// Counts reports how many records of each kind an import run inserted.
type Counts struct {
	Movies  int `json:"movies"`
	Planets int `json:"planets"`
}

type Importer struct {
	db     *sql.DB
	client *swapi.Client
}

func New(db *sql.DB, client *swapi.Client) *Importer {
	return &Importer{db: db, client: client}
}

// Run fetches the upstream films and planets and swaps them in as the local
// catalog, mapping the upstream "edited" timestamp to the local "updated"
// column. Deleting the catalog rows cascades to the favourites tables.
func (i *Importer) Run(ctx context.Context) (Counts, error) {
	films, err := i.client.FetchAllFilms(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("fetching films: %w", err)
	}
	planets, err := i.client.FetchAllPlanets(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("fetching planets: %w", err)
	}

	releaseDates := make([]time.Time, len(films))
	for n, film := range films {
		released, err := time.Parse(releaseDateLayout, film.ReleaseDate)
		if err != nil {
			return Counts{}, fmt.Errorf("parsing release date %q for %q: %w", film.ReleaseDate, film.Title, err)
		}
		releaseDates[n] = released
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
		return Counts{}, fmt.Errorf("clearing movies: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM planets`); err != nil {
		return Counts{}, fmt.Errorf("clearing planets: %w", err)
	}

	if err := copyFilms(ctx, tx, films, releaseDates); err != nil {
		return Counts{}, err
	}
	if err := copyPlanets(ctx, tx, planets); err != nil {
		return Counts{}, err
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("committing import transaction: %w", err)
	}

	return Counts{Movies: len(films), Planets: len(planets)}, nil
}

func copyFilms(ctx context.Context, tx *sql.Tx, films []swapi.Film, releaseDates []time.Time) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("movies", "title", "release_date", "created", "updated", "url"))
	if err != nil {
		return fmt.Errorf("preparing movies copy: %w", err)
	}
	defer stmt.Close()

	for n, film := range films {
		if _, err := stmt.ExecContext(ctx, film.Title, releaseDates[n], film.Created, film.Edited, film.URL); err != nil {
			return fmt.Errorf("buffering movie %q: %w", film.Title, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flushing movies copy: %w", err)
	}
	return nil
}

func copyPlanets(ctx context.Context, tx *sql.Tx, planets []swapi.Planet) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("planets", "name", "created", "updated", "url"))
	if err != nil {
		return fmt.Errorf("preparing planets copy: %w", err)
	}
	defer stmt.Close()

	for _, planet := range planets {
		if _, err := stmt.ExecContext(ctx, planet.Name, planet.Created, planet.Edited, planet.URL); err != nil {
			return fmt.Errorf("buffering planet %q: %w", planet.Name, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flushing planets copy: %w", err)
	}
	return nil
}
