package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var movieCols = []string{"id", "title", "release_date", "created", "updated", "url"}
var planetCols = []string{"id", "name", "created", "updated", "url"}

func newTestDB(t *testing.T) (sqlmock.Sqlmock, *MoviesPostgres, *PlanetsPostgres) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return mock, NewMoviesPostgres(db), NewPlanetsPostgres(db)
}

func TestMoviesListFromDB(t *testing.T) {
	now := time.Now()

	t.Run("returns movies in id order", func(t *testing.T) {
		mock, movies, _ := newTestDB(t)
		mock.ExpectQuery("SELECT .+ FROM movies ORDER BY id").
			WillReturnRows(sqlmock.NewRows(movieCols).
				AddRow(1, "A New Hope", now, now, now, "https://swapi.dev/api/films/1/").
				AddRow(2, "The Empire Strikes Back", now, now, now, "https://swapi.dev/api/films/2/"))

		got, err := movies.ListFromDB(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 movies, got %d", len(got))
		}
		if got[0].ID != 1 || got[0].Title != "A New Hope" {
			t.Errorf("unexpected first movie: %+v", got[0])
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("returns empty slice for empty catalog", func(t *testing.T) {
		mock, movies, _ := newTestDB(t)
		mock.ExpectQuery("SELECT .+ FROM movies ORDER BY id").
			WillReturnRows(sqlmock.NewRows(movieCols))

		got, err := movies.ListFromDB(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mock, movies, _ := newTestDB(t)
		mock.ExpectQuery("SELECT .+ FROM movies").
			WillReturnError(fmt.Errorf("connection failed"))

		if _, err := movies.ListFromDB(context.Background()); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestMoviesListByNameFromDB(t *testing.T) {
	now := time.Now()
	mock, movies, _ := newTestDB(t)
	mock.ExpectQuery("SELECT .+ FROM movies WHERE title").
		WithArgs("A New Hope").
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(1, "A New Hope", now, now, now, "https://swapi.dev/api/films/1/"))

	got, err := movies.ListByNameFromDB(context.Background(), "A New Hope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "A New Hope" {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMoviesListByIDsFromDB(t *testing.T) {
	now := time.Now()
	mock, movies, _ := newTestDB(t)
	mock.ExpectQuery("SELECT .+ FROM movies WHERE id = ANY").
		WithArgs(pq.Array([]int64{1, 3})).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(1, "A New Hope", now, now, now, "u1").
			AddRow(3, "Return of the Jedi", now, now, now, "u3"))

	got, err := movies.ListByIDsFromDB(context.Background(), []int64{1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].ID != 3 {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMoviesGetFromDB(t *testing.T) {
	now := time.Now()

	t.Run("returns movie", func(t *testing.T) {
		mock, movies, _ := newTestDB(t)
		mock.ExpectQuery("SELECT .+ FROM movies WHERE id").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(movieCols).
				AddRow(1, "A New Hope", now, now, now, "u1"))

		got, err := movies.GetFromDB(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != 1 {
			t.Errorf("unexpected movie: %+v", got)
		}
	})

	t.Run("returns ErrNotFound for missing id", func(t *testing.T) {
		mock, movies, _ := newTestDB(t)
		mock.ExpectQuery("SELECT .+ FROM movies WHERE id").
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(movieCols))

		if _, err := movies.GetFromDB(context.Background(), 999); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPlanetsListFromDB(t *testing.T) {
	now := time.Now()
	mock, _, planets := newTestDB(t)
	mock.ExpectQuery("SELECT .+ FROM planets ORDER BY id").
		WillReturnRows(sqlmock.NewRows(planetCols).
			AddRow(1, "Tatooine", now, now, "https://swapi.dev/api/planets/1/"))

	got, err := planets.ListFromDB(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Tatooine" {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlanetsGetFromDB_NotFound(t *testing.T) {
	mock, _, planets := newTestDB(t)
	mock.ExpectQuery("SELECT .+ FROM planets WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(planetCols))

	if _, err := planets.GetFromDB(context.Background(), 42); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogCountInDB(t *testing.T) {
	mock, movies, _ := newTestDB(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	n, err := movies.CountInDB(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 6 {
		t.Errorf("expected 6, got %d", n)
	}
}
