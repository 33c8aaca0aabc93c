package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/giannis84/star-catalog/internal/models"
	"github.com/lib/pq"
)

var favouriteMovieCols = []string{"id", "user_id", "movie_id", "custom_title"}

func newFavouritesRepo(t *testing.T) (*FavouritesPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFavouriteMoviesPostgres(db), mock
}

func TestGetUserFavouritesFromDB(t *testing.T) {
	t.Run("returns favourites with and without alias", func(t *testing.T) {
		repo, mock := newFavouritesRepo(t)
		mock.ExpectQuery("SELECT .+ FROM favourite_movies WHERE user_id").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(favouriteMovieCols).
				AddRow(1, 7, 1, "MyAlpha").
				AddRow(2, 7, 2, nil))

		favs, err := repo.GetUserFavouritesFromDB(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(favs) != 2 {
			t.Fatalf("expected 2, got %d", len(favs))
		}
		if favs[0].Alias == nil || *favs[0].Alias != "MyAlpha" {
			t.Errorf("expected alias MyAlpha, got %+v", favs[0].Alias)
		}
		if favs[1].Alias != nil {
			t.Errorf("expected nil alias, got %q", *favs[1].Alias)
		}
		if favs[0].Kind != models.KindMovie {
			t.Errorf("expected kind movie, got %s", favs[0].Kind)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("returns empty for unknown user", func(t *testing.T) {
		repo, mock := newFavouritesRepo(t)
		mock.ExpectQuery("SELECT .+ FROM favourite_movies WHERE user_id").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(favouriteMovieCols))

		favs, err := repo.GetUserFavouritesFromDB(context.Background(), 99)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if favs == nil || len(favs) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", favs)
		}
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		repo, mock := newFavouritesRepo(t)
		mock.ExpectQuery("SELECT .+ FROM favourite_movies WHERE user_id").
			WillReturnError(fmt.Errorf("connection failed"))

		if _, err := repo.GetUserFavouritesFromDB(context.Background(), 7); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestAddFavouriteInDB(t *testing.T) {
	t.Run("inserts and fills generated id", func(t *testing.T) {
		repo, mock := newFavouritesRepo(t)
		alias := "MyAlpha"
		mock.ExpectQuery("INSERT INTO favourite_movies").
			WithArgs(int64(7), int64(1), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		fav := &models.Favourite{UserID: 7, ItemID: 1, Alias: &alias}
		if err := repo.AddFavouriteInDB(context.Background(), fav); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fav.ID != 5 {
			t.Errorf("expected generated id 5, got %d", fav.ID)
		}
		if fav.Kind != models.KindMovie {
			t.Errorf("expected kind movie, got %s", fav.Kind)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("maps unique violation to ErrAlreadyExists", func(t *testing.T) {
		repo, mock := newFavouritesRepo(t)
		mock.ExpectQuery("INSERT INTO favourite_movies").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.AddFavouriteInDB(context.Background(), &models.Favourite{UserID: 7, ItemID: 1})
		if err != ErrAlreadyExists {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("maps foreign key violation to ErrItemNotFound", func(t *testing.T) {
		repo, mock := newFavouritesRepo(t)
		mock.ExpectQuery("INSERT INTO favourite_movies").
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.AddFavouriteInDB(context.Background(), &models.Favourite{UserID: 7, ItemID: 999})
		if err != ErrItemNotFound {
			t.Errorf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("wraps other errors", func(t *testing.T) {
		repo, mock := newFavouritesRepo(t)
		mock.ExpectQuery("INSERT INTO favourite_movies").
			WillReturnError(fmt.Errorf("connection failed"))

		err := repo.AddFavouriteInDB(context.Background(), &models.Favourite{UserID: 7, ItemID: 1})
		if err == nil || err == ErrAlreadyExists || err == ErrItemNotFound {
			t.Errorf("expected wrapped error, got %v", err)
		}
	})
}

func TestFavouritesPlanetsUseOwnTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := NewFavouritePlanetsPostgres(db)

	mock.ExpectQuery("SELECT .+ FROM favourite_planets WHERE user_id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "planet_id", "custom_name"}).
			AddRow(1, 7, 3, "Home"))

	favs, err := repo.GetUserFavouritesFromDB(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(favs) != 1 || favs[0].Kind != models.KindPlanet || favs[0].ItemID != 3 {
		t.Errorf("unexpected favourites: %+v", favs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
