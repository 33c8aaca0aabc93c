package database

import (
	"context"
	"errors"

	"github.com/giannis84/star-catalog/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrItemNotFound  = errors.New("catalog item not found")
	ErrAlreadyExists = errors.New("favourite already exists")
)

// CatalogRepository is the read side of one catalog kind's storage.
// Implementations must return rows in stable ascending-id order; the overlay
// engine relies on that order when merging result sets.
type CatalogRepository[T models.CatalogItem] interface {
	ListFromDB(ctx context.Context) ([]T, error)
	ListByNameFromDB(ctx context.Context, name string) ([]T, error)
	ListByIDsFromDB(ctx context.Context, ids []int64) ([]T, error)
	GetFromDB(ctx context.Context, id int64) (T, error)
	CountInDB(ctx context.Context) (int64, error)
}

// FavouritesRepository manages per-user favourite storage for one catalog kind.
type FavouritesRepository interface {
	GetUserFavouritesFromDB(ctx context.Context, userID int64) ([]models.Favourite, error)
	AddFavouriteInDB(ctx context.Context, favourite *models.Favourite) error
	CountInDB(ctx context.Context) (int64, error)
}
