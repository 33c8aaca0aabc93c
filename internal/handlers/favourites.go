package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/giannis84/star-catalog/internal/database"
	"github.com/giannis84/star-catalog/internal/models"
)

// AddFavourite validates and records one (user, item, optional alias) tuple.
//
// Validation order: the item must exist in the catalog, the user id must be a
// positive integer, the alias must fit the column, and the (user, item) pair
// must not already be favourited. The pair check is not a pre-read; it is the
// store's atomic uniqueness constraint surfacing as ErrAlreadyExists, so two
// concurrent registrations for the same pair cannot both succeed.
//
// On success the returned favourite carries its generated id.
func AddFavourite[T models.CatalogItem](
	ctx context.Context,
	catalog database.CatalogRepository[T],
	favourites database.FavouritesRepository,
	userID int64,
	itemID int64,
	alias *string,
) (*models.Favourite, error) {
	var zero T
	kind := zero.GetKind()

	if _, err := catalog.GetFromDB(ctx, itemID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewValidationError(string(kind),
				fmt.Sprintf("invalid id %d - object does not exist", itemID))
		}
		return nil, fmt.Errorf("checking catalog item: %w", err)
	}

	if userID <= 0 {
		return nil, NewValidationError("user_id", "a positive integer is required")
	}

	if alias != nil && len(*alias) > maxNameLength {
		return nil, NewValidationError(aliasField(kind),
			fmt.Sprintf("ensure this field has no more than %d characters", maxNameLength))
	}

	favourite := &models.Favourite{
		UserID: userID,
		ItemID: itemID,
		Alias:  alias,
		Kind:   kind,
	}

	if err := favourites.AddFavouriteInDB(ctx, favourite); err != nil {
		switch {
		case errors.Is(err, database.ErrAlreadyExists):
			return nil, NewValidationError("non_field_errors",
				fmt.Sprintf("the fields user_id, %s must make a unique set", kind))
		case errors.Is(err, database.ErrItemNotFound):
			// The item was deleted between the existence check and the insert.
			return nil, NewValidationError(string(kind),
				fmt.Sprintf("invalid id %d - object does not exist", itemID))
		default:
			return nil, fmt.Errorf("storing favourite: %w", err)
		}
	}

	return favourite, nil
}
