package handlers

import (
	"context"
	"fmt"

	"github.com/giannis84/star-catalog/internal/database"
	"github.com/giannis84/star-catalog/internal/models"
)

// MergedItem is one row of the per-user catalog view. DisplayName is the
// user's alias when the item is favourited with one, the canonical name
// otherwise. Rows are computed per request and never persisted.
type MergedItem[T models.CatalogItem] struct {
	Item        T
	DisplayName string
	IsFavourite bool
}

// ListWithFavourites builds the merged per-user view of one catalog kind.
//
// Without a name filter every item of the kind is returned. With a filter the
// result is the union of items whose canonical name equals the filter exactly
// and items the user has aliased to exactly the filter, deduplicated by item
// id. Matching is strict string equality, never substring.
//
// The favourite/alias annotation on each returned row always reflects the
// user's full favourite set: the filter narrows which items appear, but a
// selected item shows its actual stored alias even when that alias differs
// from the search term or is absent.
func ListWithFavourites[T models.CatalogItem](
	ctx context.Context,
	catalog database.CatalogRepository[T],
	favourites database.FavouritesRepository,
	userID *int64,
	nameFilter *string,
) ([]MergedItem[T], error) {
	var userFavourites []models.Favourite
	if userID != nil {
		favs, err := favourites.GetUserFavouritesFromDB(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("loading user favourites: %w", err)
		}
		userFavourites = favs
	}

	var items []T
	if nameFilter == nil {
		all, err := catalog.ListFromDB(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing catalog items: %w", err)
		}
		items = all
	} else {
		nameMatches, err := catalog.ListByNameFromDB(ctx, *nameFilter)
		if err != nil {
			return nil, fmt.Errorf("listing catalog items by name: %w", err)
		}

		var aliasMatches []T
		if renamed := filterByAlias(userFavourites, *nameFilter); len(renamed) > 0 {
			ids := make([]int64, 0, len(renamed))
			for _, fav := range renamed {
				ids = append(ids, fav.ItemID)
			}
			aliasMatches, err = catalog.ListByIDsFromDB(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("listing alias-matched catalog items: %w", err)
			}
		}

		items = unionByID(nameMatches, aliasMatches)
	}

	favouriteMap := buildFavouriteMap(userFavourites)

	merged := make([]MergedItem[T], 0, len(items))
	for _, item := range items {
		row := MergedItem[T]{Item: item, DisplayName: item.GetName()}
		if alias, ok := favouriteMap[item.GetID()]; ok {
			row.IsFavourite = true
			if alias != nil && *alias != "" {
				row.DisplayName = *alias
			}
		}
		merged = append(merged, row)
	}
	return merged, nil
}

// filterByAlias keeps only favourites whose alias equals name exactly.
// Favourites without an alias never match.
func filterByAlias(favourites []models.Favourite, name string) []models.Favourite {
	var matched []models.Favourite
	for _, fav := range favourites {
		if fav.Alias != nil && *fav.Alias == name {
			matched = append(matched, fav)
		}
	}
	return matched
}

// buildFavouriteMap keys the user's favourites by item id. A nil value means
// the item is favourited without an alias.
func buildFavouriteMap(favourites []models.Favourite) map[int64]*string {
	m := make(map[int64]*string, len(favourites))
	for _, fav := range favourites {
		m[fav.ItemID] = fav.Alias
	}
	return m
}

// unionByID merges two slices already in ascending-id order, dropping
// duplicate ids, so the result keeps the store's natural iteration order.
func unionByID[T models.CatalogItem](a, b []T) []T {
	merged := make([]T, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].GetID() < b[j].GetID():
			merged = append(merged, a[i])
			i++
		case a[i].GetID() > b[j].GetID():
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}
