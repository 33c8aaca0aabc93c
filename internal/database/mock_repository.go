package database

import (
	"context"
	"sort"
	"sync"

	"github.com/giannis84/star-catalog/internal/models"
)

// MockCatalogRepository is a simple in-memory CatalogRepository intended for unit tests only.
type MockCatalogRepository[T models.CatalogItem] struct {
	mu    sync.RWMutex
	items map[int64]T
}

// NewMockCatalogRepository returns a MockCatalogRepository for testing.
func NewMockCatalogRepository[T models.CatalogItem]() *MockCatalogRepository[T] {
	return &MockCatalogRepository[T]{items: make(map[int64]T)}
}

// Put stores or replaces an item, bypassing any validation.
func (r *MockCatalogRepository[T]) Put(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.GetID()] = item
}

func (r *MockCatalogRepository[T]) ListFromDB(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, item)
	}
	sortByID(result)
	return result, nil
}

func (r *MockCatalogRepository[T]) ListByNameFromDB(_ context.Context, name string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, 0)
	for _, item := range r.items {
		if item.GetName() == name {
			result = append(result, item)
		}
	}
	sortByID(result)
	return result, nil
}

func (r *MockCatalogRepository[T]) ListByIDsFromDB(_ context.Context, ids []int64) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, 0)
	for _, id := range ids {
		if item, exists := r.items[id]; exists {
			result = append(result, item)
		}
	}
	sortByID(result)
	return result, nil
}

func (r *MockCatalogRepository[T]) GetFromDB(_ context.Context, id int64) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		var zero T
		return zero, ErrNotFound
	}
	return item, nil
}

func (r *MockCatalogRepository[T]) CountInDB(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func sortByID[T models.CatalogItem](items []T) {
	sort.Slice(items, func(i, j int) bool { return items[i].GetID() < items[j].GetID() })
}

// MockFavouritesRepository is a simple in-memory FavouritesRepository intended for unit tests only.
type MockFavouritesRepository struct {
	mu         sync.RWMutex
	kind       models.Kind
	nextID     int64
	favourites map[int64]map[int64]models.Favourite
}

// NewMockFavouritesRepository returns a MockFavouritesRepository for testing.
func NewMockFavouritesRepository(kind models.Kind) *MockFavouritesRepository {
	return &MockFavouritesRepository{
		kind:       kind,
		nextID:     1,
		favourites: make(map[int64]map[int64]models.Favourite),
	}
}

func (r *MockFavouritesRepository) GetUserFavouritesFromDB(_ context.Context, userID int64) ([]models.Favourite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userFavourites, exists := r.favourites[userID]
	if !exists {
		return []models.Favourite{}, nil
	}

	result := make([]models.Favourite, 0, len(userFavourites))
	for _, fav := range userFavourites {
		result = append(result, fav)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MockFavouritesRepository) AddFavouriteInDB(_ context.Context, favourite *models.Favourite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.favourites[favourite.UserID]; !exists {
		r.favourites[favourite.UserID] = make(map[int64]models.Favourite)
	}

	if _, exists := r.favourites[favourite.UserID][favourite.ItemID]; exists {
		return ErrAlreadyExists
	}

	favourite.ID = r.nextID
	favourite.Kind = r.kind
	r.nextID++
	r.favourites[favourite.UserID][favourite.ItemID] = *favourite
	return nil
}

func (r *MockFavouritesRepository) CountInDB(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, userFavourites := range r.favourites {
		n += int64(len(userFavourites))
	}
	return n, nil
}
