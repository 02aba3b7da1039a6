package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/metrics"
	"github.com/Belphemur/CineFinder/internal/models"
	"github.com/Belphemur/CineFinder/internal/store"
)

// FavoritesService manages each user's saved movies. A movie appears at most once
// per user; the list keeps insertion order.
type FavoritesService struct {
	store store.Store
	locks keyedMutex
	now   func() time.Time
}

func NewFavoritesService(s store.Store) *FavoritesService {
	return &FavoritesService{store: s, now: time.Now}
}

// List returns the user's favorites, oldest first. Unreadable stored data yields an empty list.
func (f *FavoritesService) List(ctx context.Context, username string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	found, err := store.LoadJSON(ctx, f.store, store.FavoritesKey(username), &favorites)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if !found || favorites == nil {
		return []models.Favorite{}, nil
	}
	return favorites, nil
}

// Add saves movie for the user. It reports false when the movie was already a favorite.
func (f *FavoritesService) Add(ctx context.Context, username string, movie models.Movie) (bool, error) {
	if movie.ID <= 0 {
		return false, &apperrors.ErrInvalidInput{Field: "movie id", Reason: "must be positive"}
	}

	unlock := f.locks.Lock(username)
	defer unlock()

	favorites, err := f.List(ctx, username)
	if err != nil {
		metrics.FavoritesOperationsTotal.WithLabelValues("add", metrics.StatusError).Inc()
		return false, err
	}
	if indexOf(favorites, movie.ID) >= 0 {
		metrics.FavoritesOperationsTotal.WithLabelValues("add", "duplicate").Inc()
		return false, nil
	}

	favorites = append(favorites, models.Favorite{Movie: movie, AddedAt: f.now()})
	if err := f.save(ctx, username, favorites); err != nil {
		metrics.FavoritesOperationsTotal.WithLabelValues("add", metrics.StatusError).Inc()
		return false, err
	}

	metrics.FavoritesOperationsTotal.WithLabelValues("add", metrics.StatusSuccess).Inc()
	logger := config.GetLogger()
	logger.Debug().Str("username", username).Int("movieID", movie.ID).Msg("Added favorite")
	return true, nil
}

// Remove drops the movie from the user's favorites. It reports false when it was not there.
func (f *FavoritesService) Remove(ctx context.Context, username string, movieID int) (bool, error) {
	unlock := f.locks.Lock(username)
	defer unlock()

	favorites, err := f.List(ctx, username)
	if err != nil {
		metrics.FavoritesOperationsTotal.WithLabelValues("remove", metrics.StatusError).Inc()
		return false, err
	}
	idx := indexOf(favorites, movieID)
	if idx < 0 {
		metrics.FavoritesOperationsTotal.WithLabelValues("remove", metrics.StatusNotFound).Inc()
		return false, nil
	}

	favorites = append(favorites[:idx], favorites[idx+1:]...)
	if err := f.save(ctx, username, favorites); err != nil {
		metrics.FavoritesOperationsTotal.WithLabelValues("remove", metrics.StatusError).Inc()
		return false, err
	}

	metrics.FavoritesOperationsTotal.WithLabelValues("remove", metrics.StatusSuccess).Inc()
	return true, nil
}

func (f *FavoritesService) IsFavorite(ctx context.Context, username string, movieID int) (bool, error) {
	favorites, err := f.List(ctx, username)
	if err != nil {
		return false, err
	}
	return indexOf(favorites, movieID) >= 0, nil
}

// Clear removes every favorite of the user.
func (f *FavoritesService) Clear(ctx context.Context, username string) error {
	unlock := f.locks.Lock(username)
	defer unlock()

	if err := f.store.Delete(ctx, store.FavoritesKey(username)); err != nil {
		metrics.FavoritesOperationsTotal.WithLabelValues("clear", metrics.StatusError).Inc()
		return fmt.Errorf("clear favorites: %w", err)
	}
	metrics.FavoritesOperationsTotal.WithLabelValues("clear", metrics.StatusSuccess).Inc()
	return nil
}

func (f *FavoritesService) save(ctx context.Context, username string, favorites []models.Favorite) error {
	if err := store.SaveJSON(ctx, f.store, store.FavoritesKey(username), favorites, 0); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func indexOf(favorites []models.Favorite, movieID int) int {
	for i := range favorites {
		if favorites[i].ID == movieID {
			return i
		}
	}
	return -1
}

// keyedMutex serializes read-modify-write cycles per key.
type keyedMutex struct {
	locks sync.Map
}

func (k *keyedMutex) Lock(key string) func() {
	m, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
