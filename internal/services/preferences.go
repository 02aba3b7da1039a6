package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Belphemur/CineFinder/internal/models"
	"github.com/Belphemur/CineFinder/internal/store"
)

// MaxRecentSearches caps the recent search history
const MaxRecentSearches = 10

// PreferencesService stores the theme and the recent search history of each user.
type PreferencesService struct {
	store store.Store
	locks keyedMutex
}

func NewPreferencesService(s store.Store) *PreferencesService {
	return &PreferencesService{store: s}
}

// Theme returns the stored theme, or the default when none is stored.
func (p *PreferencesService) Theme(ctx context.Context, username string) (models.ThemeMode, error) {
	var theme models.ThemeMode
	found, err := store.LoadJSON(ctx, p.store, store.ThemeKey(username), &theme)
	if err != nil {
		return models.DefaultTheme, fmt.Errorf("load theme: %w", err)
	}
	if !found {
		return models.DefaultTheme, nil
	}
	return theme, nil
}

func (p *PreferencesService) SetTheme(ctx context.Context, username string, theme models.ThemeMode) error {
	if err := store.SaveJSON(ctx, p.store, store.ThemeKey(username), theme, 0); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ToggleTheme flips the stored theme and returns the new value.
func (p *PreferencesService) ToggleTheme(ctx context.Context, username string) (models.ThemeMode, error) {
	unlock := p.locks.Lock(store.ThemeKey(username))
	defer unlock()

	current, err := p.Theme(ctx, username)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := p.SetTheme(ctx, username, next); err != nil {
		return current, err
	}
	return next, nil
}

// RecentSearches returns the history, most recent first.
func (p *PreferencesService) RecentSearches(ctx context.Context, username string) ([]string, error) {
	var searches []string
	found, err := store.LoadJSON(ctx, p.store, store.RecentSearchesKey(username), &searches)
	if err != nil {
		return nil, fmt.Errorf("load recent searches: %w", err)
	}
	if !found || searches == nil {
		return []string{}, nil
	}
	return searches, nil
}

// AddRecentSearch puts query at the front of the history. Blank queries are ignored,
// an earlier entry differing only in case is replaced, and the history is capped at
// MaxRecentSearches.
func (p *PreferencesService) AddRecentSearch(ctx context.Context, username, query string) ([]string, error) {
	query = strings.TrimSpace(query)

	unlock := p.locks.Lock(store.RecentSearchesKey(username))
	defer unlock()

	searches, err := p.RecentSearches(ctx, username)
	if err != nil || query == "" {
		return searches, err
	}

	updated := make([]string, 0, MaxRecentSearches)
	updated = append(updated, query)
	for _, s := range searches {
		if len(updated) == MaxRecentSearches {
			break
		}
		if !strings.EqualFold(s, query) {
			updated = append(updated, s)
		}
	}

	if err := store.SaveJSON(ctx, p.store, store.RecentSearchesKey(username), updated, 0); err != nil {
		return searches, fmt.Errorf("save recent searches: %w", err)
	}
	return updated, nil
}

func (p *PreferencesService) ClearRecentSearches(ctx context.Context, username string) error {
	if err := p.store.Delete(ctx, store.RecentSearchesKey(username)); err != nil {
		return fmt.Errorf("clear recent searches: %w", err)
	}
	return nil
}
