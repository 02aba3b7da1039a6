// Package store persists per-user application state (accounts, sessions, favorites,
// theme, recent searches) in a key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist or has expired.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is a byte-oriented key-value store.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key. A positive ttl makes the key expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close flushes and releases the backend.
	Close() error
}

const (
	ProviderBadger = "badger"
	ProviderMemory = "memory"
)

// New opens the store for the named provider. For badger an empty path
// opens an in-memory database.
func New(provider, path string) (Store, error) {
	switch provider {
	case ProviderBadger:
		return OpenBadger(path)
	case ProviderMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown provider %q", provider)
	}
}

// Key builders. Usernames arrive already normalized by services.NormalizeUsername.

func UserKey(username string) string { return "user:" + username }
func SessionKey(id string) string { return "session:" + id }
func FavoritesKey(username string) string { return "favorites:" + username }
func ThemeKey(username string) string { return "theme:" + username }
func RecentSearchesKey(username string) string { return "recent_searches:" + username }
