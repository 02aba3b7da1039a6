package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/Belphemur/CineFinder/internal/config"
)

// LoadJSON decodes the value stored under key into dst.
//
// found is false when the key is absent. A value that does not decode is treated
// the same way: it is logged, removed, and reported as absent so callers fall back
// to their defaults.
func LoadJSON(ctx context.Context, s Store, key string, dst any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("key", key).Msg("Discarding malformed stored value")
		if delErr := s.Delete(ctx, key); delErr != nil {
			logger.Error().Err(delErr).Str("key", key).Msg("Failed to delete malformed stored value")
		}
		return false, nil
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
