package testutil

import (
	"context"

	"github.com/Belphemur/CineFinder/internal/models"
)

// Collect consumes a stream and returns every value, stopping at the first error.
// This is a test helper and should not be used in production code.
func Collect[T any](ctx context.Context, stream <-chan models.StreamResult[T]) ([]T, error) {
	var values []T
	for {
		select {
		case result, ok := <-stream:
			if !ok {
				return values, nil
			}
			if result.Err != nil {
				return nil, result.Err
			}
			values = append(values, result.Value)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// CollectAll consumes a stream to the end, keeping values and errors separately.
func CollectAll[T any](ctx context.Context, stream <-chan models.StreamResult[T]) ([]T, []error) {
	var (
		values []T
		errs   []error
	)
	for {
		select {
		case result, ok := <-stream:
			if !ok {
				return values, errs
			}
			if result.Err != nil {
				errs = append(errs, result.Err)
				continue
			}
			values = append(values, result.Value)
		case <-ctx.Done():
			return values, append(errs, ctx.Err())
		}
	}
}

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// FloatPtr is a helper for creating *float64 values in tests
func FloatPtr(v float64) *float64 {
	return &v
}
