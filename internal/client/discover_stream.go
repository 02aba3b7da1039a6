package client

import (
	"context"
	"sync"

	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
)

// pageBatchSize controls how many pages are fetched in parallel at once.
const pageBatchSize = 5

// StreamDiscover fetches page 1 to learn the total page count, then fetches the remaining
// pages in parallel batches of pageBatchSize. Movies are deduplicated by ID on the fly
// since popularity ordering shifts between page requests.
func (c *client) StreamDiscover(ctx context.Context, filters models.Filters, maxPages int) <-chan models.StreamResult[models.Movie] {
	ch := make(chan models.StreamResult[models.Movie])

	go func() {
		defer close(ch)
		logger := config.GetLogger()

		first, err := c.Discover(ctx, filters, 1)
		if err != nil {
			select {
			case ch <- models.StreamResult[models.Movie]{Err: err}:
			case <-ctx.Done():
			}
			return
		}

		var seen sync.Map
		if !streamMovies(ctx, first.Results, &seen, ch) {
			return
		}

		lastPage := min(first.TotalPages, maxPage)
		if maxPages > 0 {
			lastPage = min(lastPage, maxPages)
		}
		if lastPage <= 1 {
			return
		}

		logger.Info().Int("totalPages", lastPage).Interface("filters", filters).Msg("Streaming discover pages in parallel")

		for batchStart := 2; batchStart <= lastPage; batchStart += pageBatchSize {
			batchEnd := min(batchStart+pageBatchSize-1, lastPage)

			var batchWg sync.WaitGroup
			batchWg.Add(batchEnd - batchStart + 1)

			for page := batchStart; page <= batchEnd; page++ {
				go func() {
					defer batchWg.Done()

					result, err := c.Discover(ctx, filters, page)
					if err != nil {
						logger.Warn().Err(err).Int("page", page).Msg("Failed to fetch discover page")
						select {
						case ch <- models.StreamResult[models.Movie]{Err: err}:
						case <-ctx.Done():
						}
						return
					}
					streamMovies(ctx, result.Results, &seen, ch)
				}()
			}

			batchWg.Wait()

			if ctx.Err() != nil {
				return
			}
		}

		logger.Debug().Int("totalPages", lastPage).Msg("Completed streaming discover pages")
	}()

	return ch
}

// streamMovies sends unseen movies to ch. It returns false when the context was cancelled.
func streamMovies(ctx context.Context, movies []models.Movie, seen *sync.Map, ch chan<- models.StreamResult[models.Movie]) bool {
	for _, m := range movies {
		if _, exists := seen.LoadOrStore(m.ID, struct{}{}); exists {
			continue
		}
		select {
		case ch <- models.StreamResult[models.Movie]{Value: m}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
