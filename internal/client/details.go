package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
)

// maxCast is the number of cast members kept on a details record
const maxCast = 10

type videosResponse struct {
	Results []models.Video `json:"results"`
}

type creditsResponse struct {
	Cast []models.CastMember `json:"cast"`
	Crew []models.CrewMember `json:"crew"`
}

// MovieDetails fetches the movie record, its videos and its credits in parallel.
// The call fails if any of the three requests fails.
func (c *client) MovieDetails(ctx context.Context, movieID int) (*models.MovieDetails, error) {
	if movieID <= 0 {
		return nil, &apperrors.ErrInvalidInput{Field: "movie id", Reason: "must be positive"}
	}

	logger := config.GetLogger()
	logger.Debug().Int("movieID", movieID).Msg("Fetching movie details")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		details models.MovieDetails
		videos  videosResponse
		credits creditsResponse

		wg       sync.WaitGroup
		errsMu   sync.Mutex
		firstErr error
	)

	fetch := func(endpoint, path string, dst any) {
		defer wg.Done()
		if err := c.get(ctx, endpoint, path, url.Values{}, dst); err != nil {
			errsMu.Lock()
			if firstErr == nil || errors.Is(firstErr, context.Canceled) {
				firstErr = err
			}
			errsMu.Unlock()
			cancel()
		}
	}

	wg.Add(3)
	go fetch("/movie/{id}", fmt.Sprintf("/movie/%d", movieID), &details)
	go fetch("/movie/{id}/videos", fmt.Sprintf("/movie/%d/videos", movieID), &videos)
	go fetch("/movie/{id}/credits", fmt.Sprintf("/movie/%d/credits", movieID), &credits)
	wg.Wait()

	if firstErr != nil {
		return nil, asMovieNotFound(firstErr, movieID)
	}

	c.resolveImages(&details.Movie)
	details.Videos = nonNil(videos.Results)
	details.Cast = nonNil(credits.Cast)
	if len(details.Cast) > maxCast {
		details.Cast = details.Cast[:maxCast]
	}
	for i := range details.Cast {
		details.Cast[i].ProfileURL = models.ImageURL(c.imageBaseURL, details.Cast[i].ProfilePath, profileSize)
	}
	details.Crew = nonNil(credits.Crew)
	details.Genres = nonNil(details.Genres)

	return &details, nil
}

func asMovieNotFound(err error, movieID int) error {
	if errors.Is(err, &apperrors.ErrNotFound{}) {
		return apperrors.NewMovieNotFoundError(movieID)
	}
	return err
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
