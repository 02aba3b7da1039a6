package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
)

// Image sizes requested for list posters and backdrops
const (
	posterSize   = "w500"
	backdropSize = "original"
	profileSize  = "w185"
)

// maxPage is the highest page TMDB serves for list endpoints.
const maxPage = 500

func (c *client) Trending(ctx context.Context) (*models.MoviePage, error) {
	return c.moviePage(ctx, "/trending/movie/week", "/trending/movie/week", url.Values{})
}

func (c *client) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.moviePage(ctx, "/movie/popular", "/movie/popular", pageParams(page))
}

func (c *client) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.moviePage(ctx, "/movie/top_rated", "/movie/top_rated", pageParams(page))
}

func (c *client) Upcoming(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.moviePage(ctx, "/movie/upcoming", "/movie/upcoming", pageParams(page))
}

// Search looks movies up by title. Set filter fields narrow the results.
func (c *client) Search(ctx context.Context, query string, page int, filters models.Filters) (*models.MoviePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &apperrors.ErrInvalidInput{Field: "query", Reason: "must not be empty"}
	}

	logger := config.GetLogger()
	logger.Debug().Str("query", query).Int("page", page).Interface("filters", filters).Msg("Searching movies")

	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", "false")
	mergeParams(params, filters.QueryParams())

	return c.moviePage(ctx, "/search/movie", "/search/movie", params)
}

// Discover lists movies by popularity, constrained by the set filter fields
func (c *client) Discover(ctx context.Context, filters models.Filters, page int) (*models.MoviePage, error) {
	params := pageParams(page)
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	mergeParams(params, filters.QueryParams())

	return c.moviePage(ctx, "/discover/movie", "/discover/movie", params)
}

func (c *client) Similar(ctx context.Context, movieID int) ([]models.Movie, error) {
	if movieID <= 0 {
		return nil, &apperrors.ErrInvalidInput{Field: "movie id", Reason: "must be positive"}
	}
	page, err := c.moviePage(ctx, "/movie/{id}/similar", fmt.Sprintf("/movie/%d/similar", movieID), url.Values{})
	if err != nil {
		return nil, asMovieNotFound(err, movieID)
	}
	return page.Results, nil
}

func (c *client) Genres(ctx context.Context) ([]models.Genre, error) {
	var payload struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", "/genre/movie/list", url.Values{}, &payload); err != nil {
		return nil, err
	}
	if payload.Genres == nil {
		payload.Genres = []models.Genre{}
	}
	return payload.Genres, nil
}

func (c *client) moviePage(ctx context.Context, endpoint, path string, params url.Values) (*models.MoviePage, error) {
	var page models.MoviePage
	if err := c.get(ctx, endpoint, path, params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []models.Movie{}
	}
	// TMDB reports more pages than it serves
	page.TotalPages = min(page.TotalPages, maxPage)
	for i := range page.Results {
		c.resolveImages(&page.Results[i])
	}
	return &page, nil
}

func (c *client) resolveImages(m *models.Movie) {
	m.PosterURL = models.ImageURL(c.imageBaseURL, m.PosterPath, posterSize)
	m.BackdropURL = models.ImageURL(c.imageBaseURL, m.BackdropPath, backdropSize)
}

// pageParams clamps page to TMDB's accepted range
func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}

func mergeParams(dst, src url.Values) {
	for k, v := range src {
		dst[k] = v
	}
}
