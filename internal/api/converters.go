package api

import (
	"github.com/Belphemur/CineFinder/internal/models"
)

// MaxSimilarMovies caps the similar list of a movie
const MaxSimilarMovies = 8

// movieDetailsResponse is a details record with the display fields derived from it.
type movieDetailsResponse struct {
	models.MovieDetails
	ReleaseYear  string              `json:"release_year"`
	ReleaseLabel string              `json:"release_label"`
	RuntimeLabel string              `json:"runtime_label"`
	BudgetLabel  string              `json:"budget_label"`
	RevenueLabel string              `json:"revenue_label"`
	Directors    []models.CrewMember `json:"directors"`
	TrailerURL   string              `json:"trailer_url,omitempty"`
	IsFavorite   bool                `json:"is_favorite"`
}

func convertMovieDetails(details *models.MovieDetails, isFavorite bool) movieDetailsResponse {
	resp := movieDetailsResponse{
		MovieDetails: *details,
		ReleaseYear:  details.Year(),
		ReleaseLabel: models.FormatDate(details.ReleaseDate),
		RuntimeLabel: models.FormatRuntime(details.Runtime),
		BudgetLabel:  money(details.Budget),
		RevenueLabel: money(details.Revenue),
		Directors:    details.Directors(),
		IsFavorite:   isFavorite,
	}
	if trailer := details.Trailer(); trailer != nil {
		resp.TrailerURL = models.YouTubeEmbedURL(trailer.Key)
	}
	return resp
}

func money(amount int64) string {
	if amount <= 0 {
		return models.FormatNumber(0)
	}
	return "$" + models.FormatNumber(amount)
}

func limitMovies(movies []models.Movie, n int) []models.Movie {
	if len(movies) > n {
		return movies[:n]
	}
	return movies
}
