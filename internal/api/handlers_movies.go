package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/models"
)

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	feed, err := h.browse.Home(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, feed)
}

func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	page, err := h.client.Trending(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, page)
}

func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, h.client.Popular)
}

func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, h.client.TopRated)
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, h.client.Upcoming)
}

func (h *Handler) listPage(w http.ResponseWriter, r *http.Request, fetch func(context.Context, int) (*models.MoviePage, error)) {
	page, err := queryPage(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	result, err := fetch(r.Context(), page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

// Search is the stateless search; /browse/search keeps the result list per user.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respondServiceError(w, r, &apperrors.ErrInvalidInput{Field: "query", Reason: "must not be empty"})
		return
	}
	page, err := queryPage(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	filters, err := queryFilters(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.client.Search(r.Context(), query, page, filters)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	filters, err := queryFilters(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.client.Discover(r.Context(), filters, page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	details, err := h.client.MovieDetails(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	isFavorite, err := h.favorites.IsFavorite(r.Context(), username(r), id)
	if err != nil {
		h.logger.Warn().Err(err).Int("movieID", id).Msg("Failed to read favorite status")
	}
	respondJSON(w, r, http.StatusOK, convertMovieDetails(details, isFavorite))
}

func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	similar, err := h.client.Similar(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, limitMovies(similar, MaxSimilarMovies))
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.client.Genres(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, genres)
}
