package api

import (
	"net/http"

	"github.com/Belphemur/CineFinder/internal/models"
)

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type themeResponse struct {
	Theme models.ThemeMode `json:"theme"`
}

type recentSearchesResponse struct {
	Searches []string `json:"searches"`
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.preferences.Theme(r.Context(), username(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, themeResponse{Theme: theme})
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	theme := models.ParseThemeMode(req.Theme)
	if err := h.preferences.SetTheme(r.Context(), username(r), theme); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, themeResponse{Theme: theme})
}

func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.preferences.ToggleTheme(r.Context(), username(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, themeResponse{Theme: theme})
}

func (h *Handler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.preferences.RecentSearches(r.Context(), username(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, recentSearchesResponse{Searches: searches})
}

func (h *Handler) ClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	if err := h.preferences.ClearRecentSearches(r.Context(), username(r)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, recentSearchesResponse{Searches: []string{}})
}
