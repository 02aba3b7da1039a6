package api

import (
	"net/http"

	"github.com/Belphemur/CineFinder/internal/models"
)

type browseSearchRequest struct {
	Query   string          `json:"query" validate:"required,max=200"`
	Page    int             `json:"page" validate:"min=0"`
	Filters *models.Filters `json:"filters,omitempty"`
}

type browseDiscoverRequest struct {
	Page    int             `json:"page" validate:"min=0"`
	Filters *models.Filters `json:"filters,omitempty"`
}

type browsePageRequest struct {
	Page int `json:"page" validate:"required,min=1"`
}

func (h *Handler) BrowseState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.browse.State(username(r)))
}

func (h *Handler) BrowseSearch(w http.ResponseWriter, r *http.Request) {
	var req browseSearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	state, err := h.browse.Search(r.Context(), username(r), req.Query, req.Page, req.Filters)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (h *Handler) BrowseDiscover(w http.ResponseWriter, r *http.Request) {
	var req browseDiscoverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	state, err := h.browse.Discover(r.Context(), username(r), req.Filters, req.Page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (h *Handler) BrowseMore(w http.ResponseWriter, r *http.Request) {
	state, err := h.browse.LoadMore(r.Context(), username(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (h *Handler) BrowsePage(w http.ResponseWriter, r *http.Request) {
	var req browsePageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	state, err := h.browse.GoToPage(r.Context(), username(r), req.Page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (h *Handler) SetBrowseFilters(w http.ResponseWriter, r *http.Request) {
	var update models.FilterUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		respondServiceError(w, r, err)
		return
	}

	state, err := h.browse.SetFilters(r.Context(), username(r), update)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (h *Handler) ResetBrowseFilters(w http.ResponseWriter, r *http.Request) {
	state, err := h.browse.ResetFilters(r.Context(), username(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}
