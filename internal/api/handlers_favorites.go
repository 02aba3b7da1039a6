package api

import (
	"net/http"

	"github.com/Belphemur/CineFinder/internal/models"
)

// addFavoriteRequest accepts a full movie summary. When only the id is given the
// summary is fetched from the metadata API.
type addFavoriteRequest struct {
	models.Movie
}

type favoritesResponse struct {
	Favorites []models.Favorite `json:"favorites"`
	Count     int               `json:"count"`
}

type favoriteChangeResponse struct {
	Changed   bool              `json:"changed"`
	Favorites []models.Favorite `json:"favorites"`
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.favorites.List(r.Context(), username(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, favoritesResponse{Favorites: favorites, Count: len(favorites)})
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	movie := req.Movie
	if movie.ID > 0 && movie.Title == "" {
		details, err := h.client.MovieDetails(r.Context(), movie.ID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		movie = details.Movie
	}

	user := username(r)
	added, err := h.favorites.Add(r.Context(), user, movie)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	favorites, err := h.favorites.List(r.Context(), user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondJSON(w, r, status, favoriteChangeResponse{Changed: added, Favorites: favorites})
}

func (h *Handler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	isFavorite, err := h.favorites.IsFavorite(r.Context(), username(r), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"movie_id": id, "is_favorite": isFavorite})
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	user := username(r)
	removed, err := h.favorites.Remove(r.Context(), user, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	favorites, err := h.favorites.List(r.Context(), user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, favoriteChangeResponse{Changed: removed, Favorites: favorites})
}

func (h *Handler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Clear(r.Context(), username(r)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, favoritesResponse{Favorites: []models.Favorite{}})
}
