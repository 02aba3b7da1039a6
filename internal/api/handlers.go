package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/client"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
	"github.com/Belphemur/CineFinder/internal/services"
	"github.com/Belphemur/CineFinder/internal/validation"
)

const maxBodyBytes = 1 << 20

// Handler serves the HTTP API on top of the metadata client and the user services.
type Handler struct {
	client      client.Client
	auth        *services.AuthService
	favorites   *services.FavoritesService
	preferences *services.PreferencesService
	browse      *services.BrowseService
	logger      zerolog.Logger
}

func NewHandler(c client.Client, auth *services.AuthService, favorites *services.FavoritesService, preferences *services.PreferencesService, browse *services.BrowseService) *Handler {
	return &Handler{
		client:      c,
		auth:        auth,
		favorites:   favorites,
		preferences: preferences,
		browse:      browse,
		logger:      config.GetLogger(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// username returns the user of the authenticated session. Routes using it sit behind Authenticate.
func username(r *http.Request) string {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		return ""
	}
	return session.Username
}

// decodeJSON decodes the request body into dst and validates it. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &apperrors.ErrInvalidInput{Field: "body", Reason: "malformed JSON: " + err.Error()}
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

func queryPage(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, &apperrors.ErrInvalidInput{Field: "page", Reason: "must be a positive integer"}
	}
	return page, nil
}

// queryFilters reads year, genre_id and min_rating from the query string.
func queryFilters(r *http.Request) (models.Filters, error) {
	q := r.URL.Query()
	filters := models.DefaultFilters()

	var err error
	if raw := q.Get("year"); raw != "" {
		if filters.Year, err = strconv.Atoi(raw); err != nil {
			return filters, &apperrors.ErrInvalidInput{Field: "year", Reason: "must be an integer"}
		}
	}
	if raw := q.Get("genre_id"); raw != "" {
		if filters.GenreID, err = strconv.Atoi(raw); err != nil {
			return filters, &apperrors.ErrInvalidInput{Field: "genre_id", Reason: "must be an integer"}
		}
	}
	if raw := q.Get("min_rating"); raw != "" {
		if filters.MinRating, err = strconv.ParseFloat(raw, 64); err != nil {
			return filters, &apperrors.ErrInvalidInput{Field: "min_rating", Reason: "must be a number"}
		}
	}

	if verr := validation.ValidateStruct(&filters); verr != nil {
		return filters, verr
	}
	return filters, nil
}

func movieIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, &apperrors.ErrInvalidInput{Field: "movie id", Reason: "must be a positive integer"}
	}
	return id, nil
}
