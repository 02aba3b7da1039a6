package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
)

// FakeAPIKey is the only API key the fake server accepts
const FakeAPIKey = "test-api-key"

// FakePageSize mirrors TMDB's fixed page size
const FakePageSize = 20

// FakeTMDB is an httptest server speaking the subset of TMDB v3 the client uses.
type FakeTMDB struct {
	Server  *httptest.Server
	Catalog []models.Movie

	mu       sync.Mutex
	requests map[string]int
	failures map[string]int
	queries  map[string][]string
}

// NewFakeTMDB starts a fake TMDB serving SampleCatalog(45). The server is closed when the test ends.
func NewFakeTMDB(t *testing.T) *FakeTMDB {
	t.Helper()
	f := &FakeTMDB{
		Catalog:  SampleCatalog(45),
		requests: make(map[string]int),
		failures: make(map[string]int),
		queries:  make(map[string][]string),
	}

	r := chi.NewRouter()
	r.Use(f.track)
	r.Get("/trending/movie/week", f.list)
	r.Get("/movie/popular", f.list)
	r.Get("/movie/top_rated", f.list)
	r.Get("/movie/upcoming", f.list)
	r.Get("/search/movie", f.search)
	r.Get("/discover/movie", f.discover)
	r.Get("/genre/movie/list", f.genres)
	r.Get("/movie/{id}", f.details)
	r.Get("/movie/{id}/videos", f.videos)
	r.Get("/movie/{id}/credits", f.credits)
	r.Get("/movie/{id}/similar", f.similar)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// Config returns an application config pointing the client at the fake server.
func (f *FakeTMDB) Config() *config.Config {
	cfg := &config.Config{}
	cfg.ClientTimeout = "5s"
	cfg.TMDB.BaseURL = f.Server.URL
	cfg.TMDB.APIKey = FakeAPIKey
	cfg.TMDB.Language = "en-US"
	cfg.TMDB.ImageBaseURL = models.DefaultImageBaseURL
	cfg.TMDB.Breaker.FailureThreshold = 3
	cfg.TMDB.Breaker.Timeout = "1m"
	cfg.Cache.Provider = "memory"
	cfg.Cache.Size = 100
	cfg.Cache.TTL = "1h"
	return cfg
}

// Fail makes every request to path answer with status until cleared with status 0.
func (f *FakeTMDB) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, path)
		return
	}
	f.failures[path] = status
}

// Requests returns how many requests reached path.
func (f *FakeTMDB) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

// LastQuery returns the raw query string of the latest request to path.
func (f *FakeTMDB) LastQuery(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queries[path]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func (f *FakeTMDB) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests[r.URL.Path]++
		f.queries[r.URL.Path] = append(f.queries[r.URL.Path], r.URL.RawQuery)
		status := f.failures[r.URL.Path]
		f.mu.Unlock()

		if r.URL.Query().Get("api_key") != FakeAPIKey {
			writeStatus(w, http.StatusUnauthorized, 7, "Invalid API key: You must be granted a valid key.")
			return
		}
		if status != 0 {
			writeStatus(w, status, 11, "Internal error: Something went wrong, contact TMDb.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeTMDB) list(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, f.Catalog)
}

func (f *FakeTMDB) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	var matches []models.Movie
	for _, m := range filterMovies(f.Catalog, r) {
		if strings.Contains(strings.ToLower(m.Title), q) {
			matches = append(matches, m)
		}
	}
	writePage(w, r, matches)
}

func (f *FakeTMDB) discover(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, filterMovies(f.Catalog, r))
}

func (f *FakeTMDB) genres(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"genres": FixtureGenres})
}

func (f *FakeTMDB) details(w http.ResponseWriter, r *http.Request) {
	m, ok := f.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, DetailsFor(m))
}

func (f *FakeTMDB) videos(w http.ResponseWriter, r *http.Request) {
	m, ok := f.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": m.ID, "results": VideosFor(m)})
}

func (f *FakeTMDB) credits(w http.ResponseWriter, r *http.Request) {
	m, ok := f.lookup(w, r)
	if !ok {
		return
	}
	cast, crew := CreditsFor(m)
	writeJSON(w, http.StatusOK, map[string]any{"id": m.ID, "cast": cast, "crew": crew})
}

// similar returns every other movie sharing the first genre
func (f *FakeTMDB) similar(w http.ResponseWriter, r *http.Request) {
	m, ok := f.lookup(w, r)
	if !ok {
		return
	}
	var similar []models.Movie
	for _, other := range f.Catalog {
		if other.ID != m.ID && len(other.GenreIDs) > 0 && other.GenreIDs[0] == m.GenreIDs[0] {
			similar = append(similar, other)
		}
	}
	writePage(w, r, similar)
}

func (f *FakeTMDB) lookup(w http.ResponseWriter, r *http.Request) (models.Movie, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err == nil {
		for _, m := range f.Catalog {
			if m.ID == id {
				return m, true
			}
		}
	}
	writeStatus(w, http.StatusNotFound, 34, "The resource you requested could not be found.")
	return models.Movie{}, false
}

func filterMovies(movies []models.Movie, r *http.Request) []models.Movie {
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("primary_release_year"))
	genre, _ := strconv.Atoi(q.Get("with_genres"))
	minRating, _ := strconv.ParseFloat(q.Get("vote_average.gte"), 64)

	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if year != 0 && m.Year() != strconv.Itoa(year) {
			continue
		}
		if genre != 0 && !containsInt(m.GenreIDs, genre) {
			continue
		}
		if m.VoteAverage < minRating {
			continue
		}
		out = append(out, m)
	}
	return out
}

func writePage(w http.ResponseWriter, r *http.Request, movies []models.Movie) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	totalPages := (len(movies) + FakePageSize - 1) / FakePageSize

	start := min((page-1)*FakePageSize, len(movies))
	end := min(start+FakePageSize, len(movies))

	writeJSON(w, http.StatusOK, models.MoviePage{
		Page:         page,
		Results:      movies[start:end],
		TotalResults: len(movies),
		TotalPages:   totalPages,
	})
}

func writeStatus(w http.ResponseWriter, status, code int, message string) {
	writeJSON(w, status, map[string]any{
		"success":        false,
		"status_code":    code,
		"status_message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
