package api

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Belphemur/CineFinder/internal/config"
)

// RouterOptions configures the middleware stack
type RouterOptions struct {
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	// Sentry reports panics and unhandled errors. sentry.Init must have been called.
	Sentry bool
}

// RouterOptionsFromConfig reads the middleware settings from cfg.
func RouterOptionsFromConfig(cfg *config.Config) RouterOptions {
	opts := RouterOptions{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitRequests:  cfg.RateLimit.Requests,
		RateLimitWindow:    config.ParseDuration("rate_limit.window", cfg.RateLimit.Window, time.Minute),
		Sentry:             cfg.Sentry.DSN != "",
	}
	if cfg.RateLimit.Disabled {
		opts.RateLimitRequests = 0
	}
	return opts
}

// NewRouter wires the middleware stack and every route of the API.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Instrument)
	r.Use(chimiddleware.Recoverer)
	if opts.Sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(CORS(opts.CORSAllowedOrigins))
	r.Use(RateLimit(opts.RateLimitRequests, opts.RateLimitWindow))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.auth))

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.Me)

			r.Route("/movies", func(r chi.Router) {
				r.Get("/home", h.Home)
				r.Get("/trending", h.Trending)
				r.Get("/popular", h.Popular)
				r.Get("/top-rated", h.TopRated)
				r.Get("/upcoming", h.Upcoming)
				r.Get("/search", h.Search)
				r.Get("/discover", h.Discover)
				r.Get("/discover/all", h.DiscoverAll)
				r.Get("/{id}", h.MovieDetails)
				r.Get("/{id}/similar", h.Similar)
			})
			r.Get("/genres", h.Genres)

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", h.ListFavorites)
				r.Post("/", h.AddFavorite)
				r.Delete("/", h.ClearFavorites)
				r.Get("/{id}", h.GetFavorite)
				r.Delete("/{id}", h.RemoveFavorite)
			})

			r.Route("/browse", func(r chi.Router) {
				r.Get("/", h.BrowseState)
				r.Post("/search", h.BrowseSearch)
				r.Post("/discover", h.BrowseDiscover)
				r.Post("/more", h.BrowseMore)
				r.Post("/page", h.BrowsePage)
				r.Put("/filters", h.SetBrowseFilters)
				r.Delete("/filters", h.ResetBrowseFilters)
			})

			r.Route("/preferences", func(r chi.Router) {
				r.Get("/theme", h.GetTheme)
				r.Put("/theme", h.SetTheme)
				r.Post("/theme/toggle", h.ToggleTheme)
				r.Get("/recent-searches", h.RecentSearches)
				r.Delete("/recent-searches", h.ClearRecentSearches)
			})
		})
	})

	return r
}
