package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Belphemur/CineFinder/internal/cache"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
)

// Client defines the interface for querying the movie metadata API
type Client interface {
	Trending(ctx context.Context) (*models.MoviePage, error)
	Popular(ctx context.Context, page int) (*models.MoviePage, error)
	TopRated(ctx context.Context, page int) (*models.MoviePage, error)
	Upcoming(ctx context.Context, page int) (*models.MoviePage, error)
	Search(ctx context.Context, query string, page int, filters models.Filters) (*models.MoviePage, error)
	Discover(ctx context.Context, filters models.Filters, page int) (*models.MoviePage, error)
	MovieDetails(ctx context.Context, movieID int) (*models.MovieDetails, error)
	Similar(ctx context.Context, movieID int) ([]models.Movie, error)
	Genres(ctx context.Context) ([]models.Genre, error)

	// StreamDiscover walks every discover page for the filters (up to maxPages, 0 meaning all)
	// and emits each movie once. The channel is closed when all pages have been processed.
	// Errors are sent as StreamResult with a non-nil Err field.
	StreamDiscover(ctx context.Context, filters models.Filters, maxPages int) <-chan models.StreamResult[models.Movie]

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface against TMDB v3
type client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	language     string
	imageBaseURL string
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[[]byte]
	cache        cache.Cache
}

// NewClient creates a new client instance with proxy configuration if provided.
// Response bodies are cached using cfg.Cache; a Redis cache that cannot be reached
// falls back to the in-memory provider.
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()
	timeout := config.ParseDuration("client_timeout", cfg.ClientTimeout, 30*time.Second)

	// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: newCompressionTransport(baseTransport),
	}

	var limiter *rate.Limiter
	if cfg.TMDB.RateLimit > 0 {
		burst := cfg.TMDB.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.TMDB.RateLimit), burst)
	}

	imageBaseURL := cfg.TMDB.ImageBaseURL
	if imageBaseURL == "" {
		imageBaseURL = models.DefaultImageBaseURL
	}

	return &client{
		httpClient:   httpClient,
		baseURL:      cfg.TMDB.BaseURL,
		apiKey:       cfg.TMDB.APIKey,
		language:     cfg.TMDB.Language,
		imageBaseURL: imageBaseURL,
		limiter:      limiter,
		breaker:      newBreaker(cfg),
		cache:        newResponseCache(cfg),
	}
}

func responseCacheConfig(cfg *config.Config) cache.ProviderConfig {
	return cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           config.ParseDuration("cache.ttl", cfg.Cache.TTL, time.Hour),
		Logger:        cacheLogger{},
		KeyPrefix:     cfg.Cache.Redis.KeyPrefix,
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "tmdb",
	}
}

// newResponseCache builds the response cache from configuration
func newResponseCache(cfg *config.Config) cache.Cache {
	logger := config.GetLogger()
	providerCfg := responseCacheConfig(cfg)

	provider := cfg.Cache.Provider
	if provider == "" {
		provider = "memory"
	}
	c, err := cache.New(provider, providerCfg)
	if err == nil {
		logger.Info().Str("provider", provider).Int("size", providerCfg.Size).Dur("ttl", providerCfg.TTL).Msg("Response cache ready")
		return c
	}

	logger.Warn().Err(err).Str("provider", provider).Msg("Failed to create response cache, falling back to memory")
	c, err = cache.New("memory", providerCfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create memory response cache")
		return nil
	}
	return c
}

// cacheLogger forwards cache backend errors to the application logger
type cacheLogger struct{}

func (cacheLogger) Error(msg string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Msg(msg)
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}
