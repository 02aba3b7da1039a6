package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/metrics"
)

const serviceName = "TMDB"

// maxErrorBody bounds how much of an error response is read to find status_message.
const maxErrorBody = 64 << 10

// apiErrorBody is the error payload TMDB returns alongside non-2xx statuses
type apiErrorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func newBreaker(cfg *config.Config) *gobreaker.CircuitBreaker[[]byte] {
	threshold := cfg.TMDB.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := config.ParseDuration("tmdb.breaker.timeout", cfg.TMDB.Breaker.Timeout, 30*time.Second)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger := config.GetLogger()
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})
}

// countsAsSuccess reports errors that must not trip the breaker. Only transport
// failures and 5xx responses count against it.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, &apperrors.ErrNotFound{}) {
		return true
	}
	var apiErr *apperrors.ErrAPI
	if errors.As(err, &apiErr) {
		return apiErr.Status < http.StatusInternalServerError
	}
	return false
}

// get issues a GET for path with params, decodes the JSON body into dst and records metrics
// under the endpoint label. Successful bodies are served from and stored in the response cache.
func (c *client) get(ctx context.Context, endpoint, path string, params url.Values, dst any) error {
	logger := config.GetLogger()

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	if c.language != "" {
		query.Set("language", c.language)
	}
	cacheKey := path + "?" + query.Encode()

	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			if err := json.Unmarshal(body, dst); err == nil {
				logger.Debug().Str("key", cacheKey).Msg("Serving TMDB response from cache")
				return nil
			}
			c.cache.Delete(cacheKey)
		}
	}

	query.Set("api_key", c.apiKey)
	fullURL := strings.TrimRight(c.baseURL, "/") + path + "?" + query.Encode()

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		return c.fetch(ctx, path, fullURL)
	})
	metrics.TMDBRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &apperrors.ErrUnavailable{Service: serviceName}
		}
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, statusLabel(err)).Inc()
		logger.Warn().Err(err).Str("endpoint", endpoint).Str("path", path).Msg("TMDB request failed")
		return err
	}

	if err := json.Unmarshal(body, dst); err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, metrics.StatusError).Inc()
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	metrics.TMDBRequestsTotal.WithLabelValues(endpoint, metrics.StatusSuccess).Inc()

	if c.cache != nil {
		c.cache.Set(cacheKey, body)
	}
	return nil
}

// fetch performs the HTTP GET and maps non-2xx statuses to typed errors
func (c *client) fetch(ctx context.Context, path, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &apperrors.ErrNetwork{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewNotFoundError("resource", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ErrNetwork{Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func newAPIError(resp *http.Response) *apperrors.ErrAPI {
	apiErr := &apperrors.ErrAPI{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var payload apiErrorBody
	if json.Unmarshal(raw, &payload) == nil && payload.StatusMessage != "" {
		apiErr.Message = payload.StatusMessage
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func statusLabel(err error) string {
	switch {
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return metrics.StatusNotFound
	case errors.Is(err, &apperrors.ErrUnavailable{}):
		return metrics.StatusUnavailable
	default:
		return metrics.StatusError
	}
}
