package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
)

// Page bounds of the discover stream
const (
	DefaultStreamPages = 5
	MaxStreamPages     = 25
)

// streamFlushEvery is how many lines are buffered before flushing to the client.
const streamFlushEvery = 20

// discoverStreamLine is one NDJSON line: a movie or a page that failed.
type discoverStreamLine struct {
	Movie *models.Movie `json:"movie,omitempty"`
	Error *Error        `json:"error,omitempty"`
}

// DiscoverAll streams every movie matching the filters, across up to max_pages discover
// pages, as newline-delimited JSON. A failure before the first movie is answered with the
// regular error envelope. Pages failing later become error lines and the stream goes on.
func (h *Handler) DiscoverAll(w http.ResponseWriter, r *http.Request) {
	maxPages, err := queryMaxPages(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	filters, err := queryFilters(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	results := h.client.StreamDiscover(ctx, filters, maxPages)

	first, ok := <-results
	if ok && first.Err != nil {
		respondServiceError(w, r, first.Err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	if !ok {
		return
	}

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	var movies, failures, pending int

	emit := func(res models.StreamResult[models.Movie]) bool {
		var line discoverStreamLine
		if res.Err != nil {
			status, code, message, _ := classifyError(res.Err)
			if status == http.StatusInternalServerError {
				reportError(r, res.Err)
			}
			line.Error = &Error{Code: code, Message: message, RequestID: RequestIDFromContext(r.Context())}
			failures++
		} else {
			movie := res.Value
			line.Movie = &movie
			movies++
		}
		if err := enc.Encode(line); err != nil {
			return false
		}
		if pending++; pending >= streamFlushEvery && flusher != nil {
			flusher.Flush()
			pending = 0
		}
		return true
	}

	logger := config.GetLogger()
	if !emit(first) {
		logger.Debug().Msg("Discover stream client went away")
		return
	}
	for res := range results {
		if !emit(res) {
			logger.Debug().Int("movies", movies).Msg("Discover stream client went away")
			return
		}
	}
	if flusher != nil {
		flusher.Flush()
	}

	logger.Debug().
		Int("movies", movies).
		Int("failed_pages", failures).
		Int("max_pages", maxPages).
		Msg("Discover stream completed")
}

func queryMaxPages(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("max_pages"))
	if raw == "" {
		return DefaultStreamPages, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxStreamPages {
		return 0, &apperrors.ErrInvalidInput{Field: "max_pages", Reason: "must be between 1 and " + strconv.Itoa(MaxStreamPages)}
	}
	return n, nil
}
