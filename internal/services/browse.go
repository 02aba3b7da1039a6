package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/client"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/models"
	"github.com/Belphemur/CineFinder/internal/validation"
)

// Browse modes
const (
	BrowseModeNone     = ""
	BrowseModeSearch   = "search"
	BrowseModeDiscover = "discover"
)

// HomeListSize is how many movies each home feed list keeps
const HomeListSize = 12

// BrowseState is a user's current result list and the query that produced it.
type BrowseState struct {
	Mode         string         `json:"mode"`
	Query        string         `json:"query"`
	Filters      models.Filters `json:"filters"`
	Movies       []models.Movie `json:"movies"`
	Page         int            `json:"page"`
	TotalResults int            `json:"total_results"`
	TotalPages   int            `json:"total_pages"`
	HasMore      bool           `json:"has_more"`
}

// HomeFeed groups the lists shown on the landing page.
type HomeFeed struct {
	Trending []models.Movie `json:"trending"`
	Popular  []models.Movie `json:"popular"`
	TopRated []models.Movie `json:"top_rated"`
	Upcoming []models.Movie `json:"upcoming"`
	Genres   []models.Genre `json:"genres"`
}

type browseEntry struct {
	mu    sync.Mutex
	state BrowseState
}

// BrowseService keeps per-user search and discovery state. States are held in memory
// and expire after a period of inactivity.
type BrowseService struct {
	client      client.Client
	preferences *PreferencesService

	mu     sync.Mutex
	states *lru.LRU[string, *browseEntry]
}

// NewBrowseService keeps at most size user states, each expiring ttl after its last use.
// preferences may be nil, in which case searches are not recorded.
func NewBrowseService(c client.Client, preferences *PreferencesService, size int, ttl time.Duration) *BrowseService {
	return &BrowseService{
		client:      c,
		preferences: preferences,
		states:      lru.NewLRU[string, *browseEntry](size, nil, ttl),
	}
}

func (b *BrowseService) entry(username string) *browseEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.states.Get(username); ok {
		// Get leaves the expiry alone, re-adding pushes it back
		b.states.Add(username, e)
		return e
	}
	e := &browseEntry{state: emptyState()}
	b.states.Add(username, e)
	return e
}

func emptyState() BrowseState {
	return BrowseState{Filters: models.DefaultFilters(), Movies: []models.Movie{}}
}

// State returns a snapshot of the user's browse state.
func (b *BrowseService) State(username string) BrowseState {
	e := b.entry(username)
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.state)
}

// Search runs query. Page 1 replaces the result list, later pages append to it.
// A nil filters keeps the current filters.
func (b *BrowseService) Search(ctx context.Context, username, query string, page int, filters *models.Filters) (BrowseState, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return BrowseState{}, &apperrors.ErrInvalidInput{Field: "query", Reason: "must not be empty"}
	}

	e := b.entry(username)
	e.mu.Lock()
	defer e.mu.Unlock()

	f := e.state.Filters
	if filters != nil {
		f = *filters
	}
	if err := validateFilters(f); err != nil {
		return snapshot(e.state), err
	}

	if err := b.run(ctx, &e.state, BrowseModeSearch, query, f, max(page, 1), page > 1); err != nil {
		return snapshot(e.state), err
	}

	if b.preferences != nil && page <= 1 {
		if _, err := b.preferences.AddRecentSearch(ctx, username, query); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("username", username).Msg("Failed to record recent search")
		}
	}
	return snapshot(e.state), nil
}

// Discover lists movies matching filters. A nil filters keeps the current filters.
func (b *BrowseService) Discover(ctx context.Context, username string, filters *models.Filters, page int) (BrowseState, error) {
	e := b.entry(username)
	e.mu.Lock()
	defer e.mu.Unlock()

	f := e.state.Filters
	if filters != nil {
		f = *filters
	}
	if err := validateFilters(f); err != nil {
		return snapshot(e.state), err
	}

	err := b.run(ctx, &e.state, BrowseModeDiscover, "", f, max(page, 1), page > 1)
	return snapshot(e.state), err
}

// LoadMore appends the next page of the active search or discovery. It does nothing when
// no query is active, every result is already loaded, or another load is in flight.
func (b *BrowseService) LoadMore(ctx context.Context, username string) (BrowseState, error) {
	e := b.entry(username)
	if !e.mu.TryLock() {
		logger := config.GetLogger()
		logger.Debug().Str("username", username).Msg("Load more ignored, a request is already in flight")
		return BrowseState{}, apperrors.ErrBrowseBusy
	}
	defer e.mu.Unlock()

	s := &e.state
	if s.Mode == BrowseModeNone || !hasMore(*s) {
		return snapshot(*s), nil
	}

	err := b.run(ctx, s, s.Mode, s.Query, s.Filters, s.Page+1, true)
	return snapshot(*s), err
}

// GoToPage replaces the result list with the given page of the active query.
func (b *BrowseService) GoToPage(ctx context.Context, username string, page int) (BrowseState, error) {
	if page < 1 {
		return BrowseState{}, &apperrors.ErrInvalidInput{Field: "page", Reason: "must be at least 1"}
	}

	e := b.entry(username)
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &e.state
	if s.Mode == BrowseModeNone {
		return snapshot(*s), nil
	}
	if s.TotalPages > 0 && page > s.TotalPages {
		return snapshot(*s), &apperrors.ErrInvalidInput{Field: "page", Reason: "beyond the last page"}
	}

	err := b.run(ctx, s, s.Mode, s.Query, s.Filters, page, false)
	return snapshot(*s), err
}

// SetFilters merges update into the current filters and re-runs the active query from page 1.
func (b *BrowseService) SetFilters(ctx context.Context, username string, update models.FilterUpdate) (BrowseState, error) {
	e := b.entry(username)
	e.mu.Lock()
	defer e.mu.Unlock()

	merged := e.state.Filters.Merge(update)
	if err := validateFilters(merged); err != nil {
		return snapshot(e.state), err
	}
	return b.applyFilters(ctx, &e.state, merged)
}

// ResetFilters restores the default filters and re-runs the active query from page 1.
func (b *BrowseService) ResetFilters(ctx context.Context, username string) (BrowseState, error) {
	e := b.entry(username)
	e.mu.Lock()
	defer e.mu.Unlock()

	return b.applyFilters(ctx, &e.state, models.DefaultFilters())
}

func (b *BrowseService) applyFilters(ctx context.Context, s *BrowseState, filters models.Filters) (BrowseState, error) {
	if s.Mode == BrowseModeNone {
		s.Filters = filters
		return snapshot(*s), nil
	}
	err := b.run(ctx, s, s.Mode, s.Query, filters, 1, false)
	return snapshot(*s), err
}

// run fetches one page and folds it into s. On error s is left unchanged.
func (b *BrowseService) run(ctx context.Context, s *BrowseState, mode, query string, filters models.Filters, page int, appendResults bool) error {
	var (
		result *models.MoviePage
		err    error
	)
	if mode == BrowseModeSearch {
		result, err = b.client.Search(ctx, query, page, filters)
	} else {
		result, err = b.client.Discover(ctx, filters, page)
	}
	if err != nil {
		return err
	}

	movies := result.Results
	if appendResults && s.Mode == mode && s.Query == query && s.Filters == filters {
		movies = appendUnique(s.Movies, result.Results)
	}

	*s = BrowseState{
		Mode:         mode,
		Query:        query,
		Filters:      filters,
		Movies:       movies,
		Page:         result.Page,
		TotalResults: result.TotalResults,
		TotalPages:   result.TotalPages,
	}
	return nil
}

// Home fetches the landing page lists and the genre list in parallel.
// Any failing request fails the whole feed.
func (b *BrowseService) Home(ctx context.Context) (*HomeFeed, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		feed     HomeFeed
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil || errors.Is(firstErr, context.Canceled) {
			firstErr = err
		}
		errMu.Unlock()
		cancel()
	}

	lists := []struct {
		dst   *[]models.Movie
		fetch func(context.Context) (*models.MoviePage, error)
	}{
		{&feed.Trending, b.client.Trending},
		{&feed.Popular, func(ctx context.Context) (*models.MoviePage, error) { return b.client.Popular(ctx, 1) }},
		{&feed.TopRated, func(ctx context.Context) (*models.MoviePage, error) { return b.client.TopRated(ctx, 1) }},
		{&feed.Upcoming, func(ctx context.Context) (*models.MoviePage, error) { return b.client.Upcoming(ctx, 1) }},
	}

	wg.Add(len(lists) + 1)
	for _, list := range lists {
		go func() {
			defer wg.Done()
			page, err := list.fetch(ctx)
			if err != nil {
				fail(err)
				return
			}
			*list.dst = firstN(page.Results, HomeListSize)
		}()
	}
	go func() {
		defer wg.Done()
		genres, err := b.client.Genres(ctx)
		if err != nil {
			fail(err)
			return
		}
		feed.Genres = genres
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &feed, nil
}

func validateFilters(f models.Filters) error {
	if verr := validation.ValidateStruct(&f); verr != nil {
		return verr
	}
	return nil
}

func hasMore(s BrowseState) bool {
	return len(s.Movies) < s.TotalResults && s.Page < s.TotalPages
}

func snapshot(s BrowseState) BrowseState {
	out := s
	out.Movies = append([]models.Movie(nil), s.Movies...)
	if out.Movies == nil {
		out.Movies = []models.Movie{}
	}
	out.HasMore = hasMore(s)
	return out
}

func appendUnique(existing, next []models.Movie) []models.Movie {
	seen := make(map[int]struct{}, len(existing))
	out := make([]models.Movie, 0, len(existing)+len(next))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	for _, m := range next {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func firstN(movies []models.Movie, n int) []models.Movie {
	if len(movies) > n {
		return movies[:n]
	}
	return movies
}
