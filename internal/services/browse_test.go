package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/client"
	"github.com/Belphemur/CineFinder/internal/models"
	"github.com/Belphemur/CineFinder/internal/store"
	"github.com/Belphemur/CineFinder/internal/testutil"
	"github.com/Belphemur/CineFinder/internal/validation"
)

func newTestBrowse(t *testing.T) (*BrowseService, *PreferencesService, *testutil.FakeTMDB) {
	t.Helper()
	c, fake := newTestClient(t)
	prefs := NewPreferencesService(store.NewMemory())
	return NewBrowseService(c, prefs, 10, time.Minute), prefs, fake
}

// ---- Search -----------------------------------------------------------------

func TestBrowseService_SearchAndLoadMore(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)
	ctx := context.Background()

	state, err := b.Search(ctx, "alice", "star voyage", 1, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if state.Mode != BrowseModeSearch || state.Query != "star voyage" {
		t.Errorf("unexpected mode/query: %q/%q", state.Mode, state.Query)
	}
	if len(state.Movies) != testutil.FakePageSize || state.TotalResults != 23 || !state.HasMore {
		t.Fatalf("unexpected first page: %d movies, total %d, has_more %v", len(state.Movies), state.TotalResults, state.HasMore)
	}

	state, err = b.LoadMore(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if len(state.Movies) != 23 || state.Page != 2 || state.HasMore {
		t.Fatalf("unexpected state after LoadMore: %d movies, page %d, has_more %v", len(state.Movies), state.Page, state.HasMore)
	}

	// Everything is loaded, so no further request is made.
	before := fake.Requests("/search/movie")
	state, err = b.LoadMore(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadMore at the end: %v", err)
	}
	if len(state.Movies) != 23 {
		t.Errorf("expected 23 movies, got %d", len(state.Movies))
	}
	if got := fake.Requests("/search/movie"); got != before {
		t.Errorf("expected no extra request, got %d", got-before)
	}
}

func TestBrowseService_LoadMoreWithoutQuery(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)

	state, err := b.LoadMore(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if state.Mode != BrowseModeNone || len(state.Movies) != 0 {
		t.Errorf("expected empty state, got %+v", state)
	}
	if fake.Requests("/search/movie")+fake.Requests("/discover/movie") != 0 {
		t.Error("no request should be made without an active query")
	}
}

func TestBrowseService_LoadMoreBusy(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBrowse(t)

	e := b.entry("alice")
	e.mu.Lock()
	_, err := b.LoadMore(context.Background(), "alice")
	e.mu.Unlock()

	if !errors.Is(err, apperrors.ErrBrowseBusy) {
		t.Fatalf("expected ErrBrowseBusy, got %v", err)
	}
}

func TestBrowseService_SearchValidation(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)
	ctx := context.Background()

	if _, err := b.Search(ctx, "alice", "   ", 1, nil); !errors.Is(err, &apperrors.ErrInvalidInput{}) {
		t.Errorf("expected ErrInvalidInput for a blank query, got %v", err)
	}

	bad := models.Filters{MinRating: 7.3}
	_, err := b.Search(ctx, "alice", "star", 1, &bad)
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if fake.Requests("/search/movie") != 0 {
		t.Error("invalid input must not reach the API")
	}
	if state := b.State("alice"); state.Mode != BrowseModeNone {
		t.Errorf("state changed after a rejected search: %+v", state)
	}
}

func TestBrowseService_SearchRecordsRecentSearch(t *testing.T) {
	t.Parallel()
	b, prefs, _ := newTestBrowse(t)
	ctx := context.Background()

	if _, err := b.Search(ctx, "alice", " night harbor ", 1, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := b.Search(ctx, "alice", "night harbor", 2, nil); err != nil {
		t.Fatalf("Search page 2: %v", err)
	}

	recent, _ := prefs.RecentSearches(ctx, "alice")
	if len(recent) != 1 || recent[0] != "night harbor" {
		t.Errorf("unexpected recent searches %v", recent)
	}
}

func TestBrowseService_SetAndResetFilters(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)
	ctx := context.Background()

	if _, err := b.Search(ctx, "alice", "voyage", 1, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}

	state, err := b.SetFilters(ctx, "alice", models.FilterUpdate{GenreID: testutil.IntPtr(testutil.GenreAction)})
	if err != nil {
		t.Fatalf("SetFilters genre: %v", err)
	}
	// Odd ids divisible by 3: 3, 9, ..., 45
	if state.TotalResults != 8 || state.Page != 1 {
		t.Errorf("expected 8 action results on page 1, got %d on page %d", state.TotalResults, state.Page)
	}

	state, err = b.SetFilters(ctx, "alice", models.FilterUpdate{MinRating: testutil.FloatPtr(7)})
	if err != nil {
		t.Fatalf("SetFilters rating: %v", err)
	}
	if state.Filters.GenreID != testutil.GenreAction || state.Filters.MinRating != 7 {
		t.Errorf("filters were not merged: %+v", state.Filters)
	}
	if state.TotalResults != 5 {
		t.Errorf("expected 5 results, got %d", state.TotalResults)
	}

	_, err = b.SetFilters(ctx, "alice", models.FilterUpdate{Year: testutil.IntPtr(1700)})
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if got := b.State("alice"); got.Filters.Year != 0 || got.TotalResults != 5 {
		t.Errorf("state changed after rejected filters: %+v", got.Filters)
	}

	state, err = b.ResetFilters(ctx, "alice")
	if err != nil {
		t.Fatalf("ResetFilters: %v", err)
	}
	if !state.Filters.IsEmpty() || state.TotalResults != 23 {
		t.Errorf("unexpected state after reset: filters %+v, total %d", state.Filters, state.TotalResults)
	}
	if q := fake.LastQuery("/search/movie"); q == "" {
		t.Error("expected the search to be re-run")
	}
}

func TestBrowseService_SetFiltersWithoutQuery(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)

	state, err := b.SetFilters(context.Background(), "alice", models.FilterUpdate{Year: testutil.IntPtr(2005)})
	if err != nil {
		t.Fatalf("SetFilters: %v", err)
	}
	if state.Filters.Year != 2005 {
		t.Errorf("expected the filters to be stored, got %+v", state.Filters)
	}
	if fake.Requests("/discover/movie")+fake.Requests("/search/movie") != 0 {
		t.Error("no request should be made without an active query")
	}
}

func TestBrowseService_GoToPage(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBrowse(t)
	ctx := context.Background()

	if _, err := b.Search(ctx, "alice", "star voyage", 1, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}

	state, err := b.GoToPage(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("GoToPage: %v", err)
	}
	if state.Page != 2 || len(state.Movies) != 3 {
		t.Errorf("expected page 2 with 3 movies, got page %d with %d", state.Page, len(state.Movies))
	}

	for _, page := range []int{0, 3} {
		if _, err := b.GoToPage(ctx, "alice", page); !errors.Is(err, &apperrors.ErrInvalidInput{}) {
			t.Errorf("GoToPage(%d): expected ErrInvalidInput, got %v", page, err)
		}
	}
}

func TestBrowseService_Discover(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)
	ctx := context.Background()

	filters := models.Filters{GenreID: testutil.GenreDrama}
	state, err := b.Discover(ctx, "alice", &filters, 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if state.Mode != BrowseModeDiscover || state.Query != "" {
		t.Errorf("unexpected mode/query %q/%q", state.Mode, state.Query)
	}
	// ids 2, 5, ..., 44
	if state.TotalResults != 15 || len(state.Movies) != 15 || state.HasMore {
		t.Errorf("unexpected discover state: total %d, movies %d, has_more %v", state.TotalResults, len(state.Movies), state.HasMore)
	}
	if q := fake.LastQuery("/discover/movie"); q == "" {
		t.Fatal("expected a discover request")
	}
}

func TestBrowseService_ErrorKeepsState(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)
	ctx := context.Background()

	if _, err := b.Search(ctx, "alice", "star voyage", 1, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	fake.Fail("/search/movie", http.StatusInternalServerError)

	state, err := b.LoadMore(ctx, "alice")
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(state.Movies) != testutil.FakePageSize || state.Page != 1 {
		t.Errorf("state changed after a failed request: %d movies, page %d", len(state.Movies), state.Page)
	}
}

func TestBrowseService_StatesArePerUser(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBrowse(t)

	if _, err := b.Search(context.Background(), "alice", "star voyage", 1, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if state := b.State("bob"); state.Mode != BrowseModeNone || len(state.Movies) != 0 {
		t.Errorf("bob should start with an empty state, got %+v", state)
	}
}

func TestBrowseService_ActiveStateOutlivesTTL(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t)
	b := NewBrowseService(c, nil, 10, time.Second)

	if _, err := b.Search(context.Background(), "alice", "star voyage", 1, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Six reads 250ms apart span 1.5 TTLs, but the gap between uses never exceeds it.
	for i := range 6 {
		time.Sleep(250 * time.Millisecond)
		state := b.State("alice")
		if state.Mode != BrowseModeSearch || len(state.Movies) != testutil.FakePageSize {
			t.Fatalf("read %d: state dropped while in use: mode %q, %d movies", i+1, state.Mode, len(state.Movies))
		}
	}
}

func TestBrowseService_IdleStateExpires(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t)
	b := NewBrowseService(c, nil, 10, 100*time.Millisecond)

	if _, err := b.Search(context.Background(), "alice", "star voyage", 1, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	time.Sleep(250 * time.Millisecond)

	if state := b.State("alice"); state.Mode != BrowseModeNone || len(state.Movies) != 0 {
		t.Errorf("expected idle state to expire, got mode %q with %d movies", state.Mode, len(state.Movies))
	}
}

func TestBrowseService_LoadMoreStopsAtLastServedPage(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"page":%d,"results":[{"id":%d,"title":"Movie %d"}],"total_results":40000,"total_pages":2000}`, page, page, page)
	}))
	t.Cleanup(upstream.Close)

	cfg := testutil.NewFakeTMDB(t).Config()
	cfg.TMDB.BaseURL = upstream.URL
	c := client.NewClient(cfg)
	t.Cleanup(func() { _ = c.Close() })
	b := NewBrowseService(c, nil, 10, time.Minute)
	ctx := context.Background()

	state, err := b.Discover(ctx, "alice", nil, 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if state.TotalPages != 500 {
		t.Fatalf("expected total pages capped at 500, got %d", state.TotalPages)
	}

	state, err = b.GoToPage(ctx, "alice", 500)
	if err != nil {
		t.Fatalf("GoToPage(500): %v", err)
	}
	if state.HasMore {
		t.Error("expected has_more to be false on the last served page")
	}

	before := requests.Load()
	if _, err := b.LoadMore(ctx, "alice"); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if got := requests.Load(); got != before {
		t.Errorf("expected no request past page 500, got %d", got-before)
	}
}

// ---- Home feed --------------------------------------------------------------

func TestBrowseService_Home(t *testing.T) {
	t.Parallel()
	b, _, _ := newTestBrowse(t)

	feed, err := b.Home(context.Background())
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	for name, list := range map[string][]models.Movie{
		"trending":  feed.Trending,
		"popular":   feed.Popular,
		"top_rated": feed.TopRated,
		"upcoming":  feed.Upcoming,
	} {
		if len(list) != HomeListSize {
			t.Errorf("%s: expected %d movies, got %d", name, HomeListSize, len(list))
		}
	}
	if len(feed.Genres) != len(testutil.FixtureGenres) {
		t.Errorf("expected %d genres, got %d", len(testutil.FixtureGenres), len(feed.Genres))
	}
}

func TestBrowseService_HomeFailsAsAWhole(t *testing.T) {
	t.Parallel()
	b, _, fake := newTestBrowse(t)
	fake.Fail("/movie/upcoming", http.StatusInternalServerError)

	feed, err := b.Home(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if feed != nil {
		t.Errorf("expected no feed, got %+v", feed)
	}
	if !errors.Is(err, &apperrors.ErrAPI{}) && !errors.Is(err, &apperrors.ErrUnavailable{}) {
		t.Errorf("expected an API error, got %v", err)
	}
}
