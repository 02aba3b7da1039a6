package models

import (
	"net/url"
	"strconv"
)

// Filters is the user-selected set of constraints applied to search and discovery.
// A zero field means the constraint is not set.
type Filters struct {
	Year      int     `json:"year,omitempty" validate:"omitempty,release_year"`
	GenreID   int     `json:"genre_id,omitempty" validate:"min=0"`
	MinRating float64 `json:"min_rating,omitempty" validate:"min=0,max=10,rating_step"`
}

// DefaultFilters returns the filter record with every constraint cleared
func DefaultFilters() Filters {
	return Filters{}
}

// IsEmpty reports whether no constraint is set
func (f Filters) IsEmpty() bool {
	return f == DefaultFilters()
}

// FilterUpdate is a partial filter record: nil fields keep their current value,
// non-nil fields replace it (a zero value clears the constraint).
type FilterUpdate struct {
	Year      *int     `json:"year,omitempty"`
	GenreID   *int     `json:"genre_id,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
}

// Merge overlays the set fields of the update onto a copy of f
func (f Filters) Merge(update FilterUpdate) Filters {
	merged := f
	if update.Year != nil {
		merged.Year = *update.Year
	}
	if update.GenreID != nil {
		merged.GenreID = *update.GenreID
	}
	if update.MinRating != nil {
		merged.MinRating = *update.MinRating
	}
	return merged
}

// QueryParams maps the set constraints to the metadata API's query parameters
func (f Filters) QueryParams() url.Values {
	params := url.Values{}
	if f.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(f.Year))
	}
	if f.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(f.GenreID))
	}
	if f.MinRating > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	return params
}
