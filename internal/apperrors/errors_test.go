// Package apperrors tests verify the custom error types (ErrNotFound, ErrAPI,
// ErrNetwork, ErrUnavailable, ErrInvalidInput), their Error() messages,
// Is() matching semantics and compatibility with errors.Is() and errors.As()
// through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// ErrNotFound
// ---------------------------------------------------------------------------

func TestErrNotFound_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrNotFound
		expected string
	}{
		{
			name:     "with string ID",
			err:      &ErrNotFound{Resource: "genre", ID: "abc"},
			expected: "genre with ID abc not found",
		},
		{
			name:     "with int ID",
			err:      &ErrNotFound{Resource: "movie", ID: 42},
			expected: "movie with ID 42 not found",
		},
		{
			name:     "with nil ID",
			err:      &ErrNotFound{Resource: "session", ID: nil},
			expected: "session not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrNotFound_Is(t *testing.T) {
	t.Parallel()
	err := NewMovieNotFoundError(550)

	if !errors.Is(err, &ErrNotFound{}) {
		t.Error("expected errors.Is to match *ErrNotFound")
	}
	if errors.Is(err, &ErrAPI{}) {
		t.Error("expected errors.Is not to match *ErrAPI")
	}

	wrapped := fmt.Errorf("fetch details: %w", err)
	if !errors.Is(wrapped, &ErrNotFound{}) {
		t.Error("expected errors.Is to match through wrapping")
	}

	var nf *ErrNotFound
	if !errors.As(wrapped, &nf) {
		t.Fatal("expected errors.As to extract *ErrNotFound")
	}
	if nf.ID != 550 || nf.Resource != "movie" {
		t.Errorf("unexpected fields: %+v", nf)
	}
}

// ---------------------------------------------------------------------------
// ErrAPI
// ---------------------------------------------------------------------------

func TestErrAPI_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrAPI
		expected string
	}{
		{"with message", &ErrAPI{Status: 401, Message: "Invalid API key"}, "API error: 401 - Invalid API key"},
		{"without message", &ErrAPI{Status: 500}, "API error: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrAPI_Is(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("popular: %w", &ErrAPI{Status: 503})
	if !errors.Is(err, &ErrAPI{}) {
		t.Error("expected errors.Is to match *ErrAPI")
	}
	if errors.Is(err, &ErrNetwork{}) {
		t.Error("expected errors.Is not to match *ErrNetwork")
	}
}

// ---------------------------------------------------------------------------
// ErrNetwork
// ---------------------------------------------------------------------------

func TestErrNetwork_Unwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := &ErrNetwork{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
	if !errors.Is(err, &ErrNetwork{}) {
		t.Error("expected errors.Is to match *ErrNetwork")
	}
	if got := err.Error(); got != "network error: no response from server: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// ErrUnavailable / ErrInvalidInput
// ---------------------------------------------------------------------------

func TestErrUnavailable(t *testing.T) {
	t.Parallel()
	err := &ErrUnavailable{Service: "tmdb"}
	if err.Error() != "tmdb is temporarily unavailable" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(fmt.Errorf("wrap: %w", err), &ErrUnavailable{}) {
		t.Error("expected errors.Is to match *ErrUnavailable")
	}
}

func TestErrInvalidInput(t *testing.T) {
	t.Parallel()
	withField := &ErrInvalidInput{Field: "query", Reason: "must not be empty"}
	if withField.Error() != "invalid query: must not be empty" {
		t.Errorf("Error() = %q", withField.Error())
	}

	withoutField := &ErrInvalidInput{Reason: "bad request"}
	if withoutField.Error() != "bad request" {
		t.Errorf("Error() = %q", withoutField.Error())
	}

	if !errors.Is(withField, &ErrInvalidInput{}) {
		t.Error("expected errors.Is to match *ErrInvalidInput")
	}
}

func TestSentinelErrorsWrap(t *testing.T) {
	t.Parallel()
	for _, sentinel := range []error{ErrMissingCredentials, ErrInvalidCredentials, ErrUnauthenticated, ErrBrowseBusy} {
		wrapped := fmt.Errorf("load more for alice: %w", sentinel)
		if !errors.Is(wrapped, sentinel) {
			t.Errorf("expected wrapped error to match %q", sentinel)
		}
	}
}
