package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewMovieNotFoundError creates a specific error for when a movie does not exist upstream.
func NewMovieNotFoundError(movieID int) *ErrNotFound {
	return &ErrNotFound{
		Resource: "movie",
		ID:       movieID,
	}
}

// ErrAPI is returned when the metadata API answers with a non-success status.
type ErrAPI struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *ErrAPI) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d", e.Status)
	}
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Message)
}

// Is allows for error checking with errors.Is().
func (e *ErrAPI) Is(target error) bool {
	_, ok := target.(*ErrAPI)
	return ok
}

// ErrNetwork is returned when a request was sent but no response came back.
type ErrNetwork struct {
	Err error
}

// Error implements the error interface.
func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network error: no response from server: %v", e.Err)
}

// Unwrap exposes the transport error.
func (e *ErrNetwork) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrNetwork) Is(target error) bool {
	_, ok := target.(*ErrNetwork)
	return ok
}

// ErrUnavailable is returned while the circuit breaker in front of the metadata API is open.
type ErrUnavailable struct {
	Service string
}

// Error implements the error interface.
func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is temporarily unavailable", e.Service)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnavailable) Is(target error) bool {
	_, ok := target.(*ErrUnavailable)
	return ok
}

// ErrInvalidInput is returned when caller-supplied input is rejected before any work is done.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidInput) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidInput) Is(target error) bool {
	_, ok := target.(*ErrInvalidInput)
	return ok
}

// Sentinel errors for authentication.
var (
	// ErrMissingCredentials is returned when the username or password is empty.
	ErrMissingCredentials = errors.New("please enter both username and password")

	// ErrInvalidCredentials is returned when the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned when a token is missing, invalid, expired or revoked.
	ErrUnauthenticated = errors.New("authentication required")
)

// ErrBrowseBusy is returned when a user's browse state is already being loaded.
var ErrBrowseBusy = errors.New("a browse request is already in progress")
