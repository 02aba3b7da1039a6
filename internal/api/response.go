package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/validation"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Meta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
}

// Error codes
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeUpstreamFailed     = "UPSTREAM_FAILED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, status, Response{
		Success: true,
		Data:    data,
		Meta:    newMeta(r),
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := RequestIDFromContext(r.Context())
	writeJSON(w, status, Response{
		Success: false,
		Error: &Error{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: newMeta(r),
	})
}

// respondServiceError maps an error returned by the services or the client to a status code.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := classifyError(err)
	if status == http.StatusInternalServerError {
		reportError(r, err)
	}
	respondError(w, r, status, code, message, details)
}

func classifyError(err error) (status int, code, message string, details any) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Details()
	case errors.Is(err, &apperrors.ErrInvalidInput{}), errors.Is(err, apperrors.ErrMissingCredentials):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized, err.Error(), nil
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return http.StatusNotFound, ErrCodeNotFound, err.Error(), nil
	case errors.Is(err, apperrors.ErrBrowseBusy):
		return http.StatusConflict, ErrCodeConflict, err.Error(), nil
	case errors.Is(err, &apperrors.ErrUnavailable{}):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, err.Error(), nil
	case errors.Is(err, &apperrors.ErrAPI{}), errors.Is(err, &apperrors.ErrNetwork{}):
		return http.StatusBadGateway, ErrCodeUpstreamFailed, err.Error(), nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeUpstreamFailed, "request canceled or timed out", nil
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "internal server error", nil
	}
}

// reportError logs an unexpected error and hands it to Sentry when a hub is attached.
func reportError(r *http.Request, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Str("path", r.URL.Path).Msg("Unhandled error")
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	}
}

func newMeta(r *http.Request) *Meta {
	meta := &Meta{
		RequestID: RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}
	if start, ok := r.Context().Value(startTimeKey).(time.Time); ok {
		meta.DurationMs = time.Since(start).Milliseconds()
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}
