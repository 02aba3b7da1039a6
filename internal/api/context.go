package api

import (
	"context"

	"github.com/Belphemur/CineFinder/internal/models"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	startTimeKey
	sessionKey
)

// RequestIDFromContext returns the id assigned by the RequestID middleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// SessionFromContext returns the session resolved by the authentication middleware.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*models.Session)
	return session, ok && session != nil
}

func withSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}
