package models

import "time"

// User is an account known to the application
type User struct {
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"password_hash,omitempty"` // only set in local auth mode
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// Session is a logged-in session; the signed token handed to the caller references its ID
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Favorite is a movie saved by a user
type Favorite struct {
	Movie
	AddedAt time.Time `json:"added_at"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
