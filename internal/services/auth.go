package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Belphemur/CineFinder/internal/apperrors"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/metrics"
	"github.com/Belphemur/CineFinder/internal/models"
	"github.com/Belphemur/CineFinder/internal/store"
)

// Authentication modes
const (
	// AuthModeDemo accepts any non-empty username and password.
	AuthModeDemo = "demo"
	// AuthModeLocal registers the password on first login and checks it afterwards.
	AuthModeLocal = "local"
)

const (
	tokenIssuer       = "cinefinder"
	defaultSessionTTL = 24 * time.Hour
	bcryptCost        = 12
)

// Claims carried by the session token
type Claims struct {
	Username  string `json:"username"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthConfig configures AuthService
type AuthConfig struct {
	Mode       string
	JWTSecret  string
	SessionTTL time.Duration
}

// AuthService logs users in and out and resolves session tokens.
type AuthService struct {
	store      store.Store
	mode       string
	secret     []byte
	sessionTTL time.Duration
	hashCost   int
	now        func() time.Time
}

// NewAuthService validates cfg and builds the service. Without a configured secret a random
// one is generated, so tokens do not survive a restart.
func NewAuthService(s store.Store, cfg AuthConfig) (*AuthService, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = AuthModeDemo
	}
	if mode != AuthModeDemo && mode != AuthModeLocal {
		return nil, fmt.Errorf("unknown auth mode %q (want %q or %q)", cfg.Mode, AuthModeDemo, AuthModeLocal)
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		logger := config.GetLogger()
		logger.Warn().Msg("No auth.jwt_secret configured, using a random secret; sessions end on restart")
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &AuthService{
		store:      s,
		mode:       mode,
		secret:     secret,
		sessionTTL: ttl,
		hashCost:   bcryptCost,
		now:        time.Now,
	}, nil
}

// NormalizeUsername trims and lowercases a username so "Alice" and "alice" share one account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Mode returns the active authentication mode
func (a *AuthService) Mode() string {
	return a.mode
}

// Login checks the credentials, opens a session and returns its signed token.
func (a *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	logger := config.GetLogger()
	username = NormalizeUsername(username)
	if username == "" || strings.TrimSpace(password) == "" {
		metrics.LoginsTotal.WithLabelValues("missing_credentials").Inc()
		return nil, apperrors.ErrMissingCredentials
	}

	user, err := a.loadOrRegister(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			logger.Info().Str("username", username).Msg("Rejected login with wrong password")
		} else {
			metrics.LoginsTotal.WithLabelValues(metrics.StatusError).Inc()
		}
		return nil, err
	}

	now := a.now()
	user.LastLoginAt = now
	if err := store.SaveJSON(ctx, a.store, store.UserKey(username), user, 0); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, fmt.Errorf("save user: %w", err)
	}

	session := models.Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(a.sessionTTL),
	}
	if err := store.SaveJSON(ctx, a.store, store.SessionKey(session.ID), session, a.sessionTTL); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := a.signToken(session)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	logger.Info().Str("username", username).Str("mode", a.mode).Msg("User logged in")

	return &models.LoginResult{
		Token:     token,
		Username:  username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (a *AuthService) loadOrRegister(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	found, err := store.LoadJSON(ctx, a.store, store.UserKey(username), &user)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !found {
		user = models.User{Username: username, CreatedAt: a.now()}
	}

	if a.mode != AuthModeLocal {
		return &user, nil
	}

	if len(user.PasswordHash) == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
		return &user, nil
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// Logout ends the session. Unknown sessions are ignored.
func (a *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := a.store.Delete(ctx, store.SessionKey(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its live session.
func (a *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := a.parseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	var session models.Session
	found, err := store.LoadJSON(ctx, a.store, store.SessionKey(claims.SessionID), &session)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: session ended", apperrors.ErrUnauthenticated)
	}
	if session.Username != claims.Username || a.now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: session ended", apperrors.ErrUnauthenticated)
	}
	return &session, nil
}

// User returns the stored account without its password hash.
func (a *AuthService) User(ctx context.Context, username string) (*models.User, error) {
	username = NormalizeUsername(username)
	var user models.User
	found, err := store.LoadJSON(ctx, a.store, store.UserKey(username), &user)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFoundError("user", username)
	}
	user.PasswordHash = nil
	return &user, nil
}

func (a *AuthService) signToken(session models.Session) (string, error) {
	claims := &Claims{
		Username:  session.Username,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   session.Username,
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *AuthService) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
