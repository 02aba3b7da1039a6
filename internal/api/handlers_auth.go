package api

import (
	"net/http"
	"time"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type meResponse struct {
	Username         string    `json:"username"`
	Mode             string    `json:"mode"`
	SessionExpiresAt time.Time `json:"session_expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastLoginAt      time.Time `json:"last_login_at"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), session.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.logger.Info().Str("username", session.Username).Msg("User logged out")
	respondJSON(w, r, http.StatusOK, map[string]bool{"logged_out": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	resp := meResponse{
		Username:         session.Username,
		Mode:             h.auth.Mode(),
		SessionExpiresAt: session.ExpiresAt,
	}

	user, err := h.auth.User(r.Context(), session.Username)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp.CreatedAt = user.CreatedAt
	resp.LastLoginAt = user.LastLoginAt

	respondJSON(w, r, http.StatusOK, resp)
}
