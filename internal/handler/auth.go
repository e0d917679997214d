package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fitai/fitai/internal/middleware"
	"github.com/fitai/fitai/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (c *credentialsRequest) validate() error {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(c.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.authService.Register(r.Context(), req.Email, req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		respondError(w, http.StatusBadGateway, "registration failed")
		return
	}

	h.authService.SetSessionCookie(w, session)
	respondJSON(w, http.StatusCreated, session)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.authService.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondError(w, http.StatusBadGateway, "login failed")
		return
	}

	h.authService.SetSessionCookie(w, session)
	respondJSON(w, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout. The cookie is cleared even when
// provider-side revocation fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		h.authService.Logout(r.Context(), token)
	}

	h.authService.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Recover handles POST /api/auth/recover. Responds identically for known and
// unknown addresses.
func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.authService.Recover(r.Context(), strings.TrimSpace(req.Email)); err != nil {
		respondError(w, http.StatusBadGateway, "recovery request failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "recovery email sent"})
}

// UpdatePassword handles POST /api/auth/password. The bearer token is the
// short-lived recovery token from the reset email.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "recovery token required")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if err := h.authService.UpdatePassword(r.Context(), token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			respondError(w, http.StatusUnauthorized, "invalid or expired recovery token")
			return
		}
		respondError(w, http.StatusBadGateway, "password update failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
