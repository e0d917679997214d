package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// SessionCookieName is where the session token lives in the browser.
const SessionCookieName = "auth_token"

// Session is what the auth provider hands back for a signed-in user.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// AuthService fronts the managed identity provider's REST API. Credentials
// never touch our database; we only verify the provider's session tokens
// locally and keep a profile row per subject.
type AuthService struct {
	baseURL     string
	apiKey      string
	jwtSecret   []byte
	client      *http.Client
	profileRepo repository.ProfileRepository
	secure      bool
}

func NewAuthService(cfg *config.Config, profileRepo repository.ProfileRepository) *AuthService {
	return &AuthService{
		baseURL:     strings.TrimSuffix(cfg.AuthURL, "/"),
		apiKey:      cfg.AuthAPIKey,
		jwtSecret:   []byte(cfg.AuthJWTSecret),
		client:      &http.Client{Timeout: 15 * time.Second},
		profileRepo: profileRepo,
		secure:      cfg.IsProduction(),
	}
}

// Register creates the account at the provider and the local profile.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"name": name},
	}

	session := &Session{}
	err := s.request(ctx, http.MethodPost, "/signup", payload, "", session)
	if err != nil {
		return nil, err
	}

	s.ensureProfile(session.User.ID, session.User.Email, name)
	return session, nil
}

// Login exchanges credentials for a session via the password grant.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	session := &Session{}
	err := s.request(ctx, http.MethodPost, "/token?grant_type=password", payload, "", session)
	if err != nil {
		return nil, err
	}

	s.ensureProfile(session.User.ID, session.User.Email, "")
	return session, nil
}

// Logout revokes the session at the provider. A failed revocation is logged
// but not surfaced; the local cookie is cleared regardless.
func (s *AuthService) Logout(ctx context.Context, token string) {
	err := s.request(ctx, http.MethodPost, "/logout", nil, token, nil)
	if err != nil {
		slog.Warn("provider logout failed", "error", err)
	}
}

// Recover asks the provider to send a password reset email. The provider
// responds identically whether or not the address is registered.
func (s *AuthService) Recover(ctx context.Context, email string) error {
	return s.request(ctx, http.MethodPost, "/recover", map[string]any{"email": email}, "", nil)
}

// UpdatePassword sets a new password using the short-lived token from the
// recovery email.
func (s *AuthService) UpdatePassword(ctx context.Context, recoveryToken, newPassword string) error {
	payload := map[string]any{"password": newPassword}
	return s.request(ctx, http.MethodPut, "/user", payload, recoveryToken, nil)
}

// request sends a JSON request to the provider, mapping its error responses
// to sentinels.
func (s *AuthService) request(ctx context.Context, method, path string, payload any, bearer string, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode auth request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode auth response: %w", err)
		}
		return nil
	}

	return s.mapError(resp)
}

func (s *AuthService) mapError(resp *http.Response) error {
	var provErr struct {
		Message string `json:"msg"`
		Error   string `json:"error_description"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&provErr)
	message := provErr.Message
	if message == "" {
		message = provErr.Error
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "invalid login"):
		return ErrInvalidCredentials
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidToken
	case resp.StatusCode == http.StatusUnprocessableEntity,
		strings.Contains(strings.ToLower(message), "already registered"):
		return ErrEmailAlreadyExists
	default:
		return fmt.Errorf("auth provider returned %d: %s", resp.StatusCode, message)
	}
}

// ensureProfile creates the local profile row on first sight of a subject.
func (s *AuthService) ensureProfile(id, email, name string) {
	if id == "" {
		return
	}

	err := s.profileRepo.Create(&model.Profile{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      model.RoleMember,
		CreatedAt: time.Now(),
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicateProfile) {
		slog.Error("failed to create profile", "user_id", id, "error", err)
	}
}

// sessionClaims are the provider token claims we rely on.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// VerifyToken validates a provider-issued session token locally using the
// shared signing secret, so the hot path never calls the provider.
func (s *AuthService) VerifyToken(tokenString string) (userID, email string, err error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", "", ErrInvalidToken
	}

	return subject, claims.Email, nil
}

// SetSessionCookie stores the session token for browser clients.
func (s *AuthService) SetSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   session.ExpiresIn,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session token.
func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
