package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fitai/fitai/internal/ctxkeys"
	"github.com/fitai/fitai/internal/repository"
)

// TokenVerifier validates a session token and returns the subject it was
// issued to.
type TokenVerifier interface {
	VerifyToken(token string) (userID, email string, err error)
}

// providerCookieName is set by the auth provider's own browser SDK. We accept
// it so sessions established client-side work against the API too.
const providerCookieName = "sb-access-token"

// BearerToken extracts the session token from a request. Precedence:
// Authorization header, then our session cookie, then the provider's cookie.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	if cookie, err := r.Cookie("auth_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if cookie, err := r.Cookie(providerCookieName); err == nil && cookie.Value != "" {
		// The provider SDK JSON-encodes the cookie value on some platforms
		return strings.Trim(cookie.Value, `"`)
	}

	return ""
}

// Auth resolves the session token into a user identity. Requests without a
// valid token pass through unauthenticated; RequireAuth decides whether that
// is acceptable per route.
func Auth(verifier TokenVerifier, profileRepo repository.ProfileRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, email, err := verifier.VerifyToken(token)
			if err != nil {
				slog.Debug("rejected session token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			ctx = ctxkeys.WithUserEmail(ctx, email)
			ctx = ctxkeys.WithBearerToken(ctx, token)

			// Profile is optional context; a missing row only disables
			// role checks
			if profile, err := profileRepo.ByID(userID); err == nil {
				ctx = ctxkeys.WithProfile(ctx, profile)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with a JSON 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects non-admin users with a JSON 403. Implies RequireAuth.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		profile := ctxkeys.Profile(r.Context())
		if profile == nil || !profile.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"success":false,"error":%q}`, message)
}
