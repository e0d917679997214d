package middleware

import (
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
)

// Recover turns handler panics into 500 responses instead of dropped
// connections, reporting them to Sentry when configured.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				sentry.CurrentHub().Recover(err)
				slog.Error("panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
