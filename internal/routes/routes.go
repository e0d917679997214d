package routes

import (
	"net/http"

	"github.com/fitai/fitai/internal/app"
	"github.com/fitai/fitai/internal/handler"
	"github.com/fitai/fitai/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	video := handler.NewVideoHandler(app.VideoService, app.Cfg)
	favorite := handler.NewFavoriteHandler(app.FavoriteService)
	profile := handler.NewProfileHandler(app.ProfileService)
	exercise := handler.NewExerciseHandler(app.ExerciseService)
	webhook := handler.NewWebhookHandler(app.VideoService, app.Cfg)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(app.Metrics, promhttp.HandlerOpts{}))

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("POST /api/auth/recover", rateLimiter(auth.Recover))
	mux.HandleFunc("POST /api/auth/password", rateLimiter(auth.UpdatePassword))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	uploadLimiter := middleware.RateLimitUpload()
	mux.HandleFunc("POST /api/videos/upload", uploadLimiter(middleware.RequireAuth(video.Upload)))
	mux.HandleFunc("GET /api/videos", middleware.RequireAuth(video.List))
	mux.HandleFunc("GET /api/videos/{id}/status", middleware.RequireAuth(video.Status))
	mux.HandleFunc("DELETE /api/videos/{id}", middleware.RequireAuth(video.Delete))

	mux.HandleFunc("POST /api/favorites/toggle", middleware.RequireAuth(favorite.Toggle))
	mux.HandleFunc("GET /api/favorites", middleware.RequireAuth(favorite.List))

	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Show))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.Update))

	mux.HandleFunc("GET /api/exercises", middleware.RequireAuth(exercise.List))
	mux.HandleFunc("GET /api/exercises/{id}", middleware.RequireAuth(exercise.Show))

	// Admin
	mux.HandleFunc("POST /api/exercises", middleware.RequireAdmin(exercise.Create))

	// ============================================================================
	// WEBHOOKS
	// ============================================================================

	// Analysis service result callback (shared-secret authenticated)
	mux.HandleFunc("POST /webhooks/analysis", webhook.Analysis)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestLogging,
		middleware.Metrics(app.Metrics, mux),
		middleware.Auth(app.AuthService, app.ProfileRepo),
	)

	return handler
}
