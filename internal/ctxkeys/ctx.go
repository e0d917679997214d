package ctxkeys

import (
	"context"

	"github.com/fitai/fitai/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	UserEmailKey   contextKey = "user_email"
	ProfileKey     contextKey = "profile"
	BearerTokenKey contextKey = "bearer_token"
)

func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

func UserEmail(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, UserEmailKey, email)
}

func Profile(ctx context.Context) *model.Profile {
	profile, _ := ctx.Value(ProfileKey).(*model.Profile)
	return profile
}

func WithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

// BearerToken carries the caller's raw session credential so it can be
// forwarded unchanged to the analysis service.
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(BearerTokenKey).(string)
	return token
}

func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, BearerTokenKey, token)
}
