package api

import (
	"context"

	"github.com/malwarebo/taskhub/throttle"
)

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	rateLimitsKey contextKey = "rate_limits"
	userIDKey     contextKey = "user_id"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func WithRateLimits(ctx context.Context, details *throttle.Details) context.Context {
	return context.WithValue(ctx, rateLimitsKey, details)
}

func RateLimitsFrom(ctx context.Context) *throttle.Details {
	if details, ok := ctx.Value(rateLimitsKey).(*throttle.Details); ok {
		return details
	}
	return nil
}

// WithUserID records the authenticated user for handlers and
// user-scoped throttling; zero means anonymous.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFrom(ctx context.Context) uint {
	if id, ok := ctx.Value(userIDKey).(uint); ok {
		return id
	}
	return 0
}
