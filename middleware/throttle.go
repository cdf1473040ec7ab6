package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/malwarebo/taskhub/api"
	"github.com/malwarebo/taskhub/throttle"
	"github.com/malwarebo/taskhub/utils"
)

// ThrottleMiddleware applies the configured per-client rate scopes.
// Anonymous and authenticated clients carry separate scope sets, the
// way the rest of the request pipeline separates them: anonymous
// clients are keyed by IP, authenticated ones by user id.
type ThrottleMiddleware struct {
	anonGate *throttle.Gate
	authGate *throttle.Gate
	anonInsp *throttle.Inspector
	authInsp *throttle.Inspector
	logger   *utils.Logger
}

func CreateThrottleMiddleware(store throttle.Store, anonymous, authenticated []throttle.Policy) *ThrottleMiddleware {
	return &ThrottleMiddleware{
		anonGate: throttle.CreateGate(store, anonymous),
		authGate: throttle.CreateGate(store, authenticated),
		anonInsp: throttle.CreateInspector(store, anonymous),
		authInsp: throttle.CreateInspector(store, authenticated),
		logger:   utils.NewLogger("throttle"),
	}
}

func (tm *ThrottleMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		gate, inspector := tm.anonGate, tm.anonInsp
		clientID := clientAddress(r)
		if userID := api.UserIDFrom(ctx); userID != 0 {
			gate, inspector = tm.authGate, tm.authInsp
			clientID = fmt.Sprintf("user:%d", userID)
		}

		if err := gate.Allow(ctx, clientID); err != nil {
			if rateErr, ok := err.(*throttle.RateLimitError); ok {
				tm.reject(w, r, clientID, inspector, rateErr)
				return
			}
			tm.logger.Error(ctx, "throttle store failed", map[string]interface{}{
				"error": err.Error(),
			})
			api.WriteFailure(w, r, api.DetailError{Detail: "Internal server error"}, http.StatusInternalServerError, "Request failed")
			return
		}

		details, err := inspector.Inspect(ctx, clientID)
		if err != nil {
			tm.logger.Error(ctx, "throttle inspection failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if details != nil {
			ctx = api.WithRateLimits(ctx, details)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (tm *ThrottleMiddleware) reject(w http.ResponseWriter, r *http.Request, clientID string, inspector *throttle.Inspector, rateErr *throttle.RateLimitError) {
	ctx := r.Context()

	if details, err := inspector.Inspect(ctx, clientID); err == nil && details != nil {
		ctx = api.WithRateLimits(ctx, details)
		r = r.WithContext(ctx)
	}

	retryAfter := int(rateErr.RetryAfter.Seconds())
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	api.WriteFailure(w, r, api.RetryError{
		Detail:     fmt.Sprintf("Request was throttled by the %s scope.", rateErr.Scope),
		RetryAfter: retryAfter,
	}, http.StatusTooManyRequests, "Request throttled")
}

// clientAddress keys anonymous clients by IP, preferring the first
// X-Forwarded-For hop when a proxy sits in front.
func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for i := 0; i < len(forwarded); i++ {
			if forwarded[i] == ',' {
				return "ip:" + forwarded[:i]
			}
		}
		return "ip:" + forwarded
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
