package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/malwarebo/taskhub/utils"
)

// RateLimitError reports a rejected request and how long the client
// should wait before retrying.
type RateLimitError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for scope %s, retry after %ds", e.Scope, int(e.RetryAfter.Seconds()))
}

// Gate enforces the configured scopes before a request proceeds. Each
// allowed scope has the current timestamp appended to its history; the
// first scope at its limit rejects the request.
type Gate struct {
	store    Store
	policies []Policy
	now      func() time.Time
	logger   *utils.Logger
}

func CreateGate(store Store, policies []Policy) *Gate {
	return &Gate{
		store:    store,
		policies: policies,
		now:      time.Now,
		logger:   utils.NewLogger("throttle"),
	}
}

// SetClock replaces the time source; test hook.
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// Allow records the request against every scope in configuration
// order. It returns a *RateLimitError when a scope is exhausted, or a
// plain error when the shared store fails.
func (g *Gate) Allow(ctx context.Context, clientID string) error {
	now := g.now()

	for _, policy := range g.policies {
		decision, err := g.store.RecordRequest(ctx, storageKey(policy.Name, clientID), policy.Limit, policy.Window, now)
		if err != nil {
			return utils.WrapError(err, "throttle store failed")
		}
		if decision.Allowed {
			continue
		}

		retryAfter := policy.Window
		if !decision.Oldest.IsZero() {
			retryAfter = policy.Window - now.Sub(decision.Oldest)
		}
		if retryAfter < 0 {
			retryAfter = 0
		}

		g.logger.Info(ctx, "request rejected by rate gate", map[string]interface{}{
			"scope":  policy.Name,
			"client": clientID,
		})

		return &RateLimitError{Scope: policy.Name, RetryAfter: retryAfter}
	}

	return nil
}
