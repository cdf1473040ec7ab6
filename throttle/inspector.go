package throttle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/malwarebo/taskhub/utils"
)

// Usage describes a client's standing against one throttle scope.
type Usage struct {
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetTime  time.Time `json:"reset_time"`
	RetryAfter int       `json:"retry_after"`
}

// Details is the full rate-limit picture for a request, keyed by
// scope name. ThrottledBy names the first exhausted scope in
// configuration order, or is empty when none is exhausted.
type Details struct {
	ThrottledBy string           `json:"throttled_by,omitempty"`
	Throttles   map[string]Usage `json:"throttles"`
}

// Inspector computes current usage per scope without consuming any
// quota; the write side lives in Gate.
type Inspector struct {
	store    Store
	policies []Policy
	now      func() time.Time
	logger   *utils.Logger
}

func CreateInspector(store Store, policies []Policy) *Inspector {
	return &Inspector{
		store:    store,
		policies: policies,
		now:      time.Now,
		logger:   utils.NewLogger("throttle"),
	}
}

// SetClock replaces the time source; test hook.
func (i *Inspector) SetClock(now func() time.Time) {
	i.now = now
}

// Inspect reports usage for every configured scope. All scopes are
// evaluated even after one is found exhausted, so response headers can
// describe the complete picture. Returns nil when no scopes are
// configured.
func (i *Inspector) Inspect(ctx context.Context, clientID string) (*Details, error) {
	if len(i.policies) == 0 {
		return nil, nil
	}

	now := i.now()
	details := &Details{Throttles: make(map[string]Usage, len(i.policies))}

	for _, policy := range i.policies {
		history, err := i.store.History(ctx, storageKey(policy.Name, clientID), policy.Window, now)
		if err != nil {
			return nil, utils.WrapError(err, "throttle history read failed")
		}

		resetTime := now.Add(policy.Window)
		if len(history) > 0 {
			resetTime = history[0].Add(policy.Window)
		}

		retryAfter := int(resetTime.Sub(now).Seconds())
		if retryAfter < 0 {
			retryAfter = 0
		}

		remaining := policy.Limit - len(history)
		if remaining < 0 {
			remaining = 0
		}

		details.Throttles[policy.Name] = Usage{
			Limit:      policy.Limit,
			Remaining:  remaining,
			ResetTime:  resetTime.UTC(),
			RetryAfter: retryAfter,
		}

		if remaining == 0 && details.ThrottledBy == "" {
			details.ThrottledBy = policy.Name
			i.logger.Info(ctx, "request throttled", map[string]interface{}{
				"scope":  policy.Name,
				"client": clientID,
			})
		}
	}

	return details, nil
}

// AttachHeaders mirrors throttle details into per-scope response
// headers.
func AttachHeaders(h http.Header, details *Details) {
	if details == nil {
		return
	}

	for scope, usage := range details.Throttles {
		h.Set(fmt.Sprintf("X-Throttle-%s-Limit", scope), fmt.Sprintf("%d", usage.Limit))
		h.Set(fmt.Sprintf("X-Throttle-%s-Remaining", scope), fmt.Sprintf("%d", usage.Remaining))
		h.Set(fmt.Sprintf("X-Throttle-%s-Reset", scope), usage.ResetTime.Format(time.RFC3339))
		h.Set(fmt.Sprintf("X-Throttle-%s-Retry-After", scope), fmt.Sprintf("%d", usage.RetryAfter))
	}
}
