package throttle

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of an atomic record attempt for one scope.
type Decision struct {
	Allowed bool
	// Count is the number of requests already inside the window,
	// not including the one being recorded.
	Count int
	// Oldest is the earliest retained timestamp; zero when the
	// window was empty.
	Oldest time.Time
}

// Store holds per-(client, scope) request histories in a shared
// backend. RecordRequest must serialize its read-prune-check-append
// sequence per key so two racing requests cannot both take the last
// slot.
type Store interface {
	// History returns the timestamps within the window, oldest
	// first, without modifying anything.
	History(ctx context.Context, key string, window time.Duration, now time.Time) ([]time.Time, error)
	// RecordRequest prunes the window, rejects if the limit is
	// already reached, and otherwise appends now.
	RecordRequest(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Decision, error)
}

func storageKey(scope, clientID string) string {
	return fmt.Sprintf("throttle:%s:%s", scope, clientID)
}
