package throttle

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errUnexpectedScriptReply = errors.New("throttle: unexpected script reply")

// MemoryStore is an in-process Store for tests and single-instance
// deployments. A mutex serializes the read-prune-check-append sequence.
type MemoryStore struct {
	mu        sync.Mutex
	histories map[string][]time.Time
}

func CreateMemoryStore() *MemoryStore {
	return &MemoryStore{
		histories: make(map[string][]time.Time),
	}
}

func (s *MemoryStore) History(ctx context.Context, key string, window time.Duration, now time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := prune(s.histories[key], window, now)
	out := make([]time.Time, len(pruned))
	copy(out, pruned)
	return out, nil
}

func (s *MemoryStore) RecordRequest(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := prune(s.histories[key], window, now)
	decision := Decision{Count: len(history)}
	if len(history) > 0 {
		decision.Oldest = history[0]
	}

	if len(history) >= limit {
		s.histories[key] = history
		return decision, nil
	}

	decision.Allowed = true
	s.histories[key] = append(history, now)
	return decision, nil
}

func prune(history []time.Time, window time.Duration, now time.Time) []time.Time {
	cutoff := now.Add(-window)
	kept := history[:0:len(history)]
	for _, ts := range history {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
