package ratelimit

import (
	"context"
	"sync"
	"time"
)

// keyState holds one subject's accepted-event timestamps together with the
// window they were taken under, so staleness is judged against the key's
// own window rather than a global horizon.
type keyState struct {
	events []time.Time
	window time.Duration
}

// MemoryStore is an in-process sliding-window counter with automatic
// stale-entry cleanup. The mutex gives the exact atomic
// read-increment-and-compare the limiter contract requires: two concurrent
// checks for the same key can never both be accepted past the limit.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]*keyState
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		keys: make(map[string]*keyState),
		now:  time.Now,
	}
	go s.cleanup()
	return s
}

func (s *MemoryStore) Take(_ context.Context, name, key string, cfg Config) (Result, error) {
	k := name + "#" + key
	now := s.now()
	cutoff := now.Add(-cfg.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.keys[k]
	if !ok {
		st = &keyState{}
		s.keys[k] = st
	}
	st.window = cfg.Window

	kept := st.events[:0]
	for _, t := range st.events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= cfg.Limit {
		st.events = kept
		return Result{Allowed: false, Remaining: 0, ResetAt: kept[0].Add(cfg.Window)}, nil
	}

	kept = append(kept, now)
	st.events = kept
	return Result{
		Allowed:   true,
		Remaining: cfg.Limit - len(kept),
		ResetAt:   kept[0].Add(cfg.Window),
	}, nil
}

// cleanup drops idle keys every 5 minutes. Entries otherwise expire
// naturally as they fall outside the window.
func (s *MemoryStore) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		s.purgeStale(s.now())
	}
}

// purgeStale removes keys whose newest event has aged past that key's own
// window. An event still inside its window is never purged, whatever the
// window length, so a purge can never reset a live count.
func (s *MemoryStore) purgeStale(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, st := range s.keys {
		if len(st.events) == 0 || now.Sub(st.events[len(st.events)-1]) > st.window {
			delete(s.keys, k)
		}
	}
}
