package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-trust-api/internal/domain"
)

// Config defines one named limiter: at most Limit accepted events per
// subject key in any trailing Window interval (sliding, not a fixed reset).
type Config struct {
	Limit  int
	Window time.Duration
}

// Result answers a single limiter check. Remaining counts further events
// the subject may spend in the current window; ResetAt is when the oldest
// counted event falls out of the window.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Store is the backing counter. Take must atomically count the events in
// the trailing window, record the new event if under the limit, and report
// the outcome. A rejected check must not count toward the limit.
type Store interface {
	Take(ctx context.Context, name, key string, cfg Config) (Result, error)
}

// Registry holds the named limiter configurations, constructed once at
// startup and injected into request-handling contexts.
type Registry struct {
	store   Store
	configs map[string]Config
}

func NewRegistry(store Store, configs map[string]Config) *Registry {
	return &Registry{store: store, configs: configs}
}

// Check runs the named limiter for the subject key. Unknown limiter names
// are a programming error and fail closed.
func (r *Registry) Check(ctx context.Context, name, key string) (Result, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return Result{}, fmt.Errorf("unknown limiter %q: %w", name, domain.ErrBadRequest)
	}
	return r.store.Take(ctx, name, key, cfg)
}
