package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/campus-trust-api/internal/application/ratelimit"
	"golang.org/x/time/rate"
)

type limiterRegistry interface {
	Check(ctx context.Context, name, key string) (ratelimit.Result, error)
}

// NamedLimit enforces one of the configured sliding-window limiters, keyed
// by the authenticated subject when present, else the remote IP. Store
// errors fail closed: an unreachable counter store is never license to skip
// a safety-critical limit.
func NamedLimit(reg limiterRegistry, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := RealIP(r)
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				key = claims.Phone
			}
			res, err := reg.Check(r.Context(), name, key)
			if err != nil {
				slog.Warn("rate limit check failed, rejecting", "limiter", name, "err", err)
				writeRateLimited(w, ratelimit.Result{ResetAt: time.Now().Add(time.Minute)})
				return
			}
			if !res.Allowed {
				writeRateLimited(w, res)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}

func writeRateLimited(w http.ResponseWriter, res ratelimit.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("X-RateLimit-Reset", res.ResetAt.UTC().Format(time.RFC3339))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "too many requests",
		"reset_at": res.ResetAt.UTC().Format(time.RFC3339),
	})
}

// RealIP resolves the client address behind proxies: first hop of
// X-Forwarded-For, then X-Real-Ip, then the socket address.
func RealIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// BurstGuard is a per-IP token-bucket limiter with automatic stale-entry
// cleanup, sitting in front of sensitive public endpoints as a cheap abuse
// brake ahead of the named per-subject limiters.
type BurstGuard struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	r        rate.Limit
	burst    int
}

// NewBurstGuard creates a per-IP limiter: r requests/second, burst up to burst requests.
func NewBurstGuard(r rate.Limit, burst int) *BurstGuard {
	g := &BurstGuard{
		limiters: make(map[string]*ipLimiter),
		r:        r,
		burst:    burst,
	}
	go g.cleanup()
	return g
}

func (g *BurstGuard) get(ip string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.limiters[ip]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}
	l := rate.NewLimiter(g.r, g.burst)
	g.limiters[ip] = &ipLimiter{limiter: l, lastSeen: time.Now()}
	return l
}

// cleanup removes stale entries every 5 minutes.
func (g *BurstGuard) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		g.mu.Lock()
		for ip, v := range g.limiters {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(g.limiters, ip)
			}
		}
		g.mu.Unlock()
	}
}

// Limit is the middleware handler that enforces the burst limit per remote IP.
func (g *BurstGuard) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.get(RealIP(r)).Allow() {
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
