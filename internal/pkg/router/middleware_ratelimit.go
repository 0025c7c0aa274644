package router

import (
	"net/http"
	"sync"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter is a per-IP token bucket. Idle entries are swept lazily.
type rateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// newRateLimiter reads app.server.rate_limit.{rps,burst}. It returns nil,
// meaning unlimited, when rps is not positive.
func newRateLimiter(cfg config.Config) *rateLimiter {
	if cfg == nil {
		return nil
	}

	rps := cfg.GetFloat64("app.server.rate_limit.rps")
	if rps <= 0 {
		return nil
	}

	burst := max(cfg.GetInt("app.server.rate_limit.burst"), 1)

	return &rateLimiter{
		limiters: make(map[string]*ipLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterSweepInterval {
		for key, v := range rl.limiters {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(rl.limiters, key)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.limiters[ip]
	if !ok {
		v = &ipLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func middlewareRateLimit(rl *rateLimiter, routes map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		if rl == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, limited := routes[matchedRoutePath(r)]; limited && r.Method == http.MethodPost {
				if !rl.allow(r.RemoteAddr) {
					w.Header().Set("Retry-After", "1")
					writeJSON(w, errorResponse{Message: "Too many requests"}, http.StatusTooManyRequests)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
