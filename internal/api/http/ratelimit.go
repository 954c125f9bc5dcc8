package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP's bucket survives without a login
// attempt. It is well past the full refill time, so dropping it loses no
// state.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiters hands out one token bucket per client IP and forgets buckets
// that have gone idle.
type loginLimiters struct {
	mu        sync.Mutex
	perMin    int
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newLoginLimiters(perMinute int) *loginLimiters {
	return &loginLimiters{
		perMin:   perMinute,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

func (l *loginLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep must be called with mu held.
func (l *loginLimiters) sweep(now time.Time) {
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

func (l *loginLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// LoginRateLimit throttles login attempts per client IP. perMinute <= 0
// disables the limit.
func LoginRateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return loginRateLimit(newLoginLimiters(perMinute))
}

func loginRateLimit(limiters *loginLimiters) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiters.get(c.IP()).Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts")
		}
		return c.Next()
	}
}
