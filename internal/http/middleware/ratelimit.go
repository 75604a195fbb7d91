package middleware

import (
	"net/http"
	"sync"
	"time"
)

// Housekeeping cadence for the caller map; the rate and burst are the
// caller-facing tunables.
const (
	sweepInterval = 5 * time.Minute
	staleAfter    = 10 * time.Minute
)

// CommandLimiter throttles the engine's state-changing endpoints per
// caller. Each remote IP holds a token bucket: burst tokens up front,
// refilled continuously at rate tokens per second. Read endpoints are
// left unmetered; the bucket only guards the command surface, where a
// runaway client loop could fast-forward the game clock.
type CommandLimiter struct {
	mu      sync.Mutex
	callers map[string]*tokenBucket
	rate    float64
	burst   int

	// now is swappable so refill timing can be tested without sleeping.
	now func() time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewCommandLimiter builds a limiter granting burst commands up front and
// rate commands per second after that, per caller.
func NewCommandLimiter(rate float64, burst int) *CommandLimiter {
	l := &CommandLimiter{
		callers: make(map[string]*tokenBucket),
		rate:    rate,
		burst:   burst,
		now:     time.Now,
	}
	go l.sweep()
	return l
}

// Allow spends one token for the caller, reporting whether one was
// available.
func (l *CommandLimiter) Allow(caller string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.callers[caller]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst), seen: now}
		l.callers[caller] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * l.rate
	if b.tokens > float64(l.burst) {
		b.tokens = float64(l.burst)
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets for callers that have gone quiet so the map does
// not grow with every IP ever seen.
func (l *CommandLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := l.now().Add(-staleAfter)
		for caller, b := range l.callers {
			if b.seen.Before(cutoff) {
				delete(l.callers, caller)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit rejects requests beyond the per-IP command budget with
// 429 Too Many Requests. RealIP runs earlier in the chain, so RemoteAddr
// already carries the client address.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewCommandLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.RemoteAddr) {
				http.Error(w, "too many commands", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
