package validation

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	limit       rate.Limit
	burst       int
	clients     map[string]*rate.Limiter
	mu          sync.RWMutex
	cleanupTick *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// NewRateLimiter allows perSecond commands per client with bursts of up to
// burst. Buckets that have refilled completely are dropped every idle period.
func NewRateLimiter(perSecond float64, burst int, idle time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:       rate.Limit(perSecond),
		burst:       burst,
		clients:     make(map[string]*rate.Limiter),
		cleanupTick: time.NewTicker(idle),
		done:        make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) limiter(clientID string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.clients[clientID]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists = rl.clients[clientID]; !exists {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[clientID] = limiter
	}
	return limiter
}

// Allow consumes one token for clientID.
func (rl *RateLimiter) Allow(clientID string) bool {
	return rl.limiter(clientID).Allow()
}

// Forget drops the bucket of a client that went away.
func (rl *RateLimiter) Forget(clientID string) {
	rl.mu.Lock()
	delete(rl.clients, clientID)
	rl.mu.Unlock()
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.clients)
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case now := <-rl.cleanupTick.C:
			rl.removeIdleClients(now)
		case <-rl.done:
			return
		}
	}
}

// removeIdleClients drops buckets that are full again; a fresh bucket
// behaves the same.
func (rl *RateLimiter) removeIdleClients(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for clientID, limiter := range rl.clients {
		if limiter.TokensAt(now) >= float64(rl.burst) {
			delete(rl.clients, clientID)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
		rl.cleanupTick.Stop()
	})
}
