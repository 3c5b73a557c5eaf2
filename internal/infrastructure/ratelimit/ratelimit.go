package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	maxTokens  int
	refillEach time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(maxTokens int, refillEach time.Duration) *bucket {
	return &bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillEach: refillEach,
		lastRefill: time.Now(),
	}
}

func (b *bucket) allow() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	refills := int(now.Sub(b.lastRefill) / b.refillEach)
	if refills > 0 {
		b.tokens += refills
		if b.tokens > b.maxTokens {
			b.tokens = b.maxTokens
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, b.lastRefill.Add(b.refillEach).Sub(now)
}

// Limiter tracks per-actor token buckets keyed by action.
type Limiter struct {
	buckets map[string]*bucket
	mu      sync.RWMutex
}

func NewLimiter() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
	}
}

// Allow consumes a token for the actor/action pair, reporting whether the
// action may proceed and, when throttled, how long until the next token.
func (l *Limiter) Allow(actorID, action string) (bool, time.Duration) {
	key := actorID + ":" + action

	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()

	if !ok {
		l.mu.Lock()
		if b, ok = l.buckets[key]; !ok {
			switch action {
			case "send_message":
				// 10 messages a minute, refilled one every 6 seconds.
				b = newBucket(10, 6*time.Second)
			case "subscribe":
				b = newBucket(5, time.Minute)
			default:
				b = newBucket(20, 3*time.Second)
			}
			l.buckets[key] = b
		}
		l.mu.Unlock()
	}

	return b.allow()
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, b := range l.buckets {
		if now.Sub(b.lastRefill) > time.Hour {
			delete(l.buckets, key)
		}
	}
}

// StartCleanup drops idle buckets on a fixed interval for the life of the
// process.
func (l *Limiter) StartCleanup() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			l.cleanup()
		}
	}()
}
