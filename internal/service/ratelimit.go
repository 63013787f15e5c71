package service

import (
	"fmt"
	"sync"
	"time"

	"anonask/internal/repository"
)

// RejectReason classifies why a submission was not admitted
type RejectReason string

const (
	RejectCooldown  RejectReason = "cooldown"
	RejectHourlyCap RejectReason = "hourly_cap"
)

// RateLimitError is a recoverable rejection with a retry-after hint
type RateLimitError struct {
	Reason     RejectReason
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit: %s, retry after %s", e.Reason, e.RetryAfter)
}

// RateLimiter decides admit/reject for inbound questions using a durable
// sliding window with a burst cooldown tier and an hourly cap tier. The
// capacity and cooldown are tunable at runtime.
type RateLimiter struct {
	repo   repository.RateWindowRepository
	window time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	capacity int
	cooldown time.Duration
}

// NewRateLimiter creates a rate limiter over the durable window store
func NewRateLimiter(repo repository.RateWindowRepository, window time.Duration, capacity int, cooldown time.Duration) *RateLimiter {
	return &RateLimiter{
		repo:     repo,
		window:   window,
		capacity: capacity,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// SetCapacity replaces the per-window admission cap
func (l *RateLimiter) SetCapacity(capacity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capacity = capacity
}

// SetCooldown replaces the minimum gap between submissions
func (l *RateLimiter) SetCooldown(cooldown time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cooldown = cooldown
}

// Admit records the submission and returns nil, or returns a
// *RateLimitError naming the tier that rejected it. The admit-and-record
// step is atomic in the store, so a double-submit race cannot admit twice.
func (l *RateLimiter) Admit(userID int64) error {
	l.mu.RLock()
	capacity, cooldown := l.capacity, l.cooldown
	l.mu.RUnlock()

	now := l.now()
	windowStart := now.Add(-l.window)
	cooldownStart := now.Add(-cooldown)

	admitted, err := l.repo.TryAdmit(userID, now, windowStart, cooldownStart, capacity)
	if err != nil {
		return fmt.Errorf("rate limiter admit: %w", err)
	}
	if admitted {
		return nil
	}

	count, oldest, newest, err := l.repo.WindowState(userID, windowStart)
	if err != nil {
		return fmt.Errorf("rate limiter window state: %w", err)
	}

	// The cooldown tier is checked first, same order as the admit statement
	if !newest.IsZero() && newest.After(cooldownStart) {
		return &RateLimitError{
			Reason:     RejectCooldown,
			RetryAfter: newest.Add(cooldown).Sub(now),
		}
	}

	retry := l.window
	if count >= capacity && !oldest.IsZero() {
		retry = oldest.Add(l.window).Sub(now)
	}
	return &RateLimitError{Reason: RejectHourlyCap, RetryAfter: retry}
}
