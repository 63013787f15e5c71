package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// throttleIdleAge is how long a sender may be silent before their limiter
// is evicted; also the sweep interval of the janitor
const throttleIdleAge = 10 * time.Minute

type throttleEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// senderLimiters holds one token bucket per recently active sender
type senderLimiters struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	entries map[int64]*throttleEntry
}

func newSenderLimiters(every rate.Limit, burst int) *senderLimiters {
	return &senderLimiters{
		every:   every,
		burst:   burst,
		entries: make(map[int64]*throttleEntry),
	}
}

func (s *senderLimiters) allow(senderID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[senderID]
	if !ok {
		entry = &throttleEntry{lim: rate.NewLimiter(s.every, s.burst)}
		s.entries[senderID] = entry
	}
	entry.lastSeen = now

	return entry.lim.Allow()
}

// sweep evicts senders silent since before cutoff and returns the count
func (s *senderLimiters) sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Throttle drops updates from senders flooding the transport. This is a
// cheap in-memory guard in front of the durable question rate limiter; it
// protects button spam and non-question traffic too. A janitor goroutine
// evicts buckets of senders that went silent.
func Throttle(every rate.Limit, burst int, logger *zap.Logger) tele.MiddlewareFunc {
	limiters := newSenderLimiters(every, burst)

	go func() {
		ticker := time.NewTicker(throttleIdleAge)
		defer ticker.Stop()
		for range ticker.C {
			if evicted := limiters.sweep(time.Now().Add(-throttleIdleAge)); evicted > 0 {
				logger.Debug("Evicted idle throttle buckets", zap.Int("count", evicted))
			}
		}
	}()

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			if !limiters.allow(sender.ID, time.Now()) {
				logger.Debug("Update throttled", zap.Int64("user_id", sender.ID))
				if c.Callback() != nil {
					return c.Respond()
				}
				return nil
			}

			return next(c)
		}
	}
}
