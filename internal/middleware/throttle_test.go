package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestSenderLimiters_Allow(t *testing.T) {
	limiters := newSenderLimiters(rate.Every(time.Minute), 2)
	now := time.Now()

	// Burst of 2, third hit is dropped
	assert.True(t, limiters.allow(42, now))
	assert.True(t, limiters.allow(42, now))
	assert.False(t, limiters.allow(42, now))

	// Another sender has their own bucket
	assert.True(t, limiters.allow(7, now))
}

func TestSenderLimiters_SweepEvictsIdle(t *testing.T) {
	limiters := newSenderLimiters(rate.Every(time.Minute), 2)
	now := time.Now()

	limiters.allow(1, now.Add(-time.Hour))
	limiters.allow(2, now.Add(-time.Hour))
	limiters.allow(3, now)

	evicted := limiters.sweep(now.Add(-throttleIdleAge))

	assert.Equal(t, 2, evicted)
	assert.Len(t, limiters.entries, 1)
	assert.Contains(t, limiters.entries, int64(3))
}

func TestSenderLimiters_ActiveSenderSurvivesSweep(t *testing.T) {
	limiters := newSenderLimiters(rate.Every(time.Minute), 1)
	now := time.Now()

	// Seen long ago, then again recently; lastSeen must refresh
	limiters.allow(42, now.Add(-time.Hour))
	limiters.allow(42, now)

	evicted := limiters.sweep(now.Add(-throttleIdleAge))

	assert.Equal(t, 0, evicted)
	assert.Contains(t, limiters.entries, int64(42))
}
