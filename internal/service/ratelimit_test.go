package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"anonask/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRateLimiter_Admit(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	window := time.Hour
	cooldown := 5 * time.Second
	capacity := 500

	mockRepo := new(testutil.MockRateWindowRepository)
	mockRepo.On("TryAdmit", int64(42), now, now.Add(-window), now.Add(-cooldown), capacity).
		Return(true, nil)

	limiter := NewRateLimiter(mockRepo, window, capacity, cooldown)
	limiter.now = func() time.Time { return now }

	err := limiter.Admit(42)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRateLimiter_CooldownRejection(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	window := time.Hour
	cooldown := 5 * time.Second

	// Last submission 2 seconds ago, within the cooldown
	newest := now.Add(-2 * time.Second)

	mockRepo := new(testutil.MockRateWindowRepository)
	mockRepo.On("TryAdmit", int64(42), now, now.Add(-window), now.Add(-cooldown), 500).
		Return(false, nil)
	mockRepo.On("WindowState", int64(42), now.Add(-window)).
		Return(3, newest.Add(-time.Minute), newest, nil)

	limiter := NewRateLimiter(mockRepo, window, 500, cooldown)
	limiter.now = func() time.Time { return now }

	err := limiter.Admit(42)

	var rlErr *RateLimitError
	assert.ErrorAs(t, err, &rlErr)
	assert.Equal(t, RejectCooldown, rlErr.Reason)
	assert.Equal(t, 3*time.Second, rlErr.RetryAfter)
	mockRepo.AssertExpectations(t)
}

func TestRateLimiter_HourlyCapRejection(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	window := time.Hour
	cooldown := 5 * time.Second
	capacity := 500

	// Window is full: oldest entry leaves the window in 10 minutes,
	// newest is past the cooldown
	oldest := now.Add(-50 * time.Minute)
	newest := now.Add(-time.Minute)

	mockRepo := new(testutil.MockRateWindowRepository)
	mockRepo.On("TryAdmit", int64(7), now, now.Add(-window), now.Add(-cooldown), capacity).
		Return(false, nil)
	mockRepo.On("WindowState", int64(7), now.Add(-window)).
		Return(capacity, oldest, newest, nil)

	limiter := NewRateLimiter(mockRepo, window, capacity, cooldown)
	limiter.now = func() time.Time { return now }

	err := limiter.Admit(7)

	var rlErr *RateLimitError
	assert.ErrorAs(t, err, &rlErr)
	assert.Equal(t, RejectHourlyCap, rlErr.Reason)
	assert.Equal(t, 10*time.Minute, rlErr.RetryAfter)
	mockRepo.AssertExpectations(t)
}

func TestRateLimiter_StorageError(t *testing.T) {
	mockRepo := new(testutil.MockRateWindowRepository)
	mockRepo.On("TryAdmit", int64(1), mock.Anything, mock.Anything, mock.Anything, 500).
		Return(false, fmt.Errorf("db down"))

	limiter := NewRateLimiter(mockRepo, time.Hour, 500, 5*time.Second)

	err := limiter.Admit(1)

	assert.Error(t, err)
	var rlErr *RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}
