package service

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"anonask/internal/repository"
	"anonask/internal/validation"

	"go.uber.org/zap"
)

// Settings keys holding runtime limit overrides
const (
	keyRateCapacity = "rate_limit_per_hour"
	keyRateCooldown = "rate_limit_cooldown_seconds"
	keyMaxQuestion  = "max_question_length"
	keyMaxAnswer    = "max_answer_length"
	keyPageSize     = "questions_per_page"
)

// Limits is the set of runtime-tunable values
type Limits struct {
	RateCapacity int
	RateCooldown time.Duration
	MaxQuestion  int
	MaxAnswer    int
	PageSize     int
}

// LimitRangeError reports a tuning value outside the allowed range
type LimitRangeError struct {
	Min, Max int
}

func (e *LimitRangeError) Error() string {
	return fmt.Sprintf("value out of range %d-%d", e.Min, e.Max)
}

// Allowed tuning ranges
var (
	rangeRateCapacity = [2]int{1, 1000}
	rangeRateCooldown = [2]int{0, 3600}
	rangeMaxQuestion  = [2]int{10, 10000}
	rangeMaxAnswer    = [2]int{10, 10000}
	rangePageSize     = [2]int{1, 50}
)

// LimitsService lets the admin retune limits at runtime. Values persist in
// the settings store and are pushed into the running validator, rate
// limiter and question service on every change.
type LimitsService struct {
	repo      repository.SettingsRepository
	defaults  Limits
	validator *validation.Validator
	limiter   *RateLimiter
	questions *QuestionService
	logger    *zap.Logger

	mu      sync.RWMutex
	current Limits
}

// NewLimitsService creates a limits service seeded with the config defaults
func NewLimitsService(
	repo repository.SettingsRepository,
	defaults Limits,
	validator *validation.Validator,
	limiter *RateLimiter,
	questions *QuestionService,
	logger *zap.Logger,
) *LimitsService {
	return &LimitsService{
		repo:      repo,
		defaults:  defaults,
		validator: validator,
		limiter:   limiter,
		questions: questions,
		logger:    logger,
		current:   defaults,
	}
}

// Load reads stored overrides and applies them, so retuned limits survive
// a restart. Missing keys keep their config defaults.
func (s *LimitsService) Load() error {
	s.mu.Lock()
	limits := s.defaults

	overrides := []struct {
		key  string
		dest *int
	}{
		{keyRateCapacity, &limits.RateCapacity},
		{keyMaxQuestion, &limits.MaxQuestion},
		{keyMaxAnswer, &limits.MaxAnswer},
		{keyPageSize, &limits.PageSize},
	}
	for _, o := range overrides {
		value, err := s.repo.Get(o.key)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("load %s: %w", o.key, err)
		}
		if value == "" {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			s.logger.Warn("Ignoring malformed stored limit",
				zap.String("key", o.key),
				zap.String("value", value),
			)
			continue
		}
		*o.dest = parsed
	}

	cooldown, err := s.repo.Get(keyRateCooldown)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("load %s: %w", keyRateCooldown, err)
	}
	if cooldown != "" {
		if seconds, err := strconv.Atoi(cooldown); err == nil {
			limits.RateCooldown = time.Duration(seconds) * time.Second
		}
	}

	s.current = limits
	s.mu.Unlock()

	s.apply(limits)
	return nil
}

// Current returns the limits in effect
func (s *LimitsService) Current() Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Defaults returns the config-supplied values Reset falls back to
func (s *LimitsService) Defaults() Limits {
	return s.defaults
}

// SetRateCapacity retunes the questions-per-window cap
func (s *LimitsService) SetRateCapacity(n int) error {
	return s.set(keyRateCapacity, n, rangeRateCapacity, func(l *Limits) { l.RateCapacity = n })
}

// SetRateCooldown retunes the gap between questions, in seconds
func (s *LimitsService) SetRateCooldown(seconds int) error {
	return s.set(keyRateCooldown, seconds, rangeRateCooldown, func(l *Limits) {
		l.RateCooldown = time.Duration(seconds) * time.Second
	})
}

// SetMaxQuestion retunes the question length ceiling
func (s *LimitsService) SetMaxQuestion(n int) error {
	return s.set(keyMaxQuestion, n, rangeMaxQuestion, func(l *Limits) { l.MaxQuestion = n })
}

// SetMaxAnswer retunes the answer length ceiling
func (s *LimitsService) SetMaxAnswer(n int) error {
	return s.set(keyMaxAnswer, n, rangeMaxAnswer, func(l *Limits) { l.MaxAnswer = n })
}

// SetPageSize retunes the listing page size
func (s *LimitsService) SetPageSize(n int) error {
	return s.set(keyPageSize, n, rangePageSize, func(l *Limits) { l.PageSize = n })
}

// Reset restores all limits to the config defaults and persists that
func (s *LimitsService) Reset() error {
	d := s.defaults
	values := map[string]int{
		keyRateCapacity: d.RateCapacity,
		keyRateCooldown: int(d.RateCooldown / time.Second),
		keyMaxQuestion:  d.MaxQuestion,
		keyMaxAnswer:    d.MaxAnswer,
		keyPageSize:     d.PageSize,
	}
	for key, value := range values {
		if err := s.repo.Set(key, strconv.Itoa(value)); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.current = d
	s.mu.Unlock()

	s.apply(d)
	s.logger.Info("Limits reset to defaults")
	return nil
}

func (s *LimitsService) set(key string, value int, allowed [2]int, update func(*Limits)) error {
	if value < allowed[0] || value > allowed[1] {
		return &LimitRangeError{Min: allowed[0], Max: allowed[1]}
	}

	if err := s.repo.Set(key, strconv.Itoa(value)); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}

	s.mu.Lock()
	update(&s.current)
	limits := s.current
	s.mu.Unlock()

	s.apply(limits)
	s.logger.Info("Limit updated", zap.String("key", key), zap.Int("value", value))
	return nil
}

func (s *LimitsService) apply(l Limits) {
	s.validator.SetLimits(l.MaxQuestion, l.MaxAnswer)
	s.limiter.SetCapacity(l.RateCapacity)
	s.limiter.SetCooldown(l.RateCooldown)
	s.questions.SetPageSize(l.PageSize)
}
