package service

import (
	"time"

	"anonask/internal/repository"

	"go.uber.org/zap"
)

// staleFlowAge is how long a non-idle flow may sit before it is forced
// back to idle by the cleanup job
const staleFlowAge = 24 * time.Hour

// CleanupService prunes rate-limit events that left the window and resets
// conversation flows abandoned mid-way
type CleanupService struct {
	rates  repository.RateWindowRepository
	states repository.StateRepository
	window time.Duration
	logger *zap.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(rates repository.RateWindowRepository, states repository.StateRepository, window time.Duration, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		rates:  rates,
		states: states,
		window: window,
		logger: logger,
	}
}

// Run performs one cleanup pass
func (s *CleanupService) Run() error {
	now := time.Now()

	pruned, err := s.rates.PruneBefore(now.Add(-s.window))
	if err != nil {
		s.logger.Error("Failed to prune rate events", zap.Error(err))
		return err
	}

	reset, err := s.states.ResetStale(now.Add(-staleFlowAge), now)
	if err != nil {
		s.logger.Error("Failed to reset stale states", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed",
		zap.Int64("rate_events_pruned", pruned),
		zap.Int64("states_reset", reset),
	)
	return nil
}
