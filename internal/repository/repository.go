package repository

import (
	"time"

	"anonask/internal/domain"
)

// QuestionRepository defines question lifecycle operations. Every status
// transition must be a single conditional statement against the persisted
// status so that concurrent mutations cannot both succeed.
type QuestionRepository interface {
	Create(authorID int64, text string) (*domain.Question, error)
	GetByID(id int64) (*domain.Question, error)
	Answer(id int64, answer string, at time.Time) (*domain.Question, error)
	ToggleFavorite(id int64) (*domain.Question, error)
	SoftDelete(id int64, at time.Time) (*domain.Question, error)
	SoftDeleteAll(at time.Time) (int64, error)
	List(filter domain.QuestionFilter, limit, offset int) ([]domain.Question, error)
	Count(filter domain.QuestionFilter) (int, error)
	Stats() (*domain.Stats, error)
}

// StateRepository defines conversation state operations, one row per identity
type StateRepository interface {
	Get(userID int64) (*domain.UserState, error)
	Set(state *domain.UserState) error
	ResetStale(idleSince time.Time, now time.Time) (int64, error)
}

// SettingsRepository defines key/value settings operations
type SettingsRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// RateWindowRepository defines the durable sliding-window operations.
// TryAdmit must record the event and check both the cooldown and the
// capacity in one atomic statement.
type RateWindowRepository interface {
	TryAdmit(userID int64, now, windowStart, cooldownStart time.Time, capacity int) (bool, error)
	WindowState(userID int64, windowStart time.Time) (count int, oldest, newest time.Time, err error)
	PruneBefore(cutoff time.Time) (int64, error)
}
