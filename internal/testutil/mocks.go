package testutil

import (
	"time"

	"anonask/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository is a mock for QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(authorID int64, text string) (*domain.Question, error) {
	args := m.Called(authorID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(id int64) (*domain.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Answer(id int64, answer string, at time.Time) (*domain.Question, error) {
	args := m.Called(id, answer, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) ToggleFavorite(id int64) (*domain.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) SoftDelete(id int64, at time.Time) (*domain.Question, error) {
	args := m.Called(id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) SoftDeleteAll(at time.Time) (int64, error) {
	args := m.Called(at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) List(filter domain.QuestionFilter, limit, offset int) ([]domain.Question, error) {
	args := m.Called(filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Count(filter domain.QuestionFilter) (int, error) {
	args := m.Called(filter)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) Stats() (*domain.Stats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// MockStateRepository is a mock for StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Get(userID int64) (*domain.UserState, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserState), args.Error(1)
}

func (m *MockStateRepository) Set(state *domain.UserState) error {
	args := m.Called(state)
	return args.Error(0)
}

func (m *MockStateRepository) ResetStale(idleSince time.Time, now time.Time) (int64, error) {
	args := m.Called(idleSince, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingsRepository is a mock for SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// MockRateWindowRepository is a mock for RateWindowRepository
type MockRateWindowRepository struct {
	mock.Mock
}

func (m *MockRateWindowRepository) TryAdmit(userID int64, now, windowStart, cooldownStart time.Time, capacity int) (bool, error) {
	args := m.Called(userID, now, windowStart, cooldownStart, capacity)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateWindowRepository) WindowState(userID int64, windowStart time.Time) (int, time.Time, time.Time, error) {
	args := m.Called(userID, windowStart)
	return args.Int(0), args.Get(1).(time.Time), args.Get(2).(time.Time), args.Error(3)
}

func (m *MockRateWindowRepository) PruneBefore(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}
