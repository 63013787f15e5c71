package testutil

import (
	"time"

	"anonask/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestQuestion creates a pending test question
func NewTestQuestion(id, authorID int64, text string) *domain.Question {
	return &domain.Question{
		ID:        id,
		AuthorID:  authorID,
		Text:      text,
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
	}
}

// NewAnsweredQuestion creates an answered test question
func NewAnsweredQuestion(id, authorID int64, text, answer string) *domain.Question {
	answeredAt := time.Now()
	return &domain.Question{
		ID:         id,
		AuthorID:   authorID,
		Text:       text,
		Answer:     answer,
		Status:     domain.StatusAnswered,
		CreatedAt:  answeredAt.Add(-time.Hour),
		AnsweredAt: &answeredAt,
	}
}
