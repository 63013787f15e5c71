package service

import (
	"sync"
	"time"

	"anonask/internal/domain"
	"anonask/internal/repository"
)

// QuestionService handles the question lifecycle and paginated listings.
// The page size is tunable at runtime.
type QuestionService struct {
	repo     repository.QuestionRepository
	mu       sync.RWMutex
	pageSize int
}

// NewQuestionService creates a new question service
func NewQuestionService(repo repository.QuestionRepository, pageSize int) *QuestionService {
	return &QuestionService{repo: repo, pageSize: pageSize}
}

// Submit stores a new pending question; the text must already be validated
func (s *QuestionService) Submit(authorID int64, text string) (*domain.Question, error) {
	return s.repo.Create(authorID, text)
}

// Get returns a question by id
func (s *QuestionService) Get(id int64) (*domain.Question, error) {
	return s.repo.GetByID(id)
}

// Answer records the admin's answer on a pending question
func (s *QuestionService) Answer(id int64, text string) (*domain.Question, error) {
	return s.repo.Answer(id, text, time.Now())
}

// ToggleFavorite flips the favorite flag of a non-deleted question
func (s *QuestionService) ToggleFavorite(id int64) (*domain.Question, error) {
	return s.repo.ToggleFavorite(id)
}

// Delete soft-deletes a question, keeping it for audit
func (s *QuestionService) Delete(id int64) (*domain.Question, error) {
	return s.repo.SoftDelete(id, time.Now())
}

// DeleteAll soft-deletes every remaining question and returns the count
func (s *QuestionService) DeleteAll() (int64, error) {
	return s.repo.SoftDeleteAll(time.Now())
}

// Stats returns aggregate counts
func (s *QuestionService) Stats() (*domain.Stats, error) {
	return s.repo.Stats()
}

// SetPageSize replaces the listing page size
func (s *QuestionService) SetPageSize(pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = pageSize
}

// Page projects the filtered listing into a fixed-size page. The page
// index is clamped to the valid range instead of erroring, so stale
// navigation buttons always land on a real page.
func (s *QuestionService) Page(filter domain.QuestionFilter, page int) (*domain.PageView, error) {
	s.mu.RLock()
	pageSize := s.pageSize
	s.mu.RUnlock()

	total, err := s.repo.Count(filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}

	items, err := s.repo.List(filter, pageSize, page*pageSize)
	if err != nil {
		return nil, err
	}

	return &domain.PageView{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 0,
		HasNext:    page < totalPages-1,
	}, nil
}
