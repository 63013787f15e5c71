package service

import (
	"fmt"
	"testing"

	"anonask/internal/domain"
	"anonask/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQuestionService_Answer(t *testing.T) {
	tests := []struct {
		name        string
		questionID  int64
		mockReturn  *domain.Question
		mockError   error
		expectedErr error
	}{
		{
			name:       "pending question answered",
			questionID: 1,
			mockReturn: testutil.NewAnsweredQuestion(1, 42, "вопрос", "ответ"),
		},
		{
			name:        "question missing",
			questionID:  2,
			mockError:   domain.ErrNotFound,
			expectedErr: domain.ErrNotFound,
		},
		{
			name:        "question already answered",
			questionID:  3,
			mockError:   domain.ErrAlreadyAnswered,
			expectedErr: domain.ErrAlreadyAnswered,
		},
		{
			name:        "question already deleted",
			questionID:  4,
			mockError:   domain.ErrAlreadyDeleted,
			expectedErr: domain.ErrAlreadyDeleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockQuestionRepository)
			mockRepo.On("Answer", tt.questionID, "ответ", mock.Anything).
				Return(tt.mockReturn, tt.mockError)

			service := NewQuestionService(mockRepo, 5)

			question, err := service.Answer(tt.questionID, "ответ")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, question)
			} else {
				assert.NoError(t, err)
				assert.True(t, question.IsAnswered())
				assert.Equal(t, "ответ", question.Answer)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQuestionService_Page_Clamping(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		total          int
		expectedPage   int
		expectedOffset int
		expectedTotal  int
		hasPrev        bool
		hasNext        bool
	}{
		{
			name:           "first page",
			page:           0,
			total:          12,
			expectedPage:   0,
			expectedOffset: 0,
			expectedTotal:  3,
			hasNext:        true,
		},
		{
			name:           "negative page clamps to first",
			page:           -3,
			total:          12,
			expectedPage:   0,
			expectedOffset: 0,
			expectedTotal:  3,
			hasNext:        true,
		},
		{
			name:           "page beyond range clamps to last",
			page:           99,
			total:          12,
			expectedPage:   2,
			expectedOffset: 10,
			expectedTotal:  3,
			hasPrev:        true,
		},
		{
			name:           "middle page has both neighbours",
			page:           1,
			total:          12,
			expectedPage:   1,
			expectedOffset: 5,
			expectedTotal:  3,
			hasPrev:        true,
			hasNext:        true,
		},
		{
			name:           "empty listing still has one page",
			page:           4,
			total:          0,
			expectedPage:   0,
			expectedOffset: 0,
			expectedTotal:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockQuestionRepository)
			mockRepo.On("Count", domain.FilterPending).Return(tt.total, nil)
			mockRepo.On("List", domain.FilterPending, 5, tt.expectedOffset).
				Return([]domain.Question{}, nil)

			service := NewQuestionService(mockRepo, 5)

			view, err := service.Page(domain.FilterPending, tt.page)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPage, view.Page)
			assert.Equal(t, tt.expectedTotal, view.TotalPages)
			assert.Equal(t, tt.hasPrev, view.HasPrev)
			assert.Equal(t, tt.hasNext, view.HasNext)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQuestionService_Page_CountError(t *testing.T) {
	mockRepo := new(testutil.MockQuestionRepository)
	mockRepo.On("Count", domain.FilterFavorite).Return(0, fmt.Errorf("db error"))

	service := NewQuestionService(mockRepo, 5)

	view, err := service.Page(domain.FilterFavorite, 0)

	assert.Error(t, err)
	assert.Nil(t, view)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuestionService_ToggleFavorite_Idempotence(t *testing.T) {
	first := testutil.NewTestQuestion(1, 42, "вопрос")
	first.IsFavorite = true
	second := testutil.NewTestQuestion(1, 42, "вопрос")

	mockRepo := new(testutil.MockQuestionRepository)
	mockRepo.On("ToggleFavorite", int64(1)).Return(first, nil).Once()
	mockRepo.On("ToggleFavorite", int64(1)).Return(second, nil).Once()

	service := NewQuestionService(mockRepo, 5)

	q1, err := service.ToggleFavorite(1)
	assert.NoError(t, err)
	assert.True(t, q1.IsFavorite)

	q2, err := service.ToggleFavorite(1)
	assert.NoError(t, err)
	assert.False(t, q2.IsFavorite)

	mockRepo.AssertExpectations(t)
}

func TestQuestionService_DeleteAll(t *testing.T) {
	mockRepo := new(testutil.MockQuestionRepository)
	mockRepo.On("SoftDeleteAll", mock.Anything).Return(int64(9), nil)

	service := NewQuestionService(mockRepo, 5)

	deleted, err := service.DeleteAll()

	assert.NoError(t, err)
	assert.Equal(t, int64(9), deleted)
	mockRepo.AssertExpectations(t)
}

func TestQuestionService_Stats(t *testing.T) {
	mockRepo := new(testutil.MockQuestionRepository)
	mockRepo.On("Stats").Return(&domain.Stats{Total: 10, Answered: 4, Pending: 6, Favorite: 2}, nil)

	service := NewQuestionService(mockRepo, 5)

	stats, err := service.Stats()

	assert.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 4, stats.Answered)
	assert.Equal(t, 6, stats.Pending)
	assert.Equal(t, 2, stats.Favorite)
}
