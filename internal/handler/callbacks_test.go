package handler

import (
	"testing"

	"anonask/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "ans_12",
			expected: "ans_12",
		},
		{
			name:     "string with whitespace",
			input:    "  ans_12  ",
			expected: "ans_12",
		},
		{
			name:     "telebot unique prefix byte",
			input:    "\fadm_pending",
			expected: "adm_pending",
		},
		{
			name:     "string with unprintable characters",
			input:    "del\x00_7\x01",
			expected: "del_7",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseQuestionID(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		prefix      string
		expected    int64
		expectError bool
	}{
		{
			name:     "answer button",
			data:     "ans_12",
			prefix:   "ans_",
			expected: 12,
		},
		{
			name:     "delete button",
			data:     "del_7",
			prefix:   "del_",
			expected: 7,
		},
		{
			name:        "garbage id",
			data:        "ans_twelve",
			prefix:      "ans_",
			expectError: true,
		},
		{
			name:        "missing id",
			data:        "ans_",
			prefix:      "ans_",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := parseQuestionID(tt.data, tt.prefix)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, id)
			}
		})
	}
}

func TestParsePageData(t *testing.T) {
	tests := []struct {
		name           string
		data           string
		expectedFilter domain.QuestionFilter
		expectedPage   int
		expectError    bool
	}{
		{
			name:           "pending page",
			data:           "pg_pending_2",
			expectedFilter: domain.FilterPending,
			expectedPage:   2,
		},
		{
			name:           "favorite page",
			data:           "pg_favorite_0",
			expectedFilter: domain.FilterFavorite,
			expectedPage:   0,
		},
		{
			name:           "answered page",
			data:           "pg_answered_14",
			expectedFilter: domain.FilterAnswered,
			expectedPage:   14,
		},
		{
			name:        "unknown filter",
			data:        "pg_deleted_1",
			expectError: true,
		},
		{
			name:        "garbage page",
			data:        "pg_pending_x",
			expectError: true,
		},
		{
			name:        "malformed data",
			data:        "pg_pending",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, page, err := parsePageData(tt.data)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedFilter, filter)
			assert.Equal(t, tt.expectedPage, page)
		})
	}
}

func TestFormatListEntry(t *testing.T) {
	q := &domain.Question{
		ID:     3,
		Text:   "Какой ваш любимый цвет?",
		Status: domain.StatusPending,
	}

	entry := formatListEntry(q)

	assert.Contains(t, entry, "#3")
	assert.Contains(t, entry, "Какой ваш любимый цвет?")
	assert.NotContains(t, entry, "↳")

	q.Status = domain.StatusAnswered
	q.Answer = "Синий."

	entry = formatListEntry(q)

	assert.Contains(t, entry, "↳")
	assert.Contains(t, entry, "Синий.")
}
