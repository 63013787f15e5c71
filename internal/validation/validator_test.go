package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	v := New(2500, 6000, 256)

	tests := []struct {
		name           string
		text           string
		kind           Kind
		expected       string
		expectedReason Reason
	}{
		{
			name:     "valid question",
			text:     "What is your favorite color?",
			kind:     KindQuestion,
			expected: "What is your favorite color?",
		},
		{
			name:     "question is trimmed",
			text:     "  вопрос  \n",
			kind:     KindQuestion,
			expected: "вопрос",
		},
		{
			name:     "html is escaped",
			text:     `<b>1 < 2 & 3</b>`,
			kind:     KindQuestion,
			expected: "&lt;b&gt;1 &lt; 2 &amp; 3&lt;/b&gt;",
		},
		{
			name:           "empty text",
			text:           "",
			kind:           KindQuestion,
			expectedReason: ReasonEmpty,
		},
		{
			name:           "whitespace only",
			text:           "   \n\t  ",
			kind:           KindQuestion,
			expectedReason: ReasonEmpty,
		},
		{
			name:     "question at length limit",
			text:     strings.Repeat("a", 2500),
			kind:     KindQuestion,
			expected: strings.Repeat("a", 2500),
		},
		{
			name:           "question one over limit",
			text:           strings.Repeat("a", 2501),
			kind:           KindQuestion,
			expectedReason: ReasonTooLong,
		},
		{
			name:           "question looks like command",
			text:           "/start",
			kind:           KindQuestion,
			expectedReason: ReasonLooksLikeCommand,
		},
		{
			name:     "answer may start with slash",
			text:     "/dev/null is a device",
			kind:     KindAnswer,
			expected: "/dev/null is a device",
		},
		{
			name:     "answer uses its own limit",
			text:     strings.Repeat("b", 3000),
			kind:     KindAnswer,
			expected: strings.Repeat("b", 3000),
		},
		{
			name:           "answer over its limit",
			text:           strings.Repeat("b", 6001),
			kind:           KindAnswer,
			expectedReason: ReasonTooLong,
		},
		{
			name:           "setting over its limit",
			text:           strings.Repeat("c", 257),
			kind:           KindSetting,
			expectedReason: ReasonTooLong,
		},
		{
			name:     "setting value",
			text:     "Автор канала",
			kind:     KindSetting,
			expected: "Автор канала",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, err := v.Validate(tt.text, tt.kind)

			if tt.expectedReason != "" {
				var vErr *Error
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.expectedReason, vErr.Reason)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, clean)
		})
	}
}

func TestValidator_TooLongCarriesLimit(t *testing.T) {
	v := New(10, 20, 30)

	_, err := v.Validate(strings.Repeat("x", 11), KindQuestion)

	var vErr *Error
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonTooLong, vErr.Reason)
	assert.Equal(t, 10, vErr.Limit)
}

func TestValidator_SetLimitsReplacesCeilings(t *testing.T) {
	v := New(10, 20, 30)

	v.SetLimits(5, 8)

	_, err := v.Validate("123456", KindQuestion)
	var vErr *Error
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, 5, vErr.Limit)

	_, err = v.Validate("123456789", KindAnswer)
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, 8, vErr.Limit)

	// The setting ceiling is not tunable
	clean, err := v.Validate(strings.Repeat("x", 30), KindSetting)
	assert.NoError(t, err)
	assert.Len(t, clean, 30)
}

func TestValidator_LengthCountsRunes(t *testing.T) {
	v := New(5, 5, 5)

	// 5 cyrillic runes, 10 bytes
	clean, err := v.Validate("опрос", KindQuestion)

	assert.NoError(t, err)
	assert.Equal(t, "опрос", clean)
}
