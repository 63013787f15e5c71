package domain

import (
	"time"
	"unicode/utf8"
)

// QuestionStatus is the lifecycle state of a question
type QuestionStatus string

const (
	StatusPending  QuestionStatus = "pending"
	StatusAnswered QuestionStatus = "answered"
	StatusDeleted  QuestionStatus = "deleted"
)

// Question represents an anonymous question and its lifecycle.
// AuthorID is kept only for reply routing and is never shown to the admin.
type Question struct {
	ID         int64
	AuthorID   int64
	Text       string
	Answer     string
	Status     QuestionStatus
	IsFavorite bool
	CreatedAt  time.Time
	AnsweredAt *time.Time
	DeletedAt  *time.Time
}

// IsAnswered reports whether the question has an answer
func (q *Question) IsAnswered() bool {
	return q.Status == StatusAnswered
}

// Preview returns the question text shortened to maxRunes for list views
func (q *Question) Preview(maxRunes int) string {
	return TruncateEscaped(q.Text, maxRunes)
}

// TruncateEscaped shortens HTML-escaped text to at most maxRunes runes.
// A cut that would land inside an entity like &amp; backs off to before
// the ampersand, so the result stays valid for HTML parse mode.
func TruncateEscaped(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)[:maxRunes]

	// Escaped text has no bare ampersands, so an & without a closing ;
	// near the cut is always a split entity
	for i := len(runes) - 1; i >= 0 && i >= len(runes)-6; i-- {
		if runes[i] == ';' {
			break
		}
		if runes[i] == '&' {
			runes = runes[:i]
			break
		}
	}

	return string(runes) + "…"
}

// QuestionFilter selects which questions a listing returns
type QuestionFilter string

const (
	FilterPending  QuestionFilter = "pending"
	FilterFavorite QuestionFilter = "favorite"
	FilterAnswered QuestionFilter = "answered"
)

// Stats holds aggregate question counts, deleted questions excluded from Total
type Stats struct {
	Total    int
	Answered int
	Pending  int
	Favorite int
}

// PageView is one rendered page of a filtered listing
type PageView struct {
	Items      []Question
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}
