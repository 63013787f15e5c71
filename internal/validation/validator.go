package validation

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"unicode/utf8"
)

// Kind selects which length ceiling and rules apply
type Kind int

const (
	KindQuestion Kind = iota
	KindAnswer
	KindSetting
)

// Reason classifies why a text was rejected
type Reason string

const (
	ReasonEmpty            Reason = "empty"
	ReasonTooLong          Reason = "too_long"
	ReasonLooksLikeCommand Reason = "looks_like_command"
)

// Error is a recoverable validation failure; Limit is set for ReasonTooLong
type Error struct {
	Reason Reason
	Limit  int
}

func (e *Error) Error() string {
	if e.Reason == ReasonTooLong {
		return fmt.Sprintf("validation failed: %s (limit %d)", e.Reason, e.Limit)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// Validator checks user text against length and content rules. The
// question and answer ceilings are tunable at runtime.
type Validator struct {
	mu          sync.RWMutex
	maxQuestion int
	maxAnswer   int
	maxSetting  int
}

// New creates a validator with per-kind length ceilings
func New(maxQuestion, maxAnswer, maxSetting int) *Validator {
	return &Validator{
		maxQuestion: maxQuestion,
		maxAnswer:   maxAnswer,
		maxSetting:  maxSetting,
	}
}

// Validate trims the text, applies the rules for kind and returns the
// HTML-escaped result. Escaping happens before any storage or rendering
// to prevent markup injection.
func (v *Validator) Validate(text string, kind Kind) (string, error) {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return "", &Error{Reason: ReasonEmpty}
	}

	limit := v.limitFor(kind)
	if utf8.RuneCountInString(trimmed) > limit {
		return "", &Error{Reason: ReasonTooLong, Limit: limit}
	}

	// A question starting with the command prefix is almost certainly a
	// mistyped bot command, not a real question
	if kind == KindQuestion && strings.HasPrefix(trimmed, "/") {
		return "", &Error{Reason: ReasonLooksLikeCommand}
	}

	return html.EscapeString(trimmed), nil
}

// SetLimits replaces the question and answer length ceilings
func (v *Validator) SetLimits(maxQuestion, maxAnswer int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.maxQuestion = maxQuestion
	v.maxAnswer = maxAnswer
}

func (v *Validator) limitFor(kind Kind) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	switch kind {
	case KindAnswer:
		return v.maxAnswer
	case KindSetting:
		return v.maxSetting
	default:
		return v.maxQuestion
	}
}
