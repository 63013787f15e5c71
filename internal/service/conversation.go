package service

import (
	"fmt"

	"anonask/internal/domain"
	"anonask/internal/repository"
	"anonask/internal/validation"

	"go.uber.org/zap"
)

// Conversation is the per-identity state machine. Every inbound text is
// interpreted strictly according to the sender's persisted mode, and all
// state and question mutations go through this single entry point.
type Conversation struct {
	states    repository.StateRepository
	questions *QuestionService
	settings  *SettingsService
	limiter   *RateLimiter
	validator *validation.Validator
	logger    *zap.Logger
}

// NewConversation creates the conversation state machine
func NewConversation(
	states repository.StateRepository,
	questions *QuestionService,
	settings *SettingsService,
	limiter *RateLimiter,
	validator *validation.Validator,
	logger *zap.Logger,
) *Conversation {
	return &Conversation{
		states:    states,
		questions: questions,
		settings:  settings,
		limiter:   limiter,
		validator: validator,
		logger:    logger,
	}
}

// State returns the sender's current state, idle by default
func (c *Conversation) State(userID int64) (*domain.UserState, error) {
	return c.states.Get(userID)
}

// Cancel unconditionally forces the identity back to idle. This is the
// escape hatch and must succeed from any mode.
func (c *Conversation) Cancel(userID int64) error {
	return c.states.Set(domain.IdleState(userID))
}

// AwaitQuestion switches an identity into the question-composing mode.
// Used by the "ask another question" affordance; submission works from
// idle as well, so this only refreshes the prompt state.
func (c *Conversation) AwaitQuestion(userID int64) error {
	return c.states.Set(&domain.UserState{UserID: userID, Mode: domain.ModeAwaitingQuestion})
}

// SubmitQuestion asks the rate limiter for admission, validates the text
// and stores the question. The limiter runs first, so a submission that
// later fails validation still consumes a rate slot. The returned error is
// a *RateLimitError or a *validation.Error for recoverable rejections; in
// both cases no question is created and the sender's state is unchanged.
func (c *Conversation) SubmitQuestion(userID int64, text string) (*domain.Question, error) {
	if err := c.limiter.Admit(userID); err != nil {
		return nil, err
	}

	clean, err := c.validator.Validate(text, validation.KindQuestion)
	if err != nil {
		return nil, err
	}

	question, err := c.questions.Submit(userID, clean)
	if err != nil {
		return nil, fmt.Errorf("submit question: %w", err)
	}

	// The sender stays idle between questions
	if err := c.states.Set(domain.IdleState(userID)); err != nil {
		c.logger.Warn("Failed to reset state after submission",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return question, nil
}

// BeginAnswer moves the admin into the answer-composing flow for the
// question. A question that is already answered or deleted fails with the
// corresponding lifecycle error and leaves the admin state unchanged.
// Starting a new flow overwrites whatever flow was pending before.
func (c *Conversation) BeginAnswer(adminID, questionID int64) (*domain.Question, error) {
	question, err := c.questions.Get(questionID)
	if err != nil {
		return nil, err
	}

	switch question.Status {
	case domain.StatusDeleted:
		return nil, domain.ErrAlreadyDeleted
	case domain.StatusAnswered:
		return nil, domain.ErrAlreadyAnswered
	}

	err = c.states.Set(&domain.UserState{
		UserID:     adminID,
		Mode:       domain.ModeAwaitingAnswer,
		QuestionID: questionID,
	})
	if err != nil {
		return nil, fmt.Errorf("enter answer flow: %w", err)
	}

	return question, nil
}

// CompleteAnswer consumes the admin's text while in the answer flow. On a
// validation error the flow stays open so the admin can retry; on a
// lifecycle error the flow is closed and the error reported; on success
// the answered question is returned for author notification and the admin
// goes back to idle.
func (c *Conversation) CompleteAnswer(adminID int64, text string) (*domain.Question, error) {
	state, err := c.states.Get(adminID)
	if err != nil {
		return nil, fmt.Errorf("load admin state: %w", err)
	}
	if state.Mode != domain.ModeAwaitingAnswer {
		return nil, domain.ErrNoActiveFlow
	}

	clean, err := c.validator.Validate(text, validation.KindAnswer)
	if err != nil {
		return nil, err
	}

	question, err := c.questions.Answer(state.QuestionID, clean)
	switch err {
	case nil:
	case domain.ErrNotFound, domain.ErrAlreadyAnswered, domain.ErrAlreadyDeleted:
		c.resetToIdle(adminID)
		return nil, err
	default:
		// Storage failure: the flow stays open so a retry is safe
		return nil, fmt.Errorf("answer question %d: %w", state.QuestionID, err)
	}

	c.resetToIdle(adminID)
	return question, nil
}

// BeginSetting moves the admin into the setting-value flow for the key
func (c *Conversation) BeginSetting(adminID int64, key string) error {
	switch key {
	case domain.SettingAuthorName, domain.SettingAuthorInfo:
	default:
		return domain.ErrUnknownSetting
	}

	return c.states.Set(&domain.UserState{
		UserID:     adminID,
		Mode:       domain.ModeAwaitingSetting,
		SettingKey: key,
	})
}

// CompleteSetting consumes the admin's text while in the setting flow and
// returns the key that was updated. A validation error keeps the flow open.
func (c *Conversation) CompleteSetting(adminID int64, text string) (string, error) {
	state, err := c.states.Get(adminID)
	if err != nil {
		return "", fmt.Errorf("load admin state: %w", err)
	}
	if state.Mode != domain.ModeAwaitingSetting {
		return "", domain.ErrNoActiveFlow
	}

	clean, err := c.validator.Validate(text, validation.KindSetting)
	if err != nil {
		return "", err
	}

	if err := c.settings.Set(state.SettingKey, clean); err != nil {
		return "", fmt.Errorf("set %s: %w", state.SettingKey, err)
	}

	c.resetToIdle(adminID)
	return state.SettingKey, nil
}

// SetSetting validates and stores a setting value directly, bypassing the
// flow. Used when the value arrives as a command argument.
func (c *Conversation) SetSetting(adminID int64, key, text string) error {
	clean, err := c.validator.Validate(text, validation.KindSetting)
	if err != nil {
		return err
	}
	return c.settings.Set(key, clean)
}

func (c *Conversation) resetToIdle(userID int64) {
	if err := c.states.Set(domain.IdleState(userID)); err != nil {
		c.logger.Warn("Failed to reset state to idle",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
