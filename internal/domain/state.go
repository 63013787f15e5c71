package domain

import "time"

// Mode is what kind of input is expected next from an identity
type Mode string

const (
	ModeIdle             Mode = "idle"
	ModeAwaitingQuestion Mode = "awaiting_question"
	ModeAwaitingAnswer   Mode = "awaiting_answer"
	ModeAwaitingSetting  Mode = "awaiting_setting"
)

// UserState is the single persisted conversation state of one identity.
// QuestionID is set only in ModeAwaitingAnswer, SettingKey only in ModeAwaitingSetting.
type UserState struct {
	UserID     int64
	Mode       Mode
	QuestionID int64
	SettingKey string
	UpdatedAt  time.Time
}

// IdleState returns the default state for an identity
func IdleState(userID int64) *UserState {
	return &UserState{UserID: userID, Mode: ModeIdle}
}
