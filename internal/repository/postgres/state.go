package postgres

import (
	"database/sql"
	"time"

	"anonask/internal/domain"
)

// StateRepo implements repository.StateRepository
type StateRepo struct {
	db *sql.DB
}

// NewStateRepo creates a new conversation state repository
func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

// Get returns the stored state for the identity, or the idle default
// when the identity has never been seen
func (r *StateRepo) Get(userID int64) (*domain.UserState, error) {
	var s domain.UserState
	query := `SELECT user_id, mode, question_id, setting_key, updated_at FROM user_states WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&s.UserID, &s.Mode, &s.QuestionID, &s.SettingKey, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return domain.IdleState(userID), nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Set upserts the state row, one per identity
func (r *StateRepo) Set(state *domain.UserState) error {
	query := `
		INSERT INTO user_states (user_id, mode, question_id, setting_key, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			mode = EXCLUDED.mode,
			question_id = EXCLUDED.question_id,
			setting_key = EXCLUDED.setting_key,
			updated_at = NOW()
	`
	_, err := r.db.Exec(query, state.UserID, state.Mode, state.QuestionID, state.SettingKey)
	return err
}

// ResetStale forces identities stuck in a non-idle flow back to idle.
// Returns the number of states reset.
func (r *StateRepo) ResetStale(idleSince time.Time, now time.Time) (int64, error) {
	query := `
		UPDATE user_states
		SET mode = 'idle', question_id = 0, setting_key = '', updated_at = $2
		WHERE mode <> 'idle' AND updated_at < $1
	`
	res, err := r.db.Exec(query, idleSince, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
