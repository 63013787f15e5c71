package postgres

import (
	"database/sql"
	"time"
)

// RateWindowRepo implements repository.RateWindowRepository over the
// rate_events table
type RateWindowRepo struct {
	db *sql.DB
}

// NewRateWindowRepo creates a new rate window repository
func NewRateWindowRepo(db *sql.DB) *RateWindowRepo {
	return &RateWindowRepo{db: db}
}

// TryAdmit records the submission iff both tiers pass: no event newer than
// cooldownStart and fewer than capacity events newer than windowStart.
// The check and the record are one INSERT, so two concurrent submissions
// from the same identity cannot both pass.
func (r *RateWindowRepo) TryAdmit(userID int64, now, windowStart, cooldownStart time.Time, capacity int) (bool, error) {
	query := `
		INSERT INTO rate_events (user_id, created_at)
		SELECT $1, $2
		WHERE (SELECT COUNT(*) FROM rate_events WHERE user_id = $1 AND created_at > $3) < $5
			AND NOT EXISTS (SELECT 1 FROM rate_events WHERE user_id = $1 AND created_at > $4)
	`
	res, err := r.db.Exec(query, userID, now, windowStart, cooldownStart, capacity)
	if err != nil {
		return false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return inserted > 0, nil
}

// WindowState returns the event count and the oldest and newest event
// times inside the window. Zero times when the window is empty.
func (r *RateWindowRepo) WindowState(userID int64, windowStart time.Time) (int, time.Time, time.Time, error) {
	var count int
	var oldest, newest sql.NullTime

	query := `
		SELECT COUNT(*), MIN(created_at), MAX(created_at)
		FROM rate_events
		WHERE user_id = $1 AND created_at > $2
	`
	err := r.db.QueryRow(query, userID, windowStart).Scan(&count, &oldest, &newest)
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}

	return count, oldest.Time, newest.Time, nil
}

// PruneBefore removes events that can no longer affect any decision
func (r *RateWindowRepo) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM rate_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
