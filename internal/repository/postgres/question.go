package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"anonask/internal/domain"
)

// QuestionRepo implements repository.QuestionRepository
type QuestionRepo struct {
	db *sql.DB
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

const questionColumns = `id, author_id, text, COALESCE(answer, ''), status, is_favorite, created_at, answered_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var q domain.Question
	var answeredAt, deletedAt sql.NullTime

	err := row.Scan(
		&q.ID, &q.AuthorID, &q.Text, &q.Answer, &q.Status,
		&q.IsFavorite, &q.CreatedAt, &answeredAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if answeredAt.Valid {
		q.AnsweredAt = &answeredAt.Time
	}
	if deletedAt.Valid {
		q.DeletedAt = &deletedAt.Time
	}

	return &q, nil
}

// Create stores a new pending question
func (r *QuestionRepo) Create(authorID int64, text string) (*domain.Question, error) {
	query := `
		INSERT INTO questions (author_id, text, status)
		VALUES ($1, $2, 'pending')
		RETURNING ` + questionColumns

	return scanQuestion(r.db.QueryRow(query, authorID, text))
}

// GetByID returns a question regardless of status
func (r *QuestionRepo) GetByID(id int64) (*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	q, err := scanQuestion(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return q, err
}

// Answer records the answer in a single conditional update. A question
// that was concurrently answered or deleted makes the update match zero
// rows, and the current status decides the error.
func (r *QuestionRepo) Answer(id int64, answer string, at time.Time) (*domain.Question, error) {
	query := `
		UPDATE questions
		SET answer = $2, status = 'answered', answered_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + questionColumns

	q, err := scanQuestion(r.db.QueryRow(query, id, answer, at))
	if err == sql.ErrNoRows {
		return nil, r.transitionError(id, domain.ErrNotFound)
	}
	return q, err
}

// ToggleFavorite flips the favorite flag, allowed in any non-deleted status
func (r *QuestionRepo) ToggleFavorite(id int64) (*domain.Question, error) {
	query := `
		UPDATE questions
		SET is_favorite = NOT is_favorite
		WHERE id = $1 AND status <> 'deleted'
		RETURNING ` + questionColumns

	q, err := scanQuestion(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, r.transitionError(id, domain.ErrNotFound)
	}
	return q, err
}

// SoftDelete marks the question deleted, keeping the row for audit
func (r *QuestionRepo) SoftDelete(id int64, at time.Time) (*domain.Question, error) {
	query := `
		UPDATE questions
		SET status = 'deleted', deleted_at = $2
		WHERE id = $1 AND status <> 'deleted'
		RETURNING ` + questionColumns

	q, err := scanQuestion(r.db.QueryRow(query, id, at))
	if err == sql.ErrNoRows {
		return nil, r.transitionError(id, domain.ErrNotFound)
	}
	return q, err
}

// SoftDeleteAll marks every non-deleted question deleted and returns the
// count. Used by the admin clear-all flow.
func (r *QuestionRepo) SoftDeleteAll(at time.Time) (int64, error) {
	query := `
		UPDATE questions
		SET status = 'deleted', deleted_at = $1
		WHERE status <> 'deleted'
	`
	res, err := r.db.Exec(query, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// transitionError maps the current status of a question whose conditional
// update matched nothing to the lifecycle error the caller should report
func (r *QuestionRepo) transitionError(id int64, missing error) error {
	var status domain.QuestionStatus
	err := r.db.QueryRow(`SELECT status FROM questions WHERE id = $1`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return missing
	}
	if err != nil {
		return err
	}

	switch status {
	case domain.StatusDeleted:
		return domain.ErrAlreadyDeleted
	case domain.StatusAnswered:
		return domain.ErrAlreadyAnswered
	default:
		return missing
	}
}

func filterCondition(filter domain.QuestionFilter) (string, error) {
	switch filter {
	case domain.FilterPending:
		return `status = 'pending'`, nil
	case domain.FilterAnswered:
		return `status = 'answered'`, nil
	case domain.FilterFavorite:
		return `is_favorite AND status <> 'deleted'`, nil
	default:
		return "", fmt.Errorf("unknown filter: %s", filter)
	}
}

// List returns a page of questions for the filter, newest first
func (r *QuestionRepo) List(filter domain.QuestionFilter, limit, offset int) ([]domain.Question, error) {
	cond, err := filterCondition(filter)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + questionColumns + `
		FROM questions
		WHERE ` + cond + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	return questions, rows.Err()
}

// Count returns the total number of questions matching the filter
func (r *QuestionRepo) Count(filter domain.QuestionFilter) (int, error) {
	cond, err := filterCondition(filter)
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM questions WHERE ` + cond).Scan(&count)
	return count, err
}

// Stats returns aggregate counts, deleted questions excluded from the total
func (r *QuestionRepo) Stats() (*domain.Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status <> 'deleted'),
			COUNT(*) FILTER (WHERE status = 'answered'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE is_favorite AND status <> 'deleted')
		FROM questions
	`

	var s domain.Stats
	err := r.db.QueryRow(query).Scan(&s.Total, &s.Answered, &s.Pending, &s.Favorite)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
