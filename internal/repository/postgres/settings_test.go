package postgres

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSettingsRepo_Get(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		stored   bool
		value    string
		expected string
	}{
		{
			name:     "stored value",
			key:      "author_name",
			stored:   true,
			value:    "Мария",
			expected: "Мария",
		},
		{
			name:     "unset key returns empty",
			key:      "author_info",
			stored:   false,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewSettingsRepo(db)

			rows := sqlmock.NewRows([]string{"value"})
			if tt.stored {
				rows.AddRow(tt.value)
			}
			mock.ExpectQuery("SELECT value FROM settings").
				WithArgs(tt.key).
				WillReturnRows(rows)

			value, err := repo.Get(tt.key)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, value)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSettingsRepo_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepo(db)

	mock.ExpectExec("INSERT INTO settings").
		WithArgs("author_name", "Мария").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Set("author_name", "Мария")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
