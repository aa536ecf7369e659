package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"lugat/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCatalogRepo_AddWord(t *testing.T) {
	addedAt := time.Date(2024, 12, 12, 10, 0, 0, 0, time.UTC)
	entry := domain.WordEntry{Word: "Apple", Translation: "olma", Example: "I eat an apple", AddedAt: addedAt}

	tests := []struct {
		name            string
		result          driver.Result
		mockError       error
		expectedCreated bool
		expectedError   bool
	}{
		{
			name:            "new word",
			result:          sqlmock.NewResult(1, 1),
			expectedCreated: true,
		},
		{
			name:            "duplicate word",
			result:          sqlmock.NewResult(0, 0),
			expectedCreated: false,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewCatalogRepo(db)

			exp := mock.ExpectExec("INSERT INTO catalog_words").
				WithArgs("apple", "Apple", "olma", "I eat an apple", addedAt)
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnResult(tt.result)
			}

			created, err := repo.AddWord(context.Background(), entry)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCreated, created)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCatalogRepo_ListWords(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"word", "translation", "example", "added_at"}).
		AddRow("apple", "olma", "", now).
		AddRow("book", "kitob", "a good book", now)

	mock.ExpectQuery("SELECT word, translation, COALESCE\\(example, ''\\), added_at FROM catalog_words ORDER BY id").
		WillReturnRows(rows)

	words, err := repo.ListWords(context.Background())

	assert.NoError(t, err)
	assert.Len(t, words, 2)
	assert.Equal(t, "apple", words[0].Word)
	assert.Equal(t, "kitob", words[1].Translation)
	assert.Equal(t, "a good book", words[1].Example)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_ListWords_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	mock.ExpectQuery("SELECT word").WillReturnError(fmt.Errorf("query error"))

	words, err := repo.ListWords(context.Background())

	assert.Error(t, err)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_ListWords_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	rows := sqlmock.NewRows([]string{"word", "translation", "example", "added_at"}).
		AddRow("apple", "olma", "", "invalid")

	mock.ExpectQuery("SELECT word").WillReturnRows(rows)

	words, err := repo.ListWords(context.Background())

	assert.Error(t, err)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}
