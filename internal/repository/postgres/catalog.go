package postgres

import (
	"context"
	"database/sql"

	"lugat/internal/domain"
)

// CatalogRepo implements repository.CatalogRepository
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo creates a new catalog repository
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// AddWord inserts a catalog word.
// The unique word_key index makes concurrent adds of the same word safe:
// only one of them affects a row.
func (r *CatalogRepo) AddWord(ctx context.Context, entry domain.WordEntry) (bool, error) {
	query := `
		INSERT INTO catalog_words (word_key, word, translation, example, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (word_key) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, entry.Key(), entry.Word, entry.Translation, entry.Example, entry.AddedAt)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ListWords returns all catalog words in insertion order
func (r *CatalogRepo) ListWords(ctx context.Context) ([]domain.WordEntry, error) {
	query := `
		SELECT word, translation, COALESCE(example, ''), added_at
		FROM catalog_words
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.WordEntry
	for rows.Next() {
		var w domain.WordEntry
		if err := rows.Scan(&w.Word, &w.Translation, &w.Example, &w.AddedAt); err != nil {
			return nil, err
		}
		words = append(words, w)
	}

	return words, rows.Err()
}
