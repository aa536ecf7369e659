package repository

import (
	"context"

	"lugat/internal/domain"
)

// CatalogRepository defines operations on the shared word list
type CatalogRepository interface {
	// AddWord inserts the entry unless the word already exists (case-insensitive).
	// Returns false for a duplicate.
	AddWord(ctx context.Context, entry domain.WordEntry) (bool, error)
	ListWords(ctx context.Context) ([]domain.WordEntry, error)
}

// VocabularyRepository persists per-user vocabularies.
// Save replaces the stored records of a user; last writer wins.
type VocabularyRepository interface {
	// Load returns false when the user has no stored vocabulary yet
	Load(ctx context.Context, userID int64) ([]domain.UserWordRecord, bool, error)
	Save(ctx context.Context, userID int64, records []domain.UserWordRecord) error
	ListUserIDs(ctx context.Context) ([]int64, error)
}
