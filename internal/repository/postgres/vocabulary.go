package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lugat/internal/domain"

	"github.com/lib/pq"
)

// VocabularyRepo implements repository.VocabularyRepository
type VocabularyRepo struct {
	db *sql.DB
}

// NewVocabularyRepo creates a new vocabulary repository
func NewVocabularyRepo(db *sql.DB) *VocabularyRepo {
	return &VocabularyRepo{db: db}
}

// Load returns the stored records of a user.
// Missing optional columns are filled with defaults here and nowhere else.
func (r *VocabularyRepo) Load(ctx context.Context, userID int64) ([]domain.UserWordRecord, bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM vocabularies WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	query := `
		SELECT word, COALESCE(translation, ''), COALESCE(example, ''), added_at,
			COALESCE(learned, FALSE), COALESCE(deleted, FALSE),
			COALESCE(seen_count, 0), COALESCE(correct_count, 0), last_seen_at
		FROM user_words
		WHERE user_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	records := []domain.UserWordRecord{}
	for rows.Next() {
		var rec domain.UserWordRecord
		var lastSeen sql.NullTime
		if err := rows.Scan(
			&rec.Word, &rec.Translation, &rec.Example, &rec.AddedAt,
			&rec.Learned, &rec.Deleted, &rec.SeenCount, &rec.CorrectCount, &lastSeen,
		); err != nil {
			return nil, false, err
		}
		if lastSeen.Valid {
			rec.LastSeenAt = &lastSeen.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	return records, true, nil
}

// Save replaces the stored records of a user in one transaction
func (r *VocabularyRepo) Save(ctx context.Context, userID int64, records []domain.UserWordRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO vocabularies (user_id, updated_at)
		VALUES ($1, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET updated_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, upsert, userID); err != nil {
		return fmt.Errorf("upsert vocabulary: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_words WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user words: %w", err)
	}

	if len(records) > 0 {
		if err := copyUserWords(ctx, tx, userID, records); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// copyUserWords streams the rows with COPY instead of one INSERT per word
func copyUserWords(ctx context.Context, tx *sql.Tx, userID int64, records []domain.UserWordRecord) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("user_words",
		"user_id", "position", "word_key", "word", "translation", "example", "added_at",
		"learned", "deleted", "seen_count", "correct_count", "last_seen_at",
	))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			userID, i, rec.Key(), rec.Word, rec.Translation, rec.Example, rec.AddedAt,
			rec.Learned, rec.Deleted, rec.SeenCount, rec.CorrectCount, nullTime(rec.LastSeenAt),
		); err != nil {
			return fmt.Errorf("copy user word %q: %w", rec.Word, err)
		}
	}

	// An Exec without arguments flushes the buffered rows
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush user words: %w", err)
	}
	return nil
}

// ListUserIDs returns every user that has a stored vocabulary
func (r *VocabularyRepo) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM vocabularies ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
