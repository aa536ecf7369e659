package domain

import (
	"strings"
	"time"
)

// WordEntry is a word as stored in the catalog
type WordEntry struct {
	Word        string
	Translation string
	Example     string
	AddedAt     time.Time
}

// Key returns the identity of the word (case-insensitive)
func (w WordEntry) Key() string {
	return NormalizeWord(w.Word)
}

// UserWordRecord is a word in a user's vocabulary together with learning stats
type UserWordRecord struct {
	WordEntry
	Learned      bool
	Deleted      bool
	SeenCount    int
	CorrectCount int
	LastSeenAt   *time.Time
}

// NewUserWordRecord creates a fresh record: unseen, not learned, not deleted
func NewUserWordRecord(entry WordEntry) UserWordRecord {
	return UserWordRecord{WordEntry: entry}
}

// Active reports whether the record takes part in selection
func (r UserWordRecord) Active() bool {
	return !r.Deleted
}

// NormalizeWord converts a word to its identity key
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// SameTranslation compares two translations ignoring case and surrounding spaces
func SameTranslation(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
