package testutil

import (
	"fmt"
	"time"

	"lugat/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestEntry creates a catalog entry whose translation is derived from the word
func NewTestEntry(word string) domain.WordEntry {
	return domain.WordEntry{
		Word:        word,
		Translation: word + "_tr",
		AddedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewTestEntries creates n entries named w0..w(n-1)
func NewTestEntries(n int) []domain.WordEntry {
	entries := make([]domain.WordEntry, n)
	for i := range entries {
		entries[i] = NewTestEntry(fmt.Sprintf("w%d", i))
	}
	return entries
}

// NewTestRecords creates n unseen records named w0..w(n-1)
func NewTestRecords(n int) []domain.UserWordRecord {
	records := make([]domain.UserWordRecord, n)
	for i, e := range NewTestEntries(n) {
		records[i] = domain.NewUserWordRecord(e)
	}
	return records
}

// NewSeenRecords creates n records named w0..w(n-1) that were each shown once
func NewSeenRecords(n int) []domain.UserWordRecord {
	records := NewTestRecords(n)
	seen := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := range records {
		records[i].SeenCount = 1
		records[i].LastSeenAt = &seen
	}
	return records
}
