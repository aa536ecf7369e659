package domain

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Vocabulary is a user's private copy of the catalog.
// Records keep insertion order; lookups go through the normalized word.
type Vocabulary struct {
	UserID  int64
	records []UserWordRecord
	index   map[string]int
}

// Statistics summarizes a vocabulary. Always derived from the records.
type Statistics struct {
	Total       int
	Learned     int
	Deleted     int
	Active      int
	MostSeen    []UserWordRecord
	NeedsReview []UserWordRecord
}

const (
	mostSeenLimit    = 5
	needsReviewLimit = 3
)

// NewVocabulary builds a vocabulary from stored records.
// Duplicate words (case-insensitive) keep the first occurrence.
func NewVocabulary(userID int64, records []UserWordRecord) *Vocabulary {
	v := &Vocabulary{
		UserID: userID,
		index:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		v.add(r)
	}
	return v
}

// CloneCatalog creates a fresh vocabulary from catalog entries
func CloneCatalog(userID int64, entries []WordEntry) *Vocabulary {
	v := NewVocabulary(userID, nil)
	for _, e := range entries {
		v.Upsert(e)
	}
	return v
}

func (v *Vocabulary) add(r UserWordRecord) bool {
	key := r.Key()
	if key == "" {
		return false
	}
	if _, ok := v.index[key]; ok {
		return false
	}
	v.index[key] = len(v.records)
	v.records = append(v.records, r)
	return true
}

func (v *Vocabulary) find(word string) (*UserWordRecord, bool) {
	i, ok := v.index[NormalizeWord(word)]
	if !ok {
		return nil, false
	}
	return &v.records[i], true
}

// Len returns the number of records including deleted ones
func (v *Vocabulary) Len() int {
	return len(v.records)
}

// Records returns a copy of all records in insertion order
func (v *Vocabulary) Records() []UserWordRecord {
	out := make([]UserWordRecord, len(v.records))
	copy(out, v.records)
	return out
}

// Get returns a copy of the record for word
func (v *Vocabulary) Get(word string) (UserWordRecord, bool) {
	r, ok := v.find(word)
	if !ok {
		return UserWordRecord{}, false
	}
	return *r, true
}

// Contains reports whether the word is known, deleted or not
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.index[NormalizeWord(word)]
	return ok
}

// Upsert adds a new unseen record if the word is absent.
// Returns true if a record was added.
func (v *Vocabulary) Upsert(entry WordEntry) bool {
	return v.add(NewUserWordRecord(entry))
}

// Merge appends every catalog entry the vocabulary does not know yet
// and returns the added records
func (v *Vocabulary) Merge(entries []WordEntry) []UserWordRecord {
	var added []UserWordRecord
	for _, e := range entries {
		if v.Upsert(e) {
			added = append(added, v.records[len(v.records)-1])
		}
	}
	return added
}

// MarkSeen counts one presentation of the word.
// Absent or deleted words are ignored.
func (v *Vocabulary) MarkSeen(word string, now time.Time) {
	r, ok := v.find(word)
	if !ok || r.Deleted {
		return
	}
	r.SeenCount++
	seen := now
	r.LastSeenAt = &seen
}

// MarkLearned flags the given words as learned, skipping deleted ones
func (v *Vocabulary) MarkLearned(words []string) int {
	marked := 0
	for _, w := range words {
		r, ok := v.find(w)
		if !ok || r.Deleted {
			continue
		}
		r.Learned = true
		marked++
	}
	return marked
}

// SoftDelete hides the word from selection.
// Returns false if the word is absent or already deleted.
func (v *Vocabulary) SoftDelete(word string) bool {
	r, ok := v.find(word)
	if !ok || r.Deleted {
		return false
	}
	r.Deleted = true
	return true
}

// Restore clears the deleted flag of one word
func (v *Vocabulary) Restore(word string) bool {
	r, ok := v.find(word)
	if !ok || !r.Deleted {
		return false
	}
	r.Deleted = false
	return true
}

// RestoreAll clears the deleted flag everywhere and returns how many changed
func (v *Vocabulary) RestoreAll() int {
	restored := 0
	for i := range v.records {
		if v.records[i].Deleted {
			v.records[i].Deleted = false
			restored++
		}
	}
	return restored
}

// RecordTestOutcome counts a correct test answer. Wrong answers change nothing.
func (v *Vocabulary) RecordTestOutcome(word string, correct bool) {
	if !correct {
		return
	}
	r, ok := v.find(word)
	if !ok || r.Deleted {
		return
	}
	r.CorrectCount++
}

// ActiveWords returns all records that are not deleted
func (v *Vocabulary) ActiveWords() []UserWordRecord {
	return lo.Filter(v.records, func(r UserWordRecord, _ int) bool {
		return r.Active()
	})
}

// DeletedWords returns all soft-deleted records
func (v *Vocabulary) DeletedWords() []UserWordRecord {
	return lo.Filter(v.records, func(r UserWordRecord, _ int) bool {
		return r.Deleted
	})
}

// Statistics derives counters and the most/least seen lists
func (v *Vocabulary) Statistics() Statistics {
	active := v.ActiveWords()
	stats := Statistics{
		Total:  len(v.records),
		Active: len(active),
	}
	for _, r := range v.records {
		if r.Learned {
			stats.Learned++
		}
		if r.Deleted {
			stats.Deleted++
		}
	}

	bySeenDesc := make([]UserWordRecord, len(active))
	copy(bySeenDesc, active)
	sort.SliceStable(bySeenDesc, func(i, j int) bool {
		return bySeenDesc[i].SeenCount > bySeenDesc[j].SeenCount
	})
	stats.MostSeen = head(bySeenDesc, mostSeenLimit)

	seen := lo.Filter(active, func(r UserWordRecord, _ int) bool { return r.SeenCount > 0 })
	sort.SliceStable(seen, func(i, j int) bool {
		return seen[i].SeenCount < seen[j].SeenCount
	})
	stats.NeedsReview = head(seen, needsReviewLimit)

	return stats
}

func head(records []UserWordRecord, n int) []UserWordRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
