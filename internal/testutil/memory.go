package testutil

import (
	"context"
	"sort"
	"sync"

	"lugat/internal/domain"
)

// MemoryCatalog is an in-memory CatalogRepository for service tests
type MemoryCatalog struct {
	mu    sync.Mutex
	words []domain.WordEntry
	err   error
}

// NewMemoryCatalog creates a catalog holding entries
func NewMemoryCatalog(entries ...domain.WordEntry) *MemoryCatalog {
	return &MemoryCatalog{words: append([]domain.WordEntry(nil), entries...)}
}

// FailWith makes every following call return err
func (c *MemoryCatalog) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *MemoryCatalog) AddWord(ctx context.Context, entry domain.WordEntry) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	for _, w := range c.words {
		if w.Key() == entry.Key() {
			return false, nil
		}
	}
	c.words = append(c.words, entry)
	return true, nil
}

func (c *MemoryCatalog) ListWords(ctx context.Context) ([]domain.WordEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return append([]domain.WordEntry(nil), c.words...), nil
}

// MemoryVocabularies is an in-memory VocabularyRepository for service tests
type MemoryVocabularies struct {
	mu      sync.Mutex
	stores  map[int64][]domain.UserWordRecord
	saveErr error
	loadErr error
	Saves   int

	// lateErr fails every save once saveBudget more saves have succeeded
	lateErr    error
	saveBudget int
}

// NewMemoryVocabularies creates an empty repository
func NewMemoryVocabularies() *MemoryVocabularies {
	return &MemoryVocabularies{stores: make(map[int64][]domain.UserWordRecord)}
}

// FailSaves makes Save return err until reset with nil
func (r *MemoryVocabularies) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

// FailSavesAfter lets the next n saves succeed and fails the following ones with err
func (r *MemoryVocabularies) FailSavesAfter(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lateErr = err
	r.saveBudget = n
}

// FailLoads makes Load return err until reset with nil
func (r *MemoryVocabularies) FailLoads(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadErr = err
}

// Put stores records directly, bypassing Save accounting
func (r *MemoryVocabularies) Put(userID int64, records []domain.UserWordRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[userID] = cloneRecords(records)
}

// Records returns what is stored for a user
func (r *MemoryVocabularies) Records(userID int64) []domain.UserWordRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneRecords(r.stores[userID])
}

// Record returns one stored record by word
func (r *MemoryVocabularies) Record(userID int64, word string) (domain.UserWordRecord, bool) {
	for _, rec := range r.Records(userID) {
		if rec.Key() == domain.NormalizeWord(word) {
			return rec, true
		}
	}
	return domain.UserWordRecord{}, false
}

func (r *MemoryVocabularies) Load(ctx context.Context, userID int64) ([]domain.UserWordRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, false, r.loadErr
	}
	records, ok := r.stores[userID]
	if !ok {
		return nil, false, nil
	}
	return cloneRecords(records), true, nil
}

func (r *MemoryVocabularies) Save(ctx context.Context, userID int64, records []domain.UserWordRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.lateErr != nil {
		if r.saveBudget == 0 {
			return r.lateErr
		}
		r.saveBudget--
	}
	r.stores[userID] = cloneRecords(records)
	r.Saves++
	return nil
}

func (r *MemoryVocabularies) ListUserIDs(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.stores))
	for id := range r.stores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func cloneRecords(records []domain.UserWordRecord) []domain.UserWordRecord {
	if records == nil {
		return nil
	}
	out := make([]domain.UserWordRecord, len(records))
	for i, rec := range records {
		out[i] = rec
		if rec.LastSeenAt != nil {
			t := *rec.LastSeenAt
			out[i].LastSeenAt = &t
		}
	}
	return out
}
