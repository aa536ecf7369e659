package picker

import (
	"math/rand"
	"sort"

	"lugat/internal/domain"

	"github.com/samber/lo"
)

// SelectForLearning picks the next words for a learning pass.
//
// Unlearned active words are ordered by (SeenCount, LastSeenAt) with never-seen
// words first, and the first count of them are returned. When fewer than count
// unlearned words are left, count words are sampled at random from all active
// words instead, so a user who learned everything still gets a pass.
// An empty result means nothing is left to learn.
func SelectForLearning(records []domain.UserWordRecord, count int, rng *rand.Rand) []domain.UserWordRecord {
	if count <= 0 {
		return []domain.UserWordRecord{}
	}

	active := lo.Filter(records, func(r domain.UserWordRecord, _ int) bool {
		return r.Active()
	})
	pool := lo.Filter(active, func(r domain.UserWordRecord, _ int) bool {
		return !r.Learned
	})
	if len(pool) == 0 {
		return []domain.UserWordRecord{}
	}

	if len(pool) >= count {
		sortByExposure(pool)
		return pool[:count]
	}

	return sample(active, count, rng)
}

// SelectForTesting samples up to count active words that were shown at least once
func SelectForTesting(records []domain.UserWordRecord, count int, rng *rand.Rand) []domain.UserWordRecord {
	return sample(TestableWords(records), count, rng)
}

// TestableWords returns active words that were shown at least once
func TestableWords(records []domain.UserWordRecord) []domain.UserWordRecord {
	return lo.Filter(records, func(r domain.UserWordRecord, _ int) bool {
		return r.Active() && r.SeenCount > 0
	})
}

// sortByExposure orders records least-exposed first, keeping the original order on ties
func sortByExposure(records []domain.UserWordRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.SeenCount != b.SeenCount {
			return a.SeenCount < b.SeenCount
		}
		switch {
		case a.LastSeenAt == nil && b.LastSeenAt == nil:
			return false
		case a.LastSeenAt == nil:
			return true
		case b.LastSeenAt == nil:
			return false
		}
		return a.LastSeenAt.Before(*b.LastSeenAt)
	})
}

// Entries strips the per-user stats from records
func Entries(records []domain.UserWordRecord) []domain.WordEntry {
	return lo.Map(records, func(r domain.UserWordRecord, _ int) domain.WordEntry {
		return r.WordEntry
	})
}
