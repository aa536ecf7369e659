package picker

import (
	"fmt"
	"testing"
	"time"

	"lugat/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(word string, seen int, lastSeen *time.Time) domain.UserWordRecord {
	return domain.UserWordRecord{
		WordEntry:  domain.WordEntry{Word: word, Translation: word + "_tr"},
		SeenCount:  seen,
		LastSeenAt: lastSeen,
	}
}

func words(records []domain.UserWordRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Word
	}
	return out
}

func TestSelectForLearning_NeverSeenKeepsOrder(t *testing.T) {
	var records []domain.UserWordRecord
	for i := 0; i < 10; i++ {
		records = append(records, record(fmt.Sprintf("w%d", i), 0, nil))
	}

	selected := SelectForLearning(records, 10, NewRand(1))

	require.Len(t, selected, 10)
	assert.Equal(t, words(records), words(selected))
	for _, r := range selected {
		assert.Nil(t, r.LastSeenAt)
	}
}

func TestSelectForLearning_LeastExposedFirst(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(time.Hour)

	records := []domain.UserWordRecord{
		record("seen-twice", 2, &old),
		record("seen-recent", 1, &recent),
		record("never", 1, nil),
		record("seen-old", 1, &old),
		record("fresh", 0, nil),
	}

	selected := SelectForLearning(records, 4, NewRand(1))

	assert.Equal(t, []string{"fresh", "never", "seen-old", "seen-recent"}, words(selected))
}

func TestSelectForLearning_SkipsDeletedAndLearned(t *testing.T) {
	deleted := record("deleted", 0, nil)
	deleted.Deleted = true
	learned := record("learned", 0, nil)
	learned.Learned = true

	records := []domain.UserWordRecord{deleted, learned, record("a", 3, nil), record("b", 0, nil)}

	selected := SelectForLearning(records, 2, NewRand(1))

	assert.Equal(t, []string{"b", "a"}, words(selected))
}

func TestSelectForLearning_FallsBackToAllActive(t *testing.T) {
	var records []domain.UserWordRecord
	for i := 0; i < 6; i++ {
		r := record(fmt.Sprintf("w%d", i), 1, nil)
		r.Learned = i != 0
		records = append(records, r)
	}
	deleted := record("deleted", 0, nil)
	deleted.Deleted = true
	records = append(records, deleted)

	selected := SelectForLearning(records, 4, NewRand(7))

	require.Len(t, selected, 4)
	seen := map[string]bool{}
	for _, r := range selected {
		assert.NotEqual(t, "deleted", r.Word)
		assert.False(t, seen[r.Word], "duplicate %s", r.Word)
		seen[r.Word] = true
	}
}

func TestSelectForLearning_CountAboveActive(t *testing.T) {
	a := record("a", 0, nil)
	b := record("b", 0, nil)
	b.Learned = true

	selected := SelectForLearning([]domain.UserWordRecord{a, b}, 10, NewRand(1))

	assert.ElementsMatch(t, []string{"a", "b"}, words(selected))
}

func TestSelectForLearning_NothingLeft(t *testing.T) {
	a := record("a", 0, nil)
	a.Learned = true

	assert.Empty(t, SelectForLearning([]domain.UserWordRecord{a}, 1, NewRand(1)))
	assert.Empty(t, SelectForLearning(nil, 5, NewRand(1)))
	assert.Empty(t, SelectForLearning([]domain.UserWordRecord{record("b", 0, nil)}, 0, NewRand(1)))
}

func TestSelectForTesting(t *testing.T) {
	deleted := record("deleted", 3, nil)
	deleted.Deleted = true
	records := []domain.UserWordRecord{
		record("a", 1, nil),
		record("b", 0, nil),
		record("c", 2, nil),
		deleted,
	}

	selected := SelectForTesting(records, 10, NewRand(3))

	assert.ElementsMatch(t, []string{"a", "c"}, words(selected))
	assert.Len(t, SelectForTesting(records, 1, NewRand(3)), 1)
}

func TestDistractors_EnoughCandidates(t *testing.T) {
	current := domain.WordEntry{Word: "apple", Translation: "olma"}
	active := []domain.UserWordRecord{
		record("apple", 0, nil),
		record("b", 0, nil),
		record("c", 0, nil),
		record("d", 0, nil),
		record("e", 0, nil),
	}

	wrong := Distractors(current, active, 3, NewRand(5))

	require.Len(t, wrong, 3)
	assert.NotContains(t, wrong, "olma")
	assert.NotContains(t, wrong, "apple_tr")
	for _, w := range wrong {
		assert.NotContains(t, w, "Wrong")
	}
}

func TestDistractors_PadsWithPlaceholders(t *testing.T) {
	current := domain.WordEntry{Word: "apple", Translation: "olma"}
	active := []domain.UserWordRecord{
		record("apple", 0, nil),
		record("book", 0, nil),
	}

	wrong := Distractors(current, active, 3, NewRand(5))

	assert.Equal(t, []string{"book_tr", "Wrong 1", "Wrong 2"}, wrong)
}

func TestDistractors_PlaceholderNeverCollides(t *testing.T) {
	current := domain.WordEntry{Word: "apple", Translation: "Wrong 1"}
	other := record("book", 0, nil)
	other.Translation = "wrong 2"

	wrong := Distractors(current, []domain.UserWordRecord{other}, 3, NewRand(5))

	assert.Equal(t, []string{"wrong 2", "Wrong 3", "Wrong 4"}, wrong)
}

func TestDistractors_SkipsDuplicateTranslations(t *testing.T) {
	current := domain.WordEntry{Word: "big", Translation: "katta"}
	large := record("large", 0, nil)
	large.Translation = "Katta"
	huge := record("huge", 0, nil)
	huge.Translation = "ulkan"
	giant := record("giant", 0, nil)
	giant.Translation = "ulkan"
	deleted := record("small", 0, nil)
	deleted.Deleted = true

	wrong := Distractors(current, []domain.UserWordRecord{large, huge, giant, deleted}, 3, NewRand(5))

	assert.Equal(t, []string{"ulkan", "Wrong 1", "Wrong 2"}, wrong)
}

func TestBuildQuestion(t *testing.T) {
	current := domain.WordEntry{Word: "apple", Translation: "olma"}
	active := []domain.UserWordRecord{record("apple", 1, nil), record("book", 1, nil)}

	for seed := int64(0); seed < 20; seed++ {
		q := BuildQuestion(current, active, DefaultDistractors, NewRand(seed))

		require.Len(t, q.Options, 4)
		correct := 0
		for i, o := range q.Options {
			if o.Correct {
				correct++
				assert.Equal(t, i, q.CorrectIndex)
				assert.Equal(t, "olma", o.Text)
			}
		}
		assert.Equal(t, 1, correct)
		assert.True(t, q.IsCorrect(q.CorrectIndex))
	}
}
