package picker

import (
	"fmt"
	"math/rand"

	"lugat/internal/domain"
)

// DefaultDistractors is the number of wrong answers in a question
const DefaultDistractors = 3

const placeholderFormat = "Wrong %d"

// Distractors picks k wrong translations for current from the active words.
//
// The current word is excluded, and so is every word whose translation equals
// the correct one, so a question always has exactly one right answer. When the
// vocabulary is too small the result is padded with "Wrong N" placeholders that
// never repeat a real translation.
func Distractors(current domain.WordEntry, active []domain.UserWordRecord, k int, rng *rand.Rand) []string {
	if k <= 0 {
		return []string{}
	}

	key := current.Key()
	taken := []string{current.Translation}
	var candidates []string
	for _, r := range active {
		if r.Deleted || r.Key() == key {
			continue
		}
		if r.Translation == "" || containsTranslation(taken, r.Translation) {
			continue
		}
		taken = append(taken, r.Translation)
		candidates = append(candidates, r.Translation)
	}

	if len(candidates) >= k {
		return sample(candidates, k, rng)
	}

	wrong := make([]string, 0, k)
	wrong = append(wrong, candidates...)
	for n := 1; len(wrong) < k; n++ {
		placeholder := fmt.Sprintf(placeholderFormat, n)
		if containsTranslation(taken, placeholder) {
			continue
		}
		taken = append(taken, placeholder)
		wrong = append(wrong, placeholder)
	}
	return wrong
}

// BuildQuestion combines the correct translation with k distractors in random order
func BuildQuestion(current domain.WordEntry, active []domain.UserWordRecord, k int, rng *rand.Rand) *domain.Question {
	wrong := Distractors(current, active, k, rng)

	texts := append([]string{current.Translation}, wrong...)
	rng.Shuffle(len(texts), func(i, j int) {
		texts[i], texts[j] = texts[j], texts[i]
	})

	q := &domain.Question{
		Word:         current,
		Options:      make([]domain.Option, len(texts)),
		CorrectIndex: -1,
	}
	for i, text := range texts {
		correct := text == current.Translation && q.CorrectIndex == -1
		if correct {
			q.CorrectIndex = i
		}
		q.Options[i] = domain.Option{Text: text, Correct: correct}
	}
	return q
}

func containsTranslation(list []string, translation string) bool {
	for _, t := range list {
		if domain.SameTranslation(t, translation) {
			return true
		}
	}
	return false
}
