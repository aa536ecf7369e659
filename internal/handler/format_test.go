package handler

import (
	"fmt"
	"strings"
	"testing"

	"lugat/internal/domain"
	"lugat/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWordInput(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		word        string
		translation string
		example     string
		wantErr     bool
	}{
		{
			name:        "full input",
			input:       "apple, olma, I eat an apple",
			word:        "apple",
			translation: "olma",
			example:     "I eat an apple",
		},
		{
			name:        "without example",
			input:       "book , kitob",
			word:        "book",
			translation: "kitob",
		},
		{
			name:  "word only",
			input: "house",
			word:  "house",
		},
		{
			name:        "example keeps commas",
			input:       "run, yugurmoq, Run, Forest, run",
			word:        "run",
			translation: "yugurmoq",
			example:     "Run, Forest, run",
		},
		{
			name:    "empty word",
			input:   " , olma",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, translation, example, err := parseWordInput(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.word, word)
			assert.Equal(t, tt.translation, translation)
			assert.Equal(t, tt.example, example)
		})
	}
}

func TestParseAnswerData(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		number int
		option int
		ok     bool
	}{
		{name: "valid", data: "answer_3_2", number: 3, option: 2, ok: true},
		{name: "first option", data: "answer_1_0", number: 1, option: 0, ok: true},
		{name: "missing option", data: "answer_3", ok: false},
		{name: "zero question", data: "answer_0_1", ok: false},
		{name: "negative option", data: "answer_2_-1", ok: false},
		{name: "garbage", data: "answer_x_y", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, option, ok := parseAnswerData(tt.data)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.number, number)
				assert.Equal(t, tt.option, option)
			}
		})
	}
}

func TestParseNumberSuffix(t *testing.T) {
	n, ok := parseNumberSuffix("next_word_7", prefixNextWord)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = parseNumberSuffix("next_word_", prefixNextWord)
	assert.False(t, ok)

	_, ok = parseNumberSuffix("next_word_0", prefixNextWord)
	assert.False(t, ok)
}

func TestCallbackData(t *testing.T) {
	data, ok := callbackData(prefixDeleteSelect, "apple")
	assert.True(t, ok)
	assert.Equal(t, "delete_select_apple", data)

	// 63 bytes fit together with the marker telebot adds
	_, ok = callbackData(prefixDeleteSelect, strings.Repeat("a", maxCallbackData-1-len(prefixDeleteSelect)))
	assert.True(t, ok)

	_, ok = callbackData(prefixDeleteSelect, strings.Repeat("a", maxCallbackData-len(prefixDeleteSelect)))
	assert.False(t, ok)
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name   string
		score  domain.Score
		expect string
	}{
		{name: "all correct", score: domain.Score{Correct: 10, Total: 10}, expect: "Ajoyib"},
		{name: "exactly seventy percent", score: domain.Score{Correct: 7, Total: 10}, expect: "Yaxshi natija"},
		{name: "below seventy percent", score: domain.Score{Correct: 2, Total: 3}, expect: "Qaytadan urinib"},
		{name: "none correct", score: domain.Score{Correct: 0, Total: 4}, expect: "Qaytadan urinib"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := formatScore(tt.score)
			assert.Contains(t, text, tt.expect)
			assert.Contains(t, text, fmt.Sprintf("%d/%d", tt.score.Correct, tt.score.Total))
		})
	}
}

func TestFormatCard_EscapesHTML(t *testing.T) {
	card := &service.Card{
		Word:   domain.WordEntry{Word: "<b>", Translation: "a & b", Example: "x < y"},
		Number: 2,
		Total:  10,
	}

	text := formatCard(card)

	assert.Contains(t, text, "2/10")
	assert.Contains(t, text, "&lt;b&gt;")
	assert.Contains(t, text, "a &amp; b")
	assert.Contains(t, text, "x &lt; y")
}

func TestFormatStats(t *testing.T) {
	stats := domain.Statistics{
		Total:   12,
		Learned: 4,
		Deleted: 2,
		Active:  10,
		MostSeen: []domain.UserWordRecord{
			{WordEntry: domain.WordEntry{Word: "apple"}, SeenCount: 5},
		},
	}

	text := formatStats(stats)

	assert.Contains(t, text, "Jami so'zlar: 12")
	assert.Contains(t, text, "O'rgangan so'zlar: 4")
	assert.Contains(t, text, "apple - 5 marta")
	assert.NotContains(t, text, "Yana ko'rib chiqish")
}

func TestFormatStats_EscapesHTML(t *testing.T) {
	stats := domain.Statistics{
		Total:  2,
		Active: 2,
		MostSeen: []domain.UserWordRecord{
			{WordEntry: domain.WordEntry{Word: "<tag>"}, SeenCount: 3},
		},
		NeedsReview: []domain.UserWordRecord{
			{WordEntry: domain.WordEntry{Word: "R&D"}, SeenCount: 1},
		},
	}

	text := formatStats(stats)

	assert.Contains(t, text, "&lt;tag&gt; - 3 marta")
	assert.Contains(t, text, "R&amp;D - 1 marta")
	assert.NotContains(t, text, "<tag>")
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, staleText, errorText(domain.ErrInvalidState))
	assert.Equal(t, notFoundText, errorText(fmt.Errorf("delete: %w", domain.ErrNotFound)))
	assert.Equal(t, badFormatText, errorText(domain.ErrValidation))
	assert.Equal(t, genericErrorText, errorText(assert.AnError))
}

func TestInsufficientText(t *testing.T) {
	err := domain.NewInsufficientDataError(4, 2)

	assert.Contains(t, insufficientTestText(err), "kamida 4")
	assert.Contains(t, insufficientLearningText(err), "faqat 2")
}
