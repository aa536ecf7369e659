package translate

import (
	"context"

	"lugat/internal/domain"
)

// Dictionary is a fixed word list used when the web translators are unavailable
type Dictionary map[string]string

// DefaultDictionary holds common English-Uzbek pairs
var DefaultDictionary = Dictionary{
	"apple":     "olma",
	"book":      "kitob",
	"cat":       "mushuk",
	"dog":       "it",
	"house":     "uy",
	"car":       "mashina",
	"water":     "suv",
	"hello":     "salom",
	"goodbye":   "xayr",
	"thank you": "rahmat",
	"yes":       "ha",
	"no":        "yo'q",
	"man":       "erkak",
	"woman":     "ayol",
	"child":     "bola",
	"school":    "maktab",
	"teacher":   "o'qituvchi",
	"student":   "o'quvchi",
	"friend":    "do'st",
	"family":    "oila",
	"work":      "ish",
	"time":      "vaqt",
}

func (Dictionary) local() {}

// Translate looks the word up case-insensitively
func (d Dictionary) Translate(_ context.Context, word string) (string, error) {
	if translation, ok := d[domain.NormalizeWord(word)]; ok {
		return translation, nil
	}
	return "", domain.ErrTranslationNotFound
}
