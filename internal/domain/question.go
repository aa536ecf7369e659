package domain

// Option is one multiple-choice answer
type Option struct {
	Text    string
	Correct bool
}

// Question is a test question for one word
type Question struct {
	Word         WordEntry
	Options      []Option
	CorrectIndex int
	Number       int
	Total        int
}

// IsCorrect reports whether the option at index is the right answer
func (q *Question) IsCorrect(index int) bool {
	if index < 0 || index >= len(q.Options) {
		return false
	}
	return q.Options[index].Correct
}

// Score is the result of a finished test pass
type Score struct {
	Correct int
	Total   int
}

// Percent returns the share of correct answers in percent
func (s Score) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}
