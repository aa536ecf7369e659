package domain

// Mode is the phase of a user's session
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeLearning Mode = "learning"
	ModeTesting  Mode = "testing"
)

// SessionState is the ephemeral per-user pass state.
// It lives in memory only; a restart drops it.
type SessionState struct {
	Mode          Mode
	Queue         []WordEntry
	Cursor        int
	CorrectInPass int

	// Presented is the queue index whose presentation was already counted, -1 if none
	Presented int
	// Question is the quiz question for Cursor while Testing
	Question *Question
}

// NewSessionState returns an idle session
func NewSessionState() *SessionState {
	return &SessionState{Mode: ModeIdle, Presented: -1}
}

// Clone returns a deep copy so transitions can be computed before they are committed
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.Queue = make([]WordEntry, len(s.Queue))
	copy(c.Queue, s.Queue)
	if s.Question != nil {
		q := *s.Question
		q.Options = make([]Option, len(s.Question.Options))
		copy(q.Options, s.Question.Options)
		c.Question = &q
	}
	return &c
}

// Reset drops the pass and returns to idle
func (s *SessionState) Reset() {
	*s = *NewSessionState()
}

// Current returns the word under the cursor
func (s *SessionState) Current() (WordEntry, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Queue) {
		return WordEntry{}, false
	}
	return s.Queue[s.Cursor], true
}

// QueueWords returns the words of the queue
func (s *SessionState) QueueWords() []string {
	words := make([]string, len(s.Queue))
	for i, w := range s.Queue {
		words[i] = w.Word
	}
	return words
}

// RemoveWord drops every occurrence of word from the queue and returns how many were removed.
// The cursor keeps pointing at the same word, or at the word that followed the
// removed one, clamped to the last element.
func (s *SessionState) RemoveWord(word string) int {
	key := NormalizeWord(word)
	currentRemoved := false
	removedBefore := 0
	kept := make([]WordEntry, 0, len(s.Queue))
	for i, w := range s.Queue {
		if w.Key() != key {
			kept = append(kept, w)
			continue
		}
		if i < s.Cursor {
			removedBefore++
		}
		if i == s.Cursor {
			currentRemoved = true
		}
	}
	removed := len(s.Queue) - len(kept)
	if removed == 0 {
		return 0
	}

	s.Queue = kept
	s.Cursor -= removedBefore
	if s.Cursor >= len(s.Queue) {
		s.Cursor = len(s.Queue) - 1
		currentRemoved = true
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if currentRemoved {
		s.Presented = -1
	} else if s.Presented >= 0 {
		s.Presented = s.Cursor
	}
	return removed
}

// InQueue reports whether word is part of the current pass
func (s *SessionState) InQueue(word string) bool {
	key := NormalizeWord(word)
	for _, w := range s.Queue {
		if w.Key() == key {
			return true
		}
	}
	return false
}
