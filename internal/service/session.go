package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"lugat/internal/domain"
	"lugat/internal/picker"

	"go.uber.org/zap"
)

const (
	// DefaultPassSize is used when a pass is started without a word count
	DefaultPassSize = 10
	// MinTestWords is the smallest number of seen words a test can be built from
	MinTestWords = picker.DefaultDistractors + 1
)

// Card is one word shown in a learning pass
type Card struct {
	Word   domain.WordEntry
	Number int
	Total  int
}

// LearningStep is what the user sees after a learning transition.
// Card is nil once the pass is over.
type LearningStep struct {
	Card         *Card
	Finished     bool
	LearnedCount int
	AllRemoved   bool
}

// AnswerResult is the outcome of one test answer
type AnswerResult struct {
	Correct            bool
	CorrectTranslation string
	Next               *domain.Question
	Finished           bool
	Score              domain.Score
}

// SessionService drives learning and testing passes
type SessionService struct {
	vocabulary *VocabularyService
	registry   *Registry
	rng        *rand.Rand
	now        func() time.Time
	logger     *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(vocabulary *VocabularyService, registry *Registry, rng *rand.Rand, logger *zap.Logger) *SessionService {
	return &SessionService{
		vocabulary: vocabulary,
		registry:   registry,
		rng:        rng,
		now:        time.Now,
		logger:     logger,
	}
}

// Mode returns the current phase of the user's session
func (s *SessionService) Mode(userID int64) domain.Mode {
	return s.registry.Snapshot(userID).Mode
}

// CurrentWord returns the word under the cursor of a running learning pass
func (s *SessionService) CurrentWord(userID int64) (domain.WordEntry, bool) {
	snapshot := s.registry.Snapshot(userID)
	if snapshot.Mode != domain.ModeLearning {
		return domain.WordEntry{}, false
	}
	return snapshot.Current()
}

// StartLearning freezes a new learning queue of count words
func (s *SessionService) StartLearning(ctx context.Context, userID int64, count int) ([]domain.WordEntry, error) {
	if count <= 0 {
		count = DefaultPassSize
	}

	var queue []domain.WordEntry
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		vocab, err := s.vocabulary.load(ctx, userID)
		if err != nil {
			return err
		}

		active := vocab.ActiveWords()
		if len(active) < count {
			return domain.NewInsufficientDataError(count, len(active))
		}

		selected := picker.SelectForLearning(vocab.Records(), count, s.rng)
		if len(selected) == 0 {
			return domain.ErrAllLearned
		}

		sess.Reset()
		sess.Mode = domain.ModeLearning
		sess.Queue = picker.Entries(selected)
		queue = append([]domain.WordEntry(nil), sess.Queue...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Learning pass started", zap.Int64("user_id", userID), zap.Int("words", len(queue)))
	return queue, nil
}

// PresentCurrent shows the word under the cursor, counting it as seen the first time
func (s *SessionService) PresentCurrent(ctx context.Context, userID int64) (LearningStep, error) {
	var step LearningStep
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		if sess.Mode != domain.ModeLearning {
			return domain.ErrInvalidState
		}
		vocab, err := s.vocabulary.load(ctx, userID)
		if err != nil {
			return err
		}
		var dirty bool
		step, dirty = s.present(sess, vocab)
		return s.persistStep(ctx, vocab, step, dirty)
	})
	return step, err
}

// Advance moves to the next word, finishing the pass after the last one
func (s *SessionService) Advance(ctx context.Context, userID int64) (LearningStep, error) {
	return s.AdvanceFrom(ctx, userID, 0)
}

// AdvanceFrom is Advance guarded by the card number the user is looking at.
// A stale number (a repeated tap) yields domain.ErrInvalidState; 0 skips the check.
func (s *SessionService) AdvanceFrom(ctx context.Context, userID int64, number int) (LearningStep, error) {
	var step LearningStep
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		if sess.Mode != domain.ModeLearning {
			return domain.ErrInvalidState
		}
		if number > 0 && number != sess.Cursor+1 {
			return domain.ErrInvalidState
		}
		vocab, err := s.vocabulary.load(ctx, userID)
		if err != nil {
			return err
		}
		sess.Cursor++
		var dirty bool
		step, dirty = s.present(sess, vocab)
		return s.persistStep(ctx, vocab, step, dirty)
	})
	return step, err
}

// DeleteCurrentWord soft-deletes a word of the running learning pass and
// presents the word that takes its place
func (s *SessionService) DeleteCurrentWord(ctx context.Context, userID int64, word string) (LearningStep, error) {
	var step LearningStep
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		if sess.Mode != domain.ModeLearning {
			return domain.ErrInvalidState
		}
		vocab, err := s.vocabulary.load(ctx, userID)
		if err != nil {
			return err
		}
		var dirty bool
		step, dirty, err = s.deleteFromPass(sess, vocab, word)
		if err != nil {
			return err
		}
		return s.persistStep(ctx, vocab, step, dirty)
	})
	if err != nil {
		return LearningStep{}, err
	}

	s.logger.Info("Word deleted during learning", zap.Int64("user_id", userID), zap.String("word", word))
	return step, nil
}

// DeleteWord soft-deletes a word picked from the delete menu.
// When the word is part of a running learning pass the pass continues as with
// DeleteCurrentWord and the new step is returned; otherwise the step is nil.
func (s *SessionService) DeleteWord(ctx context.Context, userID int64, word string) (*LearningStep, error) {
	var step *LearningStep
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		vocab, err := s.vocabulary.load(ctx, userID)
		if err != nil {
			return err
		}

		if sess.Mode == domain.ModeLearning && sess.InQueue(word) {
			next, dirty, err := s.deleteFromPass(sess, vocab, word)
			if err != nil {
				return err
			}
			step = &next
			return s.persistStep(ctx, vocab, next, dirty)
		}

		if !vocab.SoftDelete(word) {
			return domain.ErrNotFound
		}
		return s.vocabulary.save(ctx, vocab)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Word deleted", zap.Int64("user_id", userID), zap.String("word", word))
	return step, nil
}

// StartTesting freezes a test queue of up to count seen words and returns the first question
func (s *SessionService) StartTesting(ctx context.Context, userID int64, count int) (*domain.Question, error) {
	if count <= 0 {
		count = DefaultPassSize
	}

	var question *domain.Question
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		vocab, err := s.vocabulary.load(ctx, userID)
		if err != nil {
			return err
		}

		records := vocab.Records()
		eligible := picker.TestableWords(records)
		if len(eligible) < MinTestWords {
			return domain.NewInsufficientDataError(MinTestWords, len(eligible))
		}

		sess.Reset()
		sess.Mode = domain.ModeTesting
		sess.Queue = picker.Entries(picker.SelectForTesting(records, count, s.rng))
		sess.Question = s.buildQuestion(sess, vocab)
		question = cloneQuestion(sess.Question)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Test started", zap.Int64("user_id", userID), zap.Int("questions", question.Total))
	return question, nil
}

// CurrentQuestion returns the question under the cursor
func (s *SessionService) CurrentQuestion(ctx context.Context, userID int64) (*domain.Question, error) {
	var question *domain.Question
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		if sess.Mode != domain.ModeTesting {
			return domain.ErrInvalidState
		}
		if sess.Question == nil {
			vocab, err := s.vocabulary.load(ctx, userID)
			if err != nil {
				return err
			}
			sess.Question = s.buildQuestion(sess, vocab)
		}
		question = cloneQuestion(sess.Question)
		return nil
	})
	return question, err
}

// SubmitAnswer grades the option at index and moves to the next question
func (s *SessionService) SubmitAnswer(ctx context.Context, userID int64, index int) (AnswerResult, error) {
	return s.AnswerQuestion(ctx, userID, 0, index)
}

// AnswerQuestion is SubmitAnswer guarded by the question number the option belongs to.
// A stale number yields domain.ErrInvalidState; 0 skips the check.
func (s *SessionService) AnswerQuestion(ctx context.Context, userID int64, number, index int) (AnswerResult, error) {
	var result AnswerResult
	err := s.registry.Update(userID, func(sess *domain.SessionState) error {
		if sess.Mode != domain.ModeTesting {
			return domain.ErrInvalidState
		}
		if number > 0 && number != sess.Cursor+1 {
			return domain.ErrInvalidState
		}
		vocab, err := s.vocabulary.load(ctx, userID)
		if err != nil {
			return err
		}
		if sess.Question == nil {
			sess.Question = s.buildQuestion(sess, vocab)
		}

		q := sess.Question
		if index < 0 || index >= len(q.Options) {
			return fmt.Errorf("option %d out of range: %w", index, domain.ErrValidation)
		}

		result.Correct = q.IsCorrect(index)
		result.CorrectTranslation = q.Word.Translation
		if result.Correct {
			sess.CorrectInPass++
			vocab.RecordTestOutcome(q.Word.Word, true)
			if err := s.vocabulary.save(ctx, vocab); err != nil {
				return err
			}
		}

		sess.Cursor++
		if sess.Cursor >= len(sess.Queue) {
			result.Finished = true
			result.Score = domain.Score{Correct: sess.CorrectInPass, Total: len(sess.Queue)}
			sess.Reset()
			return nil
		}

		sess.Question = s.buildQuestion(sess, vocab)
		result.Next = cloneQuestion(sess.Question)
		return nil
	})
	if err != nil {
		return AnswerResult{}, err
	}

	if result.Finished {
		s.logger.Info("Test finished",
			zap.Int64("user_id", userID),
			zap.Int("correct", result.Score.Correct),
			zap.Int("total", result.Score.Total),
		)
	}
	return result, nil
}

// ReturnToMenu drops any running pass without touching the vocabulary
func (s *SessionService) ReturnToMenu(userID int64) {
	_ = s.registry.Update(userID, func(sess *domain.SessionState) error {
		sess.Reset()
		return nil
	})
}

// present shows the word under the cursor or completes the pass.
// A word is marked seen once per presentation of its queue index.
// Only memory is touched; dirty reports whether vocab has to be saved.
func (s *SessionService) present(sess *domain.SessionState, vocab *domain.Vocabulary) (step LearningStep, dirty bool) {
	current, ok := sess.Current()
	if !ok {
		learned := vocab.MarkLearned(sess.QueueWords())
		sess.Reset()
		return LearningStep{Finished: true, LearnedCount: learned}, learned > 0
	}

	if sess.Presented != sess.Cursor {
		vocab.MarkSeen(current.Word, s.now())
		sess.Presented = sess.Cursor
		dirty = true
	}

	return LearningStep{
		Card: &Card{
			Word:   current,
			Number: sess.Cursor + 1,
			Total:  len(sess.Queue),
		},
	}, dirty
}

// deleteFromPass soft-deletes word, drops it from the queue and presents
// whatever takes its place. Like present it only touches memory.
func (s *SessionService) deleteFromPass(sess *domain.SessionState, vocab *domain.Vocabulary, word string) (LearningStep, bool, error) {
	deleted := vocab.SoftDelete(word)
	removed := sess.RemoveWord(word)
	if !deleted && removed == 0 {
		return LearningStep{}, false, domain.ErrNotFound
	}

	if len(sess.Queue) == 0 {
		sess.Reset()
		return LearningStep{AllRemoved: true}, deleted, nil
	}

	step, shown := s.present(sess, vocab)
	return step, deleted || shown, nil
}

// persistStep writes the vocabulary once per learning transition, so a failed
// save leaves both the store and the session as they were
func (s *SessionService) persistStep(ctx context.Context, vocab *domain.Vocabulary, step LearningStep, dirty bool) error {
	if dirty {
		if err := s.vocabulary.save(ctx, vocab); err != nil {
			return err
		}
	}
	if step.Finished {
		s.logger.Info("Learning pass completed", zap.Int64("user_id", vocab.UserID), zap.Int("learned", step.LearnedCount))
	}
	return nil
}

func (s *SessionService) buildQuestion(sess *domain.SessionState, vocab *domain.Vocabulary) *domain.Question {
	current, ok := sess.Current()
	if !ok {
		return nil
	}
	q := picker.BuildQuestion(current, vocab.ActiveWords(), picker.DefaultDistractors, s.rng)
	q.Number = sess.Cursor + 1
	q.Total = len(sess.Queue)
	return q
}

func cloneQuestion(q *domain.Question) *domain.Question {
	if q == nil {
		return nil
	}
	c := *q
	c.Options = append([]domain.Option(nil), q.Options...)
	return &c
}
