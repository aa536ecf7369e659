package service

import (
	"context"
	"fmt"

	"lugat/internal/domain"
	"lugat/internal/repository"

	"go.uber.org/zap"
)

// VocabularyService manages each user's private copy of the catalog
type VocabularyService struct {
	catalogRepo    repository.CatalogRepository
	vocabularyRepo repository.VocabularyRepository
	registry       *Registry
	logger         *zap.Logger
}

// NewVocabularyService creates a new vocabulary service
func NewVocabularyService(
	catalogRepo repository.CatalogRepository,
	vocabularyRepo repository.VocabularyRepository,
	registry *Registry,
	logger *zap.Logger,
) *VocabularyService {
	return &VocabularyService{
		catalogRepo:    catalogRepo,
		vocabularyRepo: vocabularyRepo,
		registry:       registry,
		logger:         logger,
	}
}

// Get returns the user's vocabulary, creating it from the catalog on first access
func (s *VocabularyService) Get(ctx context.Context, userID int64) (*domain.Vocabulary, error) {
	var vocab *domain.Vocabulary
	err := s.registry.Locked(userID, func() error {
		var err error
		vocab, err = s.load(ctx, userID)
		return err
	})
	return vocab, err
}

// Refresh appends catalog words the user does not know yet and returns how many were added
func (s *VocabularyService) Refresh(ctx context.Context, userID int64) (int, error) {
	return s.refresh(ctx, userID, s.registry.Locked)
}

// Reconcile is Refresh for background jobs; it does not count as user activity
func (s *VocabularyService) Reconcile(ctx context.Context, userID int64) (int, error) {
	return s.refresh(ctx, userID, s.registry.Background)
}

func (s *VocabularyService) refresh(ctx context.Context, userID int64, locked func(int64, func() error) error) (int, error) {
	added := 0
	err := locked(userID, func() error {
		records, exists, err := s.vocabularyRepo.Load(ctx, userID)
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}
		if !exists {
			vocab, err := s.materialize(ctx, userID)
			if err != nil {
				return err
			}
			added = vocab.Len()
			return nil
		}

		vocab := domain.NewVocabulary(userID, records)
		added, err = s.reconcile(ctx, vocab)
		return err
	})
	return added, err
}

// Statistics returns the user's counters and most/least seen words
func (s *VocabularyService) Statistics(ctx context.Context, userID int64) (domain.Statistics, error) {
	vocab, err := s.Get(ctx, userID)
	if err != nil {
		return domain.Statistics{}, err
	}
	return vocab.Statistics(), nil
}

// ActiveWords returns the user's words that are not deleted
func (s *VocabularyService) ActiveWords(ctx context.Context, userID int64) ([]domain.UserWordRecord, error) {
	vocab, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return vocab.ActiveWords(), nil
}

// DeletedWords returns the user's soft-deleted words
func (s *VocabularyService) DeletedWords(ctx context.Context, userID int64) ([]domain.UserWordRecord, error) {
	vocab, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return vocab.DeletedWords(), nil
}

// RestoreWord brings back one deleted word. Returns false if it was not deleted.
func (s *VocabularyService) RestoreWord(ctx context.Context, userID int64, word string) (bool, error) {
	restored := false
	err := s.registry.Locked(userID, func() error {
		return s.update(ctx, userID, func(v *domain.Vocabulary) bool {
			restored = v.Restore(word)
			return restored
		})
	})
	if err != nil {
		return false, err
	}
	if restored {
		s.logger.Info("Word restored", zap.Int64("user_id", userID), zap.String("word", word))
	}
	return restored, nil
}

// RestoreAll brings back every deleted word and returns how many were restored
func (s *VocabularyService) RestoreAll(ctx context.Context, userID int64) (int, error) {
	restored := 0
	err := s.registry.Locked(userID, func() error {
		return s.update(ctx, userID, func(v *domain.Vocabulary) bool {
			restored = v.RestoreAll()
			return restored > 0
		})
	})
	if err != nil {
		return 0, err
	}
	return restored, nil
}

// load reads the user's vocabulary and reconciles it with the catalog.
// Callers must hold the user's lock.
func (s *VocabularyService) load(ctx context.Context, userID int64) (*domain.Vocabulary, error) {
	records, exists, err := s.vocabularyRepo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	if !exists {
		return s.materialize(ctx, userID)
	}

	vocab := domain.NewVocabulary(userID, records)
	if _, err := s.reconcile(ctx, vocab); err != nil {
		return nil, err
	}
	return vocab, nil
}

// update loads, mutates and saves. fn reports whether anything changed.
// Callers must hold the user's lock.
func (s *VocabularyService) update(ctx context.Context, userID int64, fn func(v *domain.Vocabulary) bool) error {
	vocab, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !fn(vocab) {
		return nil
	}
	return s.save(ctx, vocab)
}

func (s *VocabularyService) save(ctx context.Context, vocab *domain.Vocabulary) error {
	if err := s.vocabularyRepo.Save(ctx, vocab.UserID, vocab.Records()); err != nil {
		s.logger.Error("Failed to save vocabulary", zap.Int64("user_id", vocab.UserID), zap.Error(err))
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}

func (s *VocabularyService) materialize(ctx context.Context, userID int64) (*domain.Vocabulary, error) {
	entries, err := s.catalogRepo.ListWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	vocab := domain.CloneCatalog(userID, entries)
	if err := s.save(ctx, vocab); err != nil {
		return nil, err
	}

	s.logger.Info("Vocabulary created", zap.Int64("user_id", userID), zap.Int("words", vocab.Len()))
	return vocab, nil
}

// reconcile appends missing catalog words and persists them
func (s *VocabularyService) reconcile(ctx context.Context, vocab *domain.Vocabulary) (int, error) {
	entries, err := s.catalogRepo.ListWords(ctx)
	if err != nil {
		return 0, fmt.Errorf("list catalog: %w", err)
	}

	added := vocab.Merge(entries)
	if len(added) == 0 {
		return 0, nil
	}
	if err := s.save(ctx, vocab); err != nil {
		return 0, err
	}

	s.logger.Info("Vocabulary reconciled with catalog",
		zap.Int64("user_id", vocab.UserID),
		zap.Int("added", len(added)),
	)
	return len(added), nil
}
