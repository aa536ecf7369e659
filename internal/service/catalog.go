package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"lugat/internal/domain"
	"lugat/internal/repository"
	"lugat/internal/translate"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogService manages the shared word list
type CatalogService struct {
	mu             sync.Mutex
	catalogRepo    repository.CatalogRepository
	vocabularyRepo repository.VocabularyRepository
	registry       *Registry
	translator     translate.Translator
	concurrency    int
	now            func() time.Time
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service.
// concurrency limits how many user stores are updated at once when a word is added.
func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	vocabularyRepo repository.VocabularyRepository,
	registry *Registry,
	translator translate.Translator,
	concurrency int,
	logger *zap.Logger,
) *CatalogService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &CatalogService{
		catalogRepo:    catalogRepo,
		vocabularyRepo: vocabularyRepo,
		registry:       registry,
		translator:     translator,
		concurrency:    concurrency,
		now:            time.Now,
		logger:         logger,
	}
}

// AddWord adds a word to the catalog and to every existing user vocabulary.
// An empty translation is looked up; domain.ErrTranslationNotFound means the
// caller has to provide one.
func (s *CatalogService) AddWord(ctx context.Context, word, translation, example string) (domain.WordEntry, error) {
	entry := domain.WordEntry{
		Word:        strings.TrimSpace(word),
		Translation: strings.TrimSpace(translation),
		Example:     strings.TrimSpace(example),
	}
	if entry.Key() == "" {
		return domain.WordEntry{}, fmt.Errorf("word cannot be empty: %w", domain.ErrValidation)
	}

	if entry.Translation == "" {
		exists, err := s.Contains(ctx, entry.Word)
		if err != nil {
			return domain.WordEntry{}, err
		}
		if exists {
			return domain.WordEntry{}, domain.ErrAlreadyExists
		}

		entry.Translation, err = s.translator.Translate(ctx, entry.Word)
		if err != nil {
			s.logger.Info("No translation found", zap.String("word", entry.Word), zap.Error(err))
			return domain.WordEntry{}, domain.ErrTranslationNotFound
		}
	}

	entry.AddedAt = s.now()

	s.mu.Lock()
	created, err := s.catalogRepo.AddWord(ctx, entry)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("Failed to add word to catalog", zap.String("word", entry.Word), zap.Error(err))
		return domain.WordEntry{}, fmt.Errorf("add catalog word: %w", err)
	}
	if !created {
		return domain.WordEntry{}, domain.ErrAlreadyExists
	}

	s.logger.Info("Word added to catalog",
		zap.String("word", entry.Word),
		zap.String("translation", entry.Translation),
	)

	s.broadcast(ctx, entry)
	return entry, nil
}

// ListWords returns the catalog in insertion order
func (s *CatalogService) ListWords(ctx context.Context) ([]domain.WordEntry, error) {
	words, err := s.catalogRepo.ListWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return words, nil
}

// Contains reports whether the catalog already has the word, ignoring case
func (s *CatalogService) Contains(ctx context.Context, word string) (bool, error) {
	words, err := s.ListWords(ctx)
	if err != nil {
		return false, err
	}
	key := domain.NormalizeWord(word)
	return lo.ContainsBy(words, func(w domain.WordEntry) bool {
		return w.Key() == key
	}), nil
}

// broadcast appends the new word to every existing user vocabulary.
// Users are updated independently; a failed user catches up on the next load.
func (s *CatalogService) broadcast(ctx context.Context, entry domain.WordEntry) {
	userIDs, err := s.vocabularyRepo.ListUserIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list users for broadcast", zap.Error(err))
		return
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			err := s.registry.Background(userID, func() error {
				return s.addToUser(ctx, userID, entry)
			})
			if err != nil {
				s.logger.Warn("Failed to broadcast word",
					zap.Int64("user_id", userID),
					zap.String("word", entry.Word),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Word broadcast finished", zap.String("word", entry.Word), zap.Int("users", len(userIDs)))
}

func (s *CatalogService) addToUser(ctx context.Context, userID int64, entry domain.WordEntry) error {
	records, exists, err := s.vocabularyRepo.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}
	if !exists {
		return nil
	}

	vocab := domain.NewVocabulary(userID, records)
	if !vocab.Upsert(entry) {
		return nil
	}
	if err := s.vocabularyRepo.Save(ctx, userID, vocab.Records()); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}

