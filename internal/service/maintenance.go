package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"lugat/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaintenanceService handles periodic housekeeping
type MaintenanceService struct {
	vocabularyRepo repository.VocabularyRepository
	vocabulary     *VocabularyService
	registry       *Registry
	idleTTL        time.Duration
	concurrency    int
	logger         *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	vocabularyRepo repository.VocabularyRepository,
	vocabulary *VocabularyService,
	registry *Registry,
	idleTTL time.Duration,
	concurrency int,
	logger *zap.Logger,
) *MaintenanceService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &MaintenanceService{
		vocabularyRepo: vocabularyRepo,
		vocabulary:     vocabulary,
		registry:       registry,
		idleTTL:        idleTTL,
		concurrency:    concurrency,
		logger:         logger,
	}
}

// Run reconciles every vocabulary with the catalog and drops idle sessions
func (s *MaintenanceService) Run(ctx context.Context) error {
	s.logger.Info("Starting maintenance")

	added, err := s.ReconcileAll(ctx)
	if err != nil {
		s.logger.Error("Failed to reconcile vocabularies", zap.Error(err))
		return err
	}

	evicted := s.EvictIdleSessions()

	s.logger.Info("Maintenance completed",
		zap.Int("words_added", added),
		zap.Int("sessions_evicted", evicted),
	)
	return nil
}

// ReconcileAll appends missing catalog words to every stored vocabulary.
// A user that fails is logged and skipped; it catches up on its next load.
func (s *MaintenanceService) ReconcileAll(ctx context.Context) (int, error) {
	userIDs, err := s.vocabularyRepo.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			added, err := s.vocabulary.Reconcile(gctx, userID)
			if err != nil {
				s.logger.Warn("Failed to reconcile vocabulary", zap.Int64("user_id", userID), zap.Error(err))
				return nil
			}
			total.Add(int64(added))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(total.Load()), err
	}
	return int(total.Load()), nil
}

// EvictIdleSessions drops sessions that were not used within the idle TTL
func (s *MaintenanceService) EvictIdleSessions() int {
	if s.idleTTL <= 0 {
		return 0
	}
	return s.registry.EvictIdle(s.idleTTL)
}
