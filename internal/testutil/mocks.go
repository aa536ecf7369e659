package testutil

import (
	"context"

	"lugat/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository is a mock for CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) AddWord(ctx context.Context, entry domain.WordEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) ListWords(ctx context.Context) ([]domain.WordEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WordEntry), args.Error(1)
}

// MockVocabularyRepository is a mock for VocabularyRepository
type MockVocabularyRepository struct {
	mock.Mock
}

func (m *MockVocabularyRepository) Load(ctx context.Context, userID int64) ([]domain.UserWordRecord, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.UserWordRecord), args.Bool(1), args.Error(2)
}

func (m *MockVocabularyRepository) Save(ctx context.Context, userID int64, records []domain.UserWordRecord) error {
	args := m.Called(ctx, userID, records)
	return args.Error(0)
}

func (m *MockVocabularyRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockTranslator is a mock for translate.Translator
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, word string) (string, error) {
	args := m.Called(ctx, word)
	return args.String(0), args.Error(1)
}
