package service

import (
	"time"

	"lugat/internal/picker"
	"lugat/internal/testutil"
	"lugat/internal/translate"
)

const testUser int64 = 42

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	catalog    *testutil.MemoryCatalog
	stores     *testutil.MemoryVocabularies
	registry   *Registry
	catalogSvc *CatalogService
	vocabulary *VocabularyService
	sessions   *SessionService
}

func newTestEnv(catalog *testutil.MemoryCatalog, translator translate.Translator) *testEnv {
	logger := testutil.NewTestLogger()
	stores := testutil.NewMemoryVocabularies()
	registry := NewRegistry()

	vocabulary := NewVocabularyService(catalog, stores, registry, logger)
	catalogSvc := NewCatalogService(catalog, stores, registry, translator, 4, logger)
	catalogSvc.now = func() time.Time { return testNow }
	sessions := NewSessionService(vocabulary, registry, picker.NewRand(1), logger)
	sessions.now = func() time.Time { return testNow }

	return &testEnv{
		catalog:    catalog,
		stores:     stores,
		registry:   registry,
		catalogSvc: catalogSvc,
		vocabulary: vocabulary,
		sessions:   sessions,
	}
}
