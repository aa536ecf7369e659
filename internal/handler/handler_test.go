package handler

import (
	"context"
	"fmt"
	"testing"

	"lugat/internal/domain"
	"lugat/internal/picker"
	"lugat/internal/service"
	"lugat/internal/testutil"
	"lugat/internal/translate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

const testUserID int64 = 7

// fakeContext records what the handler sends; methods it does not override panic
type fakeContext struct {
	tele.Context
	text      string
	callback  *tele.Callback
	sent      []string
	edited    []string
	responses int
}

func newMessage(text string) *fakeContext {
	return &fakeContext{text: text}
}

func newCallback(data string) *fakeContext {
	return &fakeContext{callback: &tele.Callback{ID: "cb", Data: data}}
}

func (c *fakeContext) Sender() *tele.User { return &tele.User{ID: testUserID, Username: "tester"} }
func (c *fakeContext) Text() string { return c.text }
func (c *fakeContext) Callback() *tele.Callback { return c.callback }
func (c *fakeContext) Respond(...*tele.CallbackResponse) error {
	c.responses++
	return nil
}

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.edited = append(c.edited, fmt.Sprint(what))
	return nil
}

// last returns the latest text shown to the user
func (c *fakeContext) last() string {
	if len(c.edited) > 0 {
		return c.edited[len(c.edited)-1]
	}
	if len(c.sent) > 0 {
		return c.sent[len(c.sent)-1]
	}
	return ""
}

func newTestHandler(translator translate.Translator, entries ...domain.WordEntry) (*Handler, *testutil.MemoryVocabularies) {
	logger := testutil.NewTestLogger()
	catalog := testutil.NewMemoryCatalog(entries...)
	stores := testutil.NewMemoryVocabularies()
	registry := service.NewRegistry()

	vocabulary := service.NewVocabularyService(catalog, stores, registry, logger)
	catalogSvc := service.NewCatalogService(catalog, stores, registry, translator, 2, logger)
	sessions := service.NewSessionService(vocabulary, registry, picker.NewRand(1), logger)

	return NewHandler(nil, catalogSvc, vocabulary, sessions, logger), stores
}

func TestHandler_AddWordFlow(t *testing.T) {
	h, _ := newTestHandler(translate.Dictionary{"apple": "olma"})

	c := newMessage("")
	require.NoError(t, h.handleAddWord(c))
	assert.Equal(t, addWordPrompt, c.last())
	assert.Equal(t, domain.StateWaitingWord, h.GetState(testUserID).State)

	c = newMessage("apple")
	require.NoError(t, h.handleText(c))
	assert.Contains(t, c.last(), "olma")
	assert.Equal(t, domain.StateIdle, h.GetState(testUserID).State)

	ok, err := h.catalog.Contains(context.Background(), "APPLE")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHandler_AddWordAsksForTranslation(t *testing.T) {
	h, _ := newTestHandler(translate.Dictionary{})

	require.NoError(t, h.handleAddWord(newMessage("")))

	c := newMessage("qwerty, , typed on a keyboard")
	require.NoError(t, h.handleText(c))
	assert.Contains(t, c.last(), "qwerty")

	state := h.GetState(testUserID)
	assert.Equal(t, domain.StateWaitingTranslation, state.State)
	assert.Equal(t, "qwerty", state.CurrentWord)
	assert.Equal(t, "typed on a keyboard", state.Example)

	c = newMessage("klaviatura")
	require.NoError(t, h.handleText(c))
	assert.Contains(t, c.last(), "klaviatura")
	assert.Contains(t, c.last(), "typed on a keyboard")
	assert.Equal(t, domain.StateIdle, h.GetState(testUserID).State)
}

func TestHandler_TextWithoutState(t *testing.T) {
	h, _ := newTestHandler(translate.Dictionary{})

	c := newMessage("hello")
	require.NoError(t, h.handleText(c))
	assert.Contains(t, c.last(), "So'z qo'shish")

	c = newMessage("/unknown")
	require.NoError(t, h.handleText(c))
	assert.Empty(t, c.sent)
}

func TestHandler_LearningFlow(t *testing.T) {
	h, stores := newTestHandler(translate.Dictionary{}, testutil.NewTestEntries(learnSmall)...)

	c := newMessage("/start")
	require.NoError(t, h.handleStart(c))
	assert.Equal(t, menuText, c.last())

	c = newMessage("")
	require.NoError(t, h.handleLearnSmall(c))
	assert.Contains(t, c.last(), "So'z 1/10")

	// Dynamic buttons reach the generic handler with the raw marker
	c = newCallback("\fnext_word_1")
	require.NoError(t, h.handleCallback(c))
	require.Len(t, c.edited, 1)
	assert.Contains(t, c.last(), "So'z 2/10")

	// A second tap on the same card changes nothing
	c = newCallback("\fnext_word_1")
	require.NoError(t, h.handleCallback(c))
	assert.Empty(t, c.edited)
	assert.Empty(t, c.sent)
	assert.Equal(t, 1, c.responses)

	seen := 0
	for _, r := range stores.Records(testUserID) {
		seen += r.SeenCount
	}
	assert.Equal(t, 2, seen)
}

func TestHandler_DeleteCurrentWord(t *testing.T) {
	h, stores := newTestHandler(translate.Dictionary{}, testutil.NewTestEntries(learnSmall)...)

	require.NoError(t, h.handleLearnSmall(newMessage("")))
	current, ok := h.sessions.CurrentWord(testUserID)
	require.True(t, ok)

	c := newCallback("")
	c.callback.Unique = btnDeleteCurrent.Unique
	require.NoError(t, h.handleCallback(c))
	assert.Contains(t, c.last(), "o'chirildi")
	assert.Contains(t, c.last(), "So'z 1/9")

	record, ok := stores.Record(testUserID, current.Word)
	require.True(t, ok)
	assert.True(t, record.Deleted)
}

func TestHandler_DeleteAndRestoreFromMenu(t *testing.T) {
	h, stores := newTestHandler(translate.Dictionary{}, testutil.NewTestEntries(3)...)

	c := newCallback("\fdelete_select_w1")
	require.NoError(t, h.handleCallback(c))
	assert.Contains(t, c.last(), "'w1' so'zi o'chirildi")

	record, _ := stores.Record(testUserID, "w1")
	assert.True(t, record.Deleted)

	c = newCallback("\fdelete_select_w1")
	require.NoError(t, h.handleCallback(c))
	assert.Equal(t, notFoundText, c.last())

	c = newCallback("\frestore_word_w1")
	require.NoError(t, h.handleCallback(c))
	assert.Contains(t, c.last(), "qayta tiklandi")

	record, _ = stores.Record(testUserID, "w1")
	assert.False(t, record.Deleted)

	c = newCallback("")
	c.callback.Unique = btnRestoreAll.Unique
	require.NoError(t, h.handleCallback(c))
	assert.Equal(t, noDeletedText, c.last())
}

func TestHandler_TestNeedsSeenWords(t *testing.T) {
	h, _ := newTestHandler(translate.Dictionary{}, testutil.NewTestEntries(5)...)

	c := newMessage("")
	require.NoError(t, h.handleTest(c))
	assert.Contains(t, c.last(), "kamida 4")
}

func TestHandler_TestFlow(t *testing.T) {
	h, stores := newTestHandler(translate.Dictionary{})
	stores.Put(testUserID, testutil.NewSeenRecords(4))

	c := newMessage("")
	require.NoError(t, h.handleTest(c))
	assert.Contains(t, c.last(), "Test savoli 1/4")

	for n := 1; n <= 4; n++ {
		c = newCallback(fmt.Sprintf("\fanswer_%d_0", n))
		require.NoError(t, h.handleCallback(c))
	}
	assert.Contains(t, c.last(), "Test yakunlandi")
	assert.Equal(t, domain.ModeIdle, h.sessions.Mode(testUserID))

	// Answering a finished test is reported, not graded
	c = newCallback("\fanswer_4_0")
	require.NoError(t, h.handleCallback(c))
	assert.Equal(t, staleText, c.last())
}

func TestHandler_StatsAndRefresh(t *testing.T) {
	h, _ := newTestHandler(translate.Dictionary{}, testutil.NewTestEntries(3)...)

	c := newCallback("")
	c.callback.Unique = btnStats.Unique
	require.NoError(t, h.handleCallback(c))
	assert.Contains(t, c.last(), "Jami so'zlar: 3")

	c = newCallback("")
	c.callback.Unique = btnRefresh.Unique
	require.NoError(t, h.handleCallback(c))
	assert.Contains(t, c.last(), "allaqachon yangilangan")
}

func TestHandler_UnknownCallback(t *testing.T) {
	h, _ := newTestHandler(translate.Dictionary{})

	c := newCallback("\fsomething_else")
	require.NoError(t, h.handleCallback(c))
	assert.Equal(t, 1, c.responses)
	assert.Empty(t, c.edited)
}
