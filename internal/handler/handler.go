package handler

import (
	"sync"

	"lugat/internal/domain"
	"lugat/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	learnSmall = 10
	learnLarge = 20

	deleteMenuLimit  = 20
	restoreMenuLimit = 15
)

// Handler manages all bot interactions
type Handler struct {
	bot        *tele.Bot
	catalog    *service.CatalogService
	vocabulary *service.VocabularyService
	sessions   *service.SessionService
	logger     *zap.Logger

	// Word input states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	catalog *service.CatalogService,
	vocabulary *service.VocabularyService,
	sessions *service.SessionService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:        bot,
		catalog:    catalog,
		vocabulary: vocabulary,
		sessions:   sessions,
		logger:     logger,
		states:     make(map[int64]*domain.StateData),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnLearn10, h.handleLearnSmall)
	h.bot.Handle(&btnLearn20, h.handleLearnLarge)
	h.bot.Handle(&btnLearnMore, h.handleLearnSmall)
	h.bot.Handle(&btnTest, h.handleTest)
	h.bot.Handle(&btnTestAfterLearn, h.handleTest)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnDeleteWord, h.handleDeleteMenu)
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnRefresh, h.handleRefresh)
	h.bot.Handle(&btnRestore, h.handleRestoreMenu)
	h.bot.Handle(&btnRestoreAll, h.handleRestoreAll)
	h.bot.Handle(&btnNextWord, h.handleNextWord)
	h.bot.Handle(&btnDeleteCurrent, h.handleDeleteCurrent)
	h.bot.Handle(&btnMenu, h.handleMenu)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current input state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's input state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// Inline keyboard buttons
var (
	btnLearn10 = tele.Btn{
		Unique: "learn_10",
		Text:   "📚 10 ta so'z yodlash",
	}
	btnLearn20 = tele.Btn{
		Unique: "learn_20",
		Text:   "📚 20 ta so'z yodlash",
	}
	btnLearnMore = tele.Btn{
		Unique: "learn_more",
		Text:   "📚 Yangi so'zlar yodlash",
	}
	btnTest = tele.Btn{
		Unique: "test",
		Text:   "📝 Test topshirish",
	}
	btnTestAfterLearn = tele.Btn{
		Unique: "start_test_after_learn",
		Text:   "✅ Ha, testni boshlayman",
	}
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ So'z qo'shish",
	}
	btnDeleteWord = tele.Btn{
		Unique: "delete_word",
		Text:   "🗑️ So'z o'chirish",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Mening statistikam",
	}
	btnRefresh = tele.Btn{
		Unique: "refresh",
		Text:   "🔄 So'zlarni yangilash",
	}
	btnRestore = tele.Btn{
		Unique: "restore",
		Text:   "♻️ O'chirilgan so'zlarni tiklash",
	}
	btnRestoreAll = tele.Btn{
		Unique: "restore_all",
		Text:   "🔄 Barchasini tiklash",
	}
	btnNextWord = tele.Btn{
		Unique: "next_word",
		Text:   "✅ Tushundim (Keyingisi)",
	}
	btnDeleteCurrent = tele.Btn{
		Unique: "delete_current",
		Text:   "🗑️ Bu so'zni o'chirish",
	}
	btnMenu = tele.Btn{
		Unique: "menu",
		Text:   "🏠 Bosh menyu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnLearn10),
		menu.Row(btnLearn20),
		menu.Row(btnTest),
		menu.Row(btnAddWord),
		menu.Row(btnDeleteWord),
		menu.Row(btnStats),
		menu.Row(btnRefresh),
	)
	return menu
}

// backMarkup returns a keyboard with a single main menu button
func backMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMenu))
	return markup
}
