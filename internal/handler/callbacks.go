package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Prefixes of dynamic button data
const (
	prefixAnswer       = "answer_"
	prefixNextWord     = "next_word_"
	prefixDeleteSelect = "delete_select_"
	prefixRestoreWord  = "restore_word_"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Another tap already put the same content in place
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// render edits the message behind a callback, or sends a new one for commands and text
func (h *Handler) render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup, tele.ModeHTML); err != nil {
			if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
				return nil // Message was already modified, just acknowledged
			}
			return c.Send(text, markup, tele.ModeHTML)
		}
		return c.Respond()
	}
	return c.Send(text, markup, tele.ModeHTML)
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Static buttons first, by Unique or by bare data
	key := callback.Unique
	if key == "" {
		key = data
	}
	if handle, ok := h.staticCallbacks()[key]; ok {
		return handle(c)
	}

	// Dynamic buttons by data prefix
	switch {
	case strings.HasPrefix(data, prefixAnswer):
		return h.handleAnswer(c, data)
	case strings.HasPrefix(data, prefixNextWord):
		return h.handleNextWordFrom(c, data)
	case strings.HasPrefix(data, prefixDeleteSelect):
		return h.handleDeleteSelect(c, strings.TrimPrefix(data, prefixDeleteSelect))
	case strings.HasPrefix(data, prefixRestoreWord):
		return h.handleRestoreWord(c, strings.TrimPrefix(data, prefixRestoreWord))
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

func (h *Handler) staticCallbacks() map[string]tele.HandlerFunc {
	return map[string]tele.HandlerFunc{
		btnLearn10.Unique:        h.handleLearnSmall,
		btnLearn20.Unique:        h.handleLearnLarge,
		btnLearnMore.Unique:      h.handleLearnSmall,
		btnTest.Unique:           h.handleTest,
		btnTestAfterLearn.Unique: h.handleTest,
		btnAddWord.Unique:        h.handleAddWord,
		btnDeleteWord.Unique:     h.handleDeleteMenu,
		btnStats.Unique:          h.handleStats,
		btnRefresh.Unique:        h.handleRefresh,
		btnRestore.Unique:        h.handleRestoreMenu,
		btnRestoreAll.Unique:     h.handleRestoreAll,
		btnNextWord.Unique:       h.handleNextWord,
		btnDeleteCurrent.Unique:  h.handleDeleteCurrent,
		btnMenu.Unique:           h.handleMenu,
	}
}
