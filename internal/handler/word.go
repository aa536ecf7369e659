package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"lugat/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleAddWord asks for a new word
func (h *Handler) handleAddWord(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingWord})
	return h.render(c, addWordPrompt, backMarkup())
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingWord:
		word, translation, example, err := parseWordInput(text)
		if err != nil {
			return c.Send(badFormatText, tele.ModeHTML)
		}
		return h.addWord(c, word, translation, example)

	case domain.StateWaitingTranslation:
		// Translation lookup failed earlier, the user typed it
		return h.addWord(c, state.CurrentWord, text, state.Example)

	default:
		return c.Send("Iltimos, avval 'So'z qo'shish' tugmasini bosing yoki /start buyrug'ini yuboring.")
	}
}

// addWord adds a word to the catalog. Without a translation it is looked up
// first; when that fails the user is asked to type it.
func (h *Handler) addWord(c tele.Context, word, translation, example string) error {
	userID := c.Sender().ID

	entry, err := h.catalog.AddWord(context.Background(), word, translation, example)
	switch {
	case err == nil:
		h.logger.Info("Word added by user",
			zap.Int64("user_id", userID),
			zap.String("word", entry.Word),
		)
		h.ResetState(userID)
		return c.Send(formatAdded(entry), addMoreMarkup(), tele.ModeHTML)

	case errors.Is(err, domain.ErrAlreadyExists):
		h.ResetState(userID)
		return c.Send(fmt.Sprintf("ℹ️ '%s' so'zi allaqachon lug'atda mavjud.", html.EscapeString(word)),
			addMoreMarkup(), tele.ModeHTML)

	case errors.Is(err, domain.ErrTranslationNotFound):
		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingTranslation,
			CurrentWord: word,
			Example:     example,
		})
		return c.Send(fmt.Sprintf(askTranslationText, html.EscapeString(word)), backMarkup(), tele.ModeHTML)

	case errors.Is(err, domain.ErrValidation):
		return c.Send(badFormatText, tele.ModeHTML)

	default:
		h.logger.Error("Failed to add word",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("word", word),
		)
		return c.Send("❌ So'zni saqlab bo'lmadi. Iltimos, qayta urinib ko'ring.")
	}
}

func addMoreMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(tele.Btn{Unique: btnAddWord.Unique, Text: "➕ Yana so'z qo'shish"}),
		markup.Row(btnMenu),
	)
	return markup
}
