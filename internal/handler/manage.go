package handler

import (
	"context"
	"errors"
	"fmt"
	"html"

	"lugat/internal/domain"

	"github.com/samber/lo"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const noDeletedText = "🗑️ Sizda o'chirilgan so'zlar mavjud emas."

// handleDeleteMenu lists active words to pick one for deletion
func (h *Handler) handleDeleteMenu(c tele.Context) error {
	userID := c.Sender().ID

	active, err := h.vocabulary.ActiveWords(context.Background(), userID)
	if err != nil {
		h.logger.Error("Failed to load active words", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}
	if len(active) == 0 {
		return h.render(c, "Hamma so'zlaringiz o'chirilgan! Yangi so'zlar qo'shing yoki o'chirilgan so'zlarni qayta tiklang.", backMarkup())
	}

	markup := &tele.ReplyMarkup{}
	buttons := wordButtons(markup, head(active, deleteMenuLimit), prefixDeleteSelect)
	rows := lo.Map(lo.Chunk(buttons, 5), func(chunk []tele.Btn, _ int) tele.Row {
		return markup.Row(chunk...)
	})
	rows = append(rows, markup.Row(btnMenu))
	markup.Inline(rows...)

	return h.render(c, "🗑️ O'chirmoqchi bo'lgan so'zingizni tanlang:", markup)
}

// handleDeleteSelect deletes the word picked in the delete menu
func (h *Handler) handleDeleteSelect(c tele.Context, word string) error {
	userID := c.Sender().ID

	step, err := h.sessions.DeleteWord(context.Background(), userID, word)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.logger.Error("Failed to delete word", zap.Int64("user_id", userID), zap.Error(err))
		}
		return h.render(c, errorText(err), backMarkup())
	}

	notice := fmt.Sprintf("✅ '%s' so'zi o'chirildi!\n\n", html.EscapeString(word))
	if step != nil {
		// The word belonged to the running learning pass
		return h.showStep(c, *step, notice)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(tele.Btn{Unique: btnDeleteWord.Unique, Text: "🗑️ Yana o'chirish"}),
		markup.Row(btnMenu),
	)
	return h.render(c, notice, markup)
}

// handleStats shows vocabulary counters
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	stats, err := h.vocabulary.Statistics(context.Background(), userID)
	if err != nil {
		h.logger.Error("Failed to load statistics", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}
	if stats.Total == 0 {
		return h.render(c, "📊 Sizda hali so'zlar mavjud emas. Avval so'z qo'shing.", backMarkup())
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnRefresh),
		markup.Row(btnRestore),
		markup.Row(btnMenu),
	)
	return h.render(c, formatStats(stats), markup)
}

// handleRefresh pulls catalog words the user does not have yet
func (h *Handler) handleRefresh(c tele.Context) error {
	userID := c.Sender().ID

	added, err := h.vocabulary.Refresh(context.Background(), userID)
	if err != nil {
		h.logger.Error("Failed to refresh vocabulary", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}
	return h.render(c, formatRefresh(added), backMarkup())
}

// handleRestoreMenu lists deleted words
func (h *Handler) handleRestoreMenu(c tele.Context) error {
	userID := c.Sender().ID

	deleted, err := h.vocabulary.DeletedWords(context.Background(), userID)
	if err != nil {
		h.logger.Error("Failed to load deleted words", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}
	if len(deleted) == 0 {
		return h.render(c, noDeletedText, backMarkup())
	}

	markup := &tele.ReplyMarkup{}
	rows := lo.Map(wordButtons(markup, head(deleted, restoreMenuLimit), prefixRestoreWord), func(btn tele.Btn, _ int) tele.Row {
		return markup.Row(btn)
	})
	rows = append(rows, markup.Row(btnRestoreAll), markup.Row(btnMenu))
	markup.Inline(rows...)

	return h.render(c, "🔙 Tiklamoqchi bo'lgan so'zingizni tanlang:", markup)
}

// handleRestoreWord restores one word from the restore menu
func (h *Handler) handleRestoreWord(c tele.Context, word string) error {
	userID := c.Sender().ID

	restored, err := h.vocabulary.RestoreWord(context.Background(), userID, word)
	if err != nil {
		h.logger.Error("Failed to restore word", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}
	if !restored {
		return h.render(c, "❌ So'z topilmadi yoki xatolik yuz berdi.", backMarkup())
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnRestore), markup.Row(btnMenu))
	return h.render(c, fmt.Sprintf("✅ '%s' so'zi qayta tiklandi!", html.EscapeString(word)), markup)
}

// handleRestoreAll restores every deleted word
func (h *Handler) handleRestoreAll(c tele.Context) error {
	userID := c.Sender().ID

	count, err := h.vocabulary.RestoreAll(context.Background(), userID)
	if err != nil {
		h.logger.Error("Failed to restore words", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}
	if count == 0 {
		return h.render(c, noDeletedText, backMarkup())
	}
	return h.render(c, fmt.Sprintf("✅ Barcha %d ta so'z qayta tiklandi!", count), backMarkup())
}

// wordButtons builds one button per word, skipping words too long for callback data
func wordButtons(markup *tele.ReplyMarkup, records []domain.UserWordRecord, prefix string) []tele.Btn {
	buttons := make([]tele.Btn, 0, len(records))
	for _, r := range records {
		data, ok := callbackData(prefix, r.Word)
		if !ok {
			continue
		}
		buttons = append(buttons, markup.Data(r.Word, data))
	}
	return buttons
}

func head(records []domain.UserWordRecord, n int) []domain.UserWordRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
