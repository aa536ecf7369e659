package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"

	"lugat/internal/domain"
	"lugat/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (h *Handler) handleLearnSmall(c tele.Context) error {
	return h.handleLearn(c, learnSmall)
}

func (h *Handler) handleLearnLarge(c tele.Context) error {
	return h.handleLearn(c, learnLarge)
}

// handleLearn starts a learning pass and shows its first word
func (h *Handler) handleLearn(c tele.Context, count int) error {
	userID := c.Sender().ID
	ctx := context.Background()
	h.ResetState(userID)

	if _, err := h.sessions.StartLearning(ctx, userID, count); err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientData):
			return h.render(c, insufficientLearningText(err), backMarkup())
		case errors.Is(err, domain.ErrAllLearned):
			return h.render(c, "Hamma so'zlarni allaqachon yodlab bo'ldingiz! Yangi so'zlar qo'shing.", backMarkup())
		}
		h.logger.Error("Failed to start learning", zap.Int64("user_id", userID), zap.Error(err))
		return h.render(c, genericErrorText, backMarkup())
	}

	step, err := h.sessions.PresentCurrent(ctx, userID)
	if err != nil {
		return h.stepError(c, err)
	}
	return h.showStep(c, step, "")
}

// handleNextWord advances without checking which card was tapped
func (h *Handler) handleNextWord(c tele.Context) error {
	step, err := h.sessions.Advance(context.Background(), c.Sender().ID)
	if err != nil {
		return h.stepError(c, err)
	}
	return h.showStep(c, step, "")
}

// handleNextWordFrom advances from the card number carried in the button
func (h *Handler) handleNextWordFrom(c tele.Context, data string) error {
	number, ok := parseNumberSuffix(data, prefixNextWord)
	if !ok {
		return c.Respond()
	}

	step, err := h.sessions.AdvanceFrom(context.Background(), c.Sender().ID, number)
	if err != nil {
		return h.stepError(c, err)
	}
	return h.showStep(c, step, "")
}

// handleDeleteCurrent deletes the word on screen and shows the next one
func (h *Handler) handleDeleteCurrent(c tele.Context) error {
	userID := c.Sender().ID

	word, ok := h.sessions.CurrentWord(userID)
	if !ok {
		return h.render(c, staleText, backMarkup())
	}

	step, err := h.sessions.DeleteCurrentWord(context.Background(), userID, word.Word)
	if err != nil {
		return h.stepError(c, err)
	}

	notice := fmt.Sprintf("✅ '%s' so'zi o'chirildi!\n\n", html.EscapeString(word.Word))
	return h.showStep(c, step, notice)
}

// showStep renders a learning card or the end of the pass
func (h *Handler) showStep(c tele.Context, step service.LearningStep, notice string) error {
	switch {
	case step.AllRemoved:
		return h.render(c, notice+"Hamma so'zlar o'chirildi. Bosh menyuga qaytamiz.", backMarkup())

	case step.Finished:
		markup := &tele.ReplyMarkup{}
		markup.Inline(
			markup.Row(btnTestAfterLearn),
			markup.Row(btnLearnMore),
			markup.Row(btnMenu),
		)
		return h.render(c, notice+formatPassComplete(step.LearnedCount), markup)

	case step.Card != nil:
		return h.render(c, notice+formatCard(step.Card), cardMarkup(step.Card))
	}
	return h.render(c, staleText, backMarkup())
}

// stepError answers a failed learning transition
func (h *Handler) stepError(c tele.Context, err error) error {
	userID := c.Sender().ID

	if errors.Is(err, domain.ErrInvalidState) && c.Callback() != nil &&
		h.sessions.Mode(userID) == domain.ModeLearning {
		// A repeated tap on a card that was already answered
		return c.Respond()
	}
	if !errors.Is(err, domain.ErrInvalidState) && !errors.Is(err, domain.ErrNotFound) {
		h.logger.Error("Learning step failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return h.render(c, errorText(err), backMarkup())
}

func cardMarkup(card *service.Card) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	next, _ := callbackData(prefixNextWord, strconv.Itoa(card.Number))
	markup.Inline(
		markup.Row(markup.Data(btnNextWord.Text, next)),
		markup.Row(btnDeleteCurrent),
		markup.Row(btnMenu),
	)
	return markup
}
